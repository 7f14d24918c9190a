// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestPublicView(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, _ := testutil.CreateTestQuestion(t, conn, "Lunch?", "Pizza", "Salad")
	id := strconv.FormatInt(qid, 10)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedMsg    string
	}{
		{"valid question", "?q=" + id, http.StatusOK, ""},
		{"non-numeric", "?q=abc", http.StatusBadRequest, screens.MsgInvalidQuestionID},
		{"zero", "?q=0", http.StatusBadRequest, screens.MsgInvalidQuestionID},
		{"missing q", "", http.StatusBadRequest, screens.MsgInvalidQuestionID},
		{"unknown question", "?q=999", http.StatusNotFound, screens.MsgQuestionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.PublicView(w, httptest.NewRequest("GET", "/vote"+tt.query, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedMsg != "" {
				if e := decodeError(t, w); e.Message != tt.expectedMsg {
					t.Errorf("Expected message %q, got %q", tt.expectedMsg, e.Message)
				}
				return
			}

			v := decodeView(t, w)
			if v.Screen != screens.Public || v.Question == nil || v.Question.Text != "Lunch?" {
				t.Errorf("Unexpected view %+v", v)
			}
			if len(v.Menu) != 0 || len(v.Questions) != 0 {
				t.Error("Public view must not expose admin navigation or the question list")
			}
		})
	}
}

func TestPublicVote(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Lunch?", "Pizza", "Salad")
	id := strconv.FormatInt(qid, 10)

	req := testutil.MakeRequest("POST", "/vote?q="+id, models.CastVoteRequest{OptionID: opts[1]}, nil)
	w := httptest.NewRecorder()
	h.PublicVote(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	if v := decodeView(t, w); v.Notice != screens.MsgVoteRecorded {
		t.Errorf("Unexpected notice %q", v.Notice)
	}

	results, err := h.store.GetResults(req.Context(), qid)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if results[0].Count != 0 || results[1].Count != 1 {
		t.Errorf("Unexpected tallies %+v", results)
	}

	// Invalid id never reaches the store
	bad := testutil.MakeRequest("POST", "/vote?q=abc", models.CastVoteRequest{OptionID: opts[0]}, nil)
	w2 := httptest.NewRecorder()
	h.PublicVote(w2, bad)
	testutil.AssertStatus(t, w2, http.StatusBadRequest)

	if n := testutil.CountRows(t, conn, "votes", qid); n != 1 {
		t.Errorf("Expected 1 vote, got %d", n)
	}
}

func TestPublicVoteChecksQuestionIDFirst(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"non-numeric with empty body", "?q=abc", ""},
		{"non-numeric with bad body", "?q=abc", "{"},
		{"missing q", "", `{"option_id": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.PublicVote(w, httptest.NewRequest("POST", "/vote"+tt.query, strings.NewReader(tt.body)))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
			if e := decodeError(t, w); e.Message != screens.MsgInvalidQuestionID {
				t.Errorf("Expected %q, got %q", screens.MsgInvalidQuestionID, e.Message)
			}
		})
	}
}
