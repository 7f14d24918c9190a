// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestShowScreen(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, _ := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green", "Blue")
	id := strconv.FormatInt(qid, 10)

	tests := []struct {
		name           string
		screen         string
		query          string
		expectedStatus int
		checkView      func(t *testing.T, v screens.View)
	}{
		{
			name:           "manage lists questions",
			screen:         "manage",
			expectedStatus: http.StatusOK,
			checkView: func(t *testing.T, v screens.View) {
				if len(v.Questions) != 1 || v.Questions[0].ID != qid {
					t.Fatalf("Expected the one question, got %+v", v.Questions)
				}
				if v.Questions[0].OptionCount != 3 {
					t.Errorf("Expected 3 options, got %d", v.Questions[0].OptionCount)
				}
				if v.Questions[0].VoteURL != "http://vote.test/vote?q="+id {
					t.Errorf("Unexpected vote URL %q", v.Questions[0].VoteURL)
				}
			},
		},
		{
			name:           "vote without q shows the picker",
			screen:         "vote",
			expectedStatus: http.StatusOK,
			checkView: func(t *testing.T, v screens.View) {
				if v.Question != nil || len(v.Questions) != 1 {
					t.Errorf("Expected question list only, got %+v", v)
				}
				if v.Notice != screens.MsgSelectQuestion {
					t.Errorf("Unexpected notice %q", v.Notice)
				}
			},
		},
		{
			name:           "vote with q shows options and links",
			screen:         "vote",
			query:          "?q=" + id,
			expectedStatus: http.StatusOK,
			checkView: func(t *testing.T, v screens.View) {
				if v.Question == nil || v.Question.ID != qid {
					t.Fatalf("Expected question %d, got %+v", qid, v.Question)
				}
				if len(v.Question.Options) != 3 || v.Question.Options[0].OptionText != "Red" {
					t.Errorf("Unexpected options %+v", v.Question.Options)
				}
				if v.Question.QRURL != "/questions/"+id+"/qr.png" {
					t.Errorf("Unexpected QR URL %q", v.Question.QRURL)
				}
			},
		},
		{
			name:           "results with no votes",
			screen:         "results",
			query:          "?q=" + id,
			expectedStatus: http.StatusOK,
			checkView: func(t *testing.T, v screens.View) {
				if len(v.Results) != 3 || v.TotalVotes != 0 {
					t.Errorf("Expected 3 empty bars, got %+v", v.Results)
				}
				if v.Notice != screens.MsgNoVotes {
					t.Errorf("Unexpected notice %q", v.Notice)
				}
			},
		},
		{
			name:           "cleanup",
			screen:         "cleanup",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "upload",
			screen:         "upload",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-numeric q",
			screen:         "results",
			query:          "?q=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown question",
			screen:         "vote",
			query:          "?q=999",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown screen",
			screen:         "settings",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "public is not an admin screen",
			screen:         "public",
			query:          "?q=" + id,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/screens/"+tt.screen+tt.query, nil)
			req.SetPathValue("screen", tt.screen)
			w := httptest.NewRecorder()

			h.Show(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkView != nil {
				tt.checkView(t, decodeView(t, w))
			}
		})
	}
}

func TestCastVote(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green", "Blue")
	otherID, otherOpts := testutil.CreateTestQuestion(t, conn, "Best season?", "Summer", "Winter")
	id := strconv.FormatInt(qid, 10)

	tests := []struct {
		name           string
		pathID         string
		body           interface{}
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "valid vote",
			pathID:         id,
			body:           models.CastVoteRequest{OptionID: opts[1]},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "option of another question",
			pathID:         id,
			body:           models.CastVoteRequest{OptionID: otherOpts[0]},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    screens.MsgInvalidOption,
		},
		{
			name:           "unknown option",
			pathID:         id,
			body:           models.CastVoteRequest{OptionID: 424242},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    screens.MsgInvalidOption,
		},
		{
			name:           "non-numeric question",
			pathID:         "abc",
			body:           models.CastVoteRequest{OptionID: opts[0]},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    screens.MsgInvalidQuestionID,
		},
		{
			name:           "unknown question",
			pathID:         "999",
			body:           models.CastVoteRequest{OptionID: opts[0]},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    screens.MsgQuestionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/questions/"+tt.pathID+"/votes", tt.body, nil)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			h.CastVote(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedMsg != "" {
				if e := decodeError(t, w); e.Message != tt.expectedMsg {
					t.Errorf("Expected message %q, got %q", tt.expectedMsg, e.Message)
				}
			}
		})
	}

	if n := testutil.CountRows(t, conn, "votes", qid); n != 1 {
		t.Errorf("Expected exactly 1 vote recorded, got %d", n)
	}
	if n := testutil.CountRows(t, conn, "votes", otherID); n != 0 {
		t.Errorf("Expected no votes on the other question, got %d", n)
	}
}

func TestCastVoteResponseShowsQuestion(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Tea or coffee?", "Tea", "Coffee")
	id := strconv.FormatInt(qid, 10)

	req := testutil.MakeRequest("POST", "/questions/"+id+"/votes", models.CastVoteRequest{OptionID: opts[0]}, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	v := decodeView(t, w)
	if v.Notice != screens.MsgVoteRecorded {
		t.Errorf("Unexpected notice %q", v.Notice)
	}
	if v.Question == nil || v.Question.ID != qid {
		t.Errorf("Expected the voted question in the response, got %+v", v.Question)
	}
	if len(v.Questions) != 1 || v.Questions[0].VoteCount != 1 {
		t.Errorf("Expected list to reflect the new vote, got %+v", v.Questions)
	}
}

func TestCastVoteInvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/questions/1/votes", strings.NewReader("{"))
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestResultsAfterVotes(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green", "Blue")
	testutil.AddTestVotes(t, conn, qid, opts[0], 3)
	testutil.AddTestVotes(t, conn, qid, opts[2], 1)
	id := strconv.FormatInt(qid, 10)

	req := httptest.NewRequest("GET", "/screens/results?q="+id, nil)
	req.SetPathValue("screen", "results")
	w := httptest.NewRecorder()
	h.Show(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	v := decodeView(t, w)
	if v.TotalVotes != 4 {
		t.Errorf("Expected 4 votes, got %d", v.TotalVotes)
	}

	want := map[string]struct {
		count int
		label string
	}{
		"Red":   {3, "75.0%"},
		"Green": {0, "0.0%"},
		"Blue":  {1, "25.0%"},
	}
	if len(v.Results) != len(want) {
		t.Fatalf("Expected %d bars, got %d", len(want), len(v.Results))
	}
	for _, bar := range v.Results {
		exp := want[bar.OptionText]
		if bar.Count != exp.count || bar.Label != exp.label {
			t.Errorf("%s: got %d (%s), want %d (%s)", bar.OptionText, bar.Count, bar.Label, exp.count, exp.label)
		}
	}
	if v.Results[0].OptionText != "Red" || v.Results[2].OptionText != "Blue" {
		t.Error("Expected bars in option order")
	}
}

func TestDeleteQuestion(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green")
	keepID, _ := testutil.CreateTestQuestion(t, conn, "Best season?", "Summer", "Winter")
	testutil.AddTestVotes(t, conn, qid, opts[0], 2)
	id := strconv.FormatInt(qid, 10)

	req := httptest.NewRequest("DELETE", "/questions/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.DeleteQuestion(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	v := decodeView(t, w)
	if v.Notice != "Deleted question: Favorite color?" {
		t.Errorf("Unexpected notice %q", v.Notice)
	}
	if len(v.Questions) != 1 || v.Questions[0].ID != keepID {
		t.Errorf("Expected only the other question left, got %+v", v.Questions)
	}

	for _, table := range []string{"votes", "options"} {
		if n := testutil.CountRows(t, conn, table, qid); n != 0 {
			t.Errorf("Expected %s removed, found %d", table, n)
		}
	}

	// Deleting again is a 404
	w2 := httptest.NewRecorder()
	h.DeleteQuestion(w2, req)
	testutil.AssertStatus(t, w2, http.StatusNotFound)
}

func TestResetVotes(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green")
	otherID, otherOpts := testutil.CreateTestQuestion(t, conn, "Best season?", "Summer", "Winter")
	testutil.AddTestVotes(t, conn, qid, opts[0], 2)
	testutil.AddTestVotes(t, conn, otherID, otherOpts[1], 3)
	id := strconv.FormatInt(qid, 10)

	req := httptest.NewRequest("DELETE", "/questions/"+id+"/votes", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.ResetVotes(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, conn, "votes", qid); n != 0 {
		t.Errorf("Expected votes cleared, got %d", n)
	}
	if n := testutil.CountRows(t, conn, "votes", otherID); n != 3 {
		t.Errorf("Expected other question untouched, got %d", n)
	}
	if n := testutil.CountRows(t, conn, "options", qid); n != 2 {
		t.Errorf("Expected options kept, got %d", n)
	}

	bad := httptest.NewRequest("DELETE", "/questions/abc/votes", nil)
	bad.SetPathValue("id", "abc")
	w2 := httptest.NewRecorder()
	h.ResetVotes(w2, bad)
	testutil.AssertStatus(t, w2, http.StatusBadRequest)
}

func TestResetAllVotesAndWipe(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Favorite color?", "Red", "Green")
	otherID, otherOpts := testutil.CreateTestQuestion(t, conn, "Best season?", "Summer", "Winter")
	testutil.AddTestVotes(t, conn, qid, opts[1], 2)
	testutil.AddTestVotes(t, conn, otherID, otherOpts[0], 1)

	w := httptest.NewRecorder()
	h.ResetAllVotes(w, httptest.NewRequest("DELETE", "/votes", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := countAll(t, conn, "votes"); n != 0 {
		t.Errorf("Expected no votes, got %d", n)
	}
	if n := countAll(t, conn, "questions"); n != 2 {
		t.Errorf("Expected questions kept, got %d", n)
	}

	w2 := httptest.NewRecorder()
	h.WipeAll(w2, httptest.NewRequest("DELETE", "/questions", nil))
	testutil.AssertStatus(t, w2, http.StatusOK)

	v := decodeView(t, w2)
	if len(v.Questions) != 0 {
		t.Errorf("Expected empty list after wipe, got %+v", v.Questions)
	}
	for _, table := range []string{"questions", "options", "votes"} {
		if n := countAll(t, conn, table); n != 0 {
			t.Errorf("Expected %s empty, got %d", table, n)
		}
	}
}

func TestSessionCookie(t *testing.T) {
	h, _ := newTestHandler(t)

	show := func(cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/screens/upload", nil)
		req.SetPathValue("screen", "upload")
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		h.Show(w, req)
		return w
	}

	first := show(nil)
	cookies := first.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("Expected a session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("Expected HttpOnly session cookie")
	}

	id, err := auth.VerifySession(cookies[0].Value, testutil.GetTestConfig().SessionSalt)
	if err != nil {
		t.Fatalf("Cookie does not verify: %v", err)
	}

	// A valid cookie keeps its session and is refreshed
	again := show(cookies[0]).Result().Cookies()
	if len(again) != 1 || again[0].Value != cookies[0].Value {
		t.Errorf("Expected the same session cookie to be re-set, got %v", again)
	}
	if want := int(testutil.GetTestConfig().SessionTTL.Seconds()); again[0].MaxAge != want {
		t.Errorf("Expected MaxAge %d, got %d", want, again[0].MaxAge)
	}

	// A forged cookie starts a new session
	forged := &http.Cookie{Name: SessionCookie, Value: id + ".forged"}
	fresh := show(forged).Result().Cookies()
	if len(fresh) != 1 || strings.HasPrefix(fresh[0].Value, id+".") {
		t.Errorf("Expected a new session for a forged cookie, got %v", fresh)
	}
}

func TestNonUploadScreensSetNoCookie(t *testing.T) {
	h, conn := newTestHandler(t)
	qid, opts := testutil.CreateTestQuestion(t, conn, "Tea or coffee?", "Tea", "Coffee")
	id := strconv.FormatInt(qid, 10)

	manage := httptest.NewRequest("GET", "/screens/manage", nil)
	manage.SetPathValue("screen", "manage")
	w := httptest.NewRecorder()
	h.Show(w, manage)
	testutil.AssertStatus(t, w, http.StatusOK)
	if c := w.Result().Cookies(); len(c) != 0 {
		t.Errorf("Manage screen set cookies %v", c)
	}

	w = httptest.NewRecorder()
	h.PublicView(w, httptest.NewRequest("GET", "/vote?q="+id, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if c := w.Result().Cookies(); len(c) != 0 {
		t.Errorf("Public view set cookies %v", c)
	}

	w = httptest.NewRecorder()
	h.PublicVote(w, testutil.MakeRequest("POST", "/vote?q="+id, models.CastVoteRequest{OptionID: opts[0]}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	if c := w.Result().Cookies(); len(c) != 0 {
		t.Errorf("Public vote set cookies %v", c)
	}

	if n := h.sessions.Len(); n != 0 {
		t.Errorf("Expected no sessions created, got %d", n)
	}
}

func TestCastVoteChecksQuestionIDFirst(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{"", "{"} {
		req := httptest.NewRequest("POST", "/questions/abc/votes", strings.NewReader(body))
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()
		h.CastVote(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
		if e := decodeError(t, w); e.Message != screens.MsgInvalidQuestionID {
			t.Errorf("body %q: expected %q, got %q", body, screens.MsgInvalidQuestionID, e.Message)
		}
	}
}
