// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/session"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/testutil"
)

const colorsCSV = "Question,Option 1,Option 2,Option 3\n" +
	"Favorite color?,Red,Green,Blue\n" +
	"Best season?,Summer,Winter\n" +
	"Lonely?,Only\n" +
	",\n"

func newTestHandler(t *testing.T) (*ScreenHandler, *sqlx.DB) {
	t.Helper()
	return newTestHandlerWithConfig(t, testutil.GetTestConfig())
}

func newTestHandlerWithConfig(t *testing.T, cfg cliparse.Config) (*ScreenHandler, *sqlx.DB) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	return NewScreenHandler(store.New(conn), session.NewStore(cfg.SessionTTL), cfg), conn
}

// uploadRequest builds a multipart POST /uploads carrying one file
func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadField, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// carryCookies copies the cookies set by a previous response onto req
func carryCookies(req *http.Request, prev *httptest.ResponseRecorder) *http.Request {
	for _, c := range prev.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) screens.View {
	t.Helper()
	var v screens.View
	testutil.AssertJSON(t, w, &v)
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var e models.ErrorResponse
	testutil.AssertJSON(t, w, &e)
	return e
}

func countAll(t *testing.T, conn *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
