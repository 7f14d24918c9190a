// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/livepoll/chart"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/qr"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/store"
)

// Bounds for the ?size= parameter of QR images
const (
	minQRSize = 64
	maxQRSize = 1024
)

type ImageHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewImageHandler(st *store.Store, cfg cliparse.Config) *ImageHandler {
	return &ImageHandler{store: st, cfg: cfg}
}

// QRCode handles GET /questions/{id}/qr.png
// The code encodes the public vote URL of the question
func (h *ImageHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	q, ok := h.question(w, r)
	if !ok {
		return
	}

	size := qr.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			middleware.ErrorResponse(w, http.StatusBadRequest, "size must be between 64 and 1024")
			return
		}
		size = n
	}

	png, err := qr.PNG(qr.VoteURL(h.cfg.BaseURL, q.ID), size)
	if err != nil {
		slog.Error("failed to encode QR code", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	writePNG(w, png)
}

// Chart handles GET /questions/{id}/chart.png
func (h *ImageHandler) Chart(w http.ResponseWriter, r *http.Request) {
	q, ok := h.question(w, r)
	if !ok {
		return
	}

	results, err := h.store.GetResults(r.Context(), q.ID)
	if err != nil {
		slog.Error("failed to query results", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	labels, pcts := chart.FromResults(results)
	png, err := chart.BarPNG(q.QuestionText, labels, pcts)
	if err != nil {
		slog.Error("failed to render chart", "question_id", q.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	writePNG(w, png)
}

func (h *ImageHandler) question(w http.ResponseWriter, r *http.Request) (models.Question, bool) {
	id, ok := screens.ParseQuestionID(r.PathValue("id"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, screens.MsgInvalidQuestionID)
		return models.Question{}, false
	}

	q, err := h.store.GetQuestion(r.Context(), id)
	if errors.Is(err, store.ErrQuestionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, screens.MsgQuestionNotFound)
		return models.Question{}, false
	}
	if err != nil {
		slog.Error("failed to query question", "question_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Question{}, false
	}
	return q, true
}

// Images change with every vote, so never cache them
func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write image", "error", err)
	}
}
