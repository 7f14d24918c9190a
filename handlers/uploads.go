// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/importer"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/session"
)

// UploadField is the multipart form field holding the spreadsheet
const UploadField = "file"

// Upload handles POST /uploads
// Parses the spreadsheet and stashes it in the session for preview
func (h *ScreenHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.MaxUploadBytes
	tooLargeMsg := fmt.Sprintf("File is larger than the %s limit", humanize.IBytes(uint64(limit)))

	if r.ContentLength > limit {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, tooLargeMsg)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, tooLargeMsg)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expected a multipart form upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, `Missing "file" field`)
		return
	}
	defer file.Close()

	act := screens.Action{Kind: screens.ActionPreview}

	res, err := importer.Parse(file, header.Filename)
	if err != nil {
		slog.Info("upload rejected", "filename", header.Filename, "error", err)
		act.UploadErr = err
	} else {
		slog.Info("upload parsed",
			"filename", header.Filename,
			"size", humanize.Bytes(uint64(header.Size)),
			"rows", len(res.Rows),
			"skipped", len(res.Skipped),
		)
		act.Upload = &session.Pending{
			Filename:   header.Filename,
			UploadedAt: h.now(),
			Rows:       res.Rows,
			Skipped:    res.Skipped,
		}
	}

	h.serve(w, r, screens.Upload, act)
}

// SaveUpload handles POST /uploads/save
// An empty body saves without a batch name
func (h *ScreenHandler) SaveUpload(w http.ResponseWriter, r *http.Request) {
	var req models.SaveUploadRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.serve(w, r, screens.Upload, screens.Action{Kind: screens.ActionSave, Batch: req.Batch})
}

// DiscardUpload handles DELETE /uploads
func (h *ScreenHandler) DiscardUpload(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Upload, screens.Action{Kind: screens.ActionDiscard})
}
