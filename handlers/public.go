// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
)

// PublicView handles GET /vote?q=<id>
// This is the page a participant reaches by scanning the QR code
func (h *ScreenHandler) PublicView(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Public, screens.Action{RawQuestionID: r.URL.Query().Get("q")})
}

// PublicVote handles POST /vote?q=<id>
func (h *ScreenHandler) PublicVote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if _, ok := screens.ParseQuestionID(q); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, screens.MsgInvalidQuestionID)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.serve(w, r, screens.Public, screens.Action{
		Kind:          screens.ActionVote,
		RawQuestionID: q,
		OptionID:      req.OptionID,
	})
}
