// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/session"
	"github.com/danielhkuo/livepoll/store"
)

func NewRouter(st *store.Store, sessions *session.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	screenHandler := handlers.NewScreenHandler(st, sessions, cfg)
	imageHandler := handlers.NewImageHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB().PingContext(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin screens
	mux.HandleFunc("GET /screens/{screen}", middleware.WithLogging(screenHandler.Show))

	// Upload workflow
	mux.HandleFunc("POST /uploads", middleware.WithLogging(screenHandler.Upload))
	mux.HandleFunc("POST /uploads/save", middleware.WithLogging(screenHandler.SaveUpload))
	mux.HandleFunc("DELETE /uploads", middleware.WithLogging(screenHandler.DiscardUpload))

	// Voting and cleanup
	mux.HandleFunc("POST /questions/{id}/votes", middleware.WithLogging(screenHandler.CastVote))
	mux.HandleFunc("DELETE /questions/{id}/votes", middleware.WithLogging(screenHandler.ResetVotes))
	mux.HandleFunc("DELETE /questions/{id}", middleware.WithLogging(screenHandler.DeleteQuestion))
	mux.HandleFunc("DELETE /questions", middleware.WithLogging(screenHandler.WipeAll))
	mux.HandleFunc("DELETE /votes", middleware.WithLogging(screenHandler.ResetAllVotes))

	// Participant page, the target of the QR code
	mux.HandleFunc("GET /vote", middleware.WithLogging(screenHandler.PublicView))
	mux.HandleFunc("POST /vote", middleware.WithLogging(screenHandler.PublicVote))

	// Images
	mux.HandleFunc("GET /questions/{id}/qr.png", middleware.WithLogging(imageHandler.QRCode))
	mux.HandleFunc("GET /questions/{id}/chart.png", middleware.WithLogging(imageHandler.Chart))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
