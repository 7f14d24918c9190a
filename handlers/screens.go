// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/screens"
	"github.com/danielhkuo/livepoll/session"
	"github.com/danielhkuo/livepoll/store"
)

// SessionCookie carries the signed browser session ID
const SessionCookie = "livepoll_session"

type ScreenHandler struct {
	store    *store.Store
	sessions *session.Store
	cfg      cliparse.Config
	now      func() time.Time
}

func NewScreenHandler(st *store.Store, sessions *session.Store, cfg cliparse.Config) *ScreenHandler {
	return &ScreenHandler{store: st, sessions: sessions, cfg: cfg, now: time.Now}
}

// Show handles GET /screens/{screen}
func (h *ScreenHandler) Show(w http.ResponseWriter, r *http.Request) {
	screen := screens.Screen(r.PathValue("screen"))
	if !screen.Valid() || screen == screens.Public {
		middleware.ErrorResponse(w, http.StatusNotFound, screens.MsgUnknownScreen)
		return
	}

	h.serve(w, r, screen, screens.Action{RawQuestionID: r.URL.Query().Get("q")})
}

// CastVote handles POST /questions/{id}/votes
func (h *ScreenHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	if _, ok := screens.ParseQuestionID(r.PathValue("id")); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, screens.MsgInvalidQuestionID)
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.serve(w, r, screens.Vote, screens.Action{
		Kind:          screens.ActionVote,
		RawQuestionID: r.PathValue("id"),
		OptionID:      req.OptionID,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *ScreenHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Cleanup, screens.Action{
		Kind:          screens.ActionDelete,
		RawQuestionID: r.PathValue("id"),
	})
}

// ResetVotes handles DELETE /questions/{id}/votes
func (h *ScreenHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Cleanup, screens.Action{
		Kind:          screens.ActionResetVotes,
		RawQuestionID: r.PathValue("id"),
	})
}

// ResetAllVotes handles DELETE /votes
func (h *ScreenHandler) ResetAllVotes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Cleanup, screens.Action{Kind: screens.ActionResetAllVotes})
}

// WipeAll handles DELETE /questions
func (h *ScreenHandler) WipeAll(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, screens.Cleanup, screens.Action{Kind: screens.ActionWipe})
}

// serve renders a screen, runs the resulting commands and renders again so
// the response shows the state after the mutation
func (h *ScreenHandler) serve(w http.ResponseWriter, r *http.Request, screen screens.Screen, act screens.Action) {
	ctx := r.Context()
	env := screens.Env{BaseURL: h.cfg.BaseURL}

	// Only the upload flow keeps state between requests
	var sess *session.Session
	if screen == screens.Upload {
		sess = h.session(w, r)
	}

	snap, err := h.snapshot(ctx, screen, act.RawQuestionID, sess)
	if err != nil {
		slog.Error("failed to load screen state", "screen", screen, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	out := screens.Render(screen, snap, act, env)
	if len(out.Commands) == 0 {
		respond(w, out.View)
		return
	}

	if err := h.execute(ctx, sess, out.Commands); err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to apply screen commands", "screen", screen, "error", err)
		}
		middleware.ErrorResponse(w, status, msg)
		return
	}

	snap, err = h.snapshot(ctx, screen, act.RawQuestionID, sess)
	if err != nil {
		slog.Error("failed to reload screen state", "screen", screen, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	view := screens.Render(screen, snap, screens.Action{RawQuestionID: act.RawQuestionID}, env).View
	if view.Error != "" {
		// The state moved on under us (e.g. the question was deleted right
		// after this vote); the command itself succeeded
		view = out.View
	}
	view.Status = out.View.Status
	if out.View.Notice != "" {
		view.Notice = out.View.Notice
	}
	respond(w, view)
}

// session resolves the browser session from its cookie, starting a new one
// when the cookie is missing, forged or expired. The cookie is written on
// every call so its lifetime follows the session's idle TTL.
func (h *ScreenHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.liveSession(r)
	if s == nil {
		s = h.sessions.Create()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    auth.SignSession(s.ID, h.cfg.SessionSalt),
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (h *ScreenHandler) liveSession(r *http.Request) *session.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	id, err := auth.VerifySession(c.Value, h.cfg.SessionSalt)
	if err != nil {
		return nil
	}
	s, ok := h.sessions.Get(id)
	if !ok {
		return nil
	}
	return s
}

// snapshot loads only what the screen needs
func (h *ScreenHandler) snapshot(ctx context.Context, screen screens.Screen, rawQ string, sess *session.Session) (screens.Snapshot, error) {
	snap := screens.Snapshot{Now: h.now()}
	if sess != nil {
		snap.Pending = sess.Pending()
	}

	switch screen {
	case screens.Manage, screens.Vote, screens.Results, screens.Cleanup:
		questions, err := h.store.ListQuestions(ctx)
		if err != nil {
			return snap, err
		}
		snap.Questions = questions
	}

	if screen == screens.Upload || screen == screens.Manage {
		return snap, nil
	}

	id, ok := screens.ParseQuestionID(rawQ)
	if !ok {
		return snap, nil
	}

	q, err := h.store.GetQuestion(ctx, id)
	if errors.Is(err, store.ErrQuestionNotFound) {
		return snap, nil
	}
	if err != nil {
		return snap, err
	}
	snap.Question = &q

	if screen == screens.Results {
		results, err := h.store.GetResults(ctx, id)
		if err != nil {
			return snap, err
		}
		snap.Results = results
	}

	return snap, nil
}

// execute applies commands in order and stops at the first failure
func (h *ScreenHandler) execute(ctx context.Context, sess *session.Session, cmds []screens.Command) error {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case screens.SaveImport:
			batch := make([]store.NewQuestion, len(c.Rows))
			for i, row := range c.Rows {
				batch[i] = store.NewQuestion{Text: row.Question, Options: row.Options}
			}
			ids, err := h.store.InsertQuestionsWithOptions(ctx, batch, c.Meta)
			if err != nil {
				return fmt.Errorf("save upload: %w", err)
			}
			slog.Info("questions imported", "count", len(ids), "source", c.Meta[models.MetaSource])

		case screens.StashPending:
			p := c.Pending
			sess.SetPending(&p)

		case screens.ClearPending:
			sess.ClearPending()

		case screens.CastVote:
			id, err := h.store.RecordVote(ctx, c.QuestionID, c.OptionID)
			if err != nil {
				return err
			}
			slog.Info("vote recorded", "vote_id", id, "question_id", c.QuestionID, "option_id", c.OptionID)

		case screens.DeleteQuestion:
			if err := h.store.DeleteQuestion(ctx, c.QuestionID); err != nil {
				return err
			}
			slog.Info("question deleted", "question_id", c.QuestionID)

		case screens.ResetVotes:
			n, err := h.store.ResetVotes(ctx, c.QuestionID)
			if err != nil {
				return err
			}
			slog.Info("votes reset", "question_id", c.QuestionID, "deleted", n)

		case screens.ResetAllVotes:
			n, err := h.store.DeleteAllVotes(ctx)
			if err != nil {
				return err
			}
			slog.Info("all votes reset", "deleted", n)

		case screens.WipeAll:
			n, err := h.store.DeleteAll(ctx)
			if err != nil {
				return err
			}
			slog.Warn("all questions wiped", "questions", n)

		default:
			return fmt.Errorf("unknown command %T", cmd)
		}
	}
	return nil
}

// errorStatus maps store errors to a status code and a user message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrQuestionNotFound):
		return http.StatusNotFound, screens.MsgQuestionNotFound
	case errors.Is(err, store.ErrOptionMismatch):
		return http.StatusBadRequest, screens.MsgInvalidOption
	case errors.Is(err, store.ErrInvalidQuestion):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Database error"
}

// respond writes a view, or a plain error body when the view failed
func respond(w http.ResponseWriter, v screens.View) {
	if v.Error != "" {
		middleware.ErrorResponse(w, v.Status, v.Error)
		return
	}
	middleware.JSONResponse(w, v.Status, v)
}
