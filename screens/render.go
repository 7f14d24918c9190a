// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package screens

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/chart"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/qr"
	"github.com/danielhkuo/livepoll/session"
)

// User-visible messages
const (
	MsgInvalidQuestionID = "Invalid question id"
	MsgQuestionNotFound  = "Question not found"
	MsgInvalidOption     = "Option does not belong to this question"
	MsgNothingToSave     = "No uploaded questions to save; upload a spreadsheet first"
	MsgNoValidQuestions  = "No valid questions found in the file"
	MsgVoteRecorded      = "Your vote has been recorded!"
	MsgNoVotes           = "No votes yet for this question."
	MsgNoQuestions       = "No questions yet. Upload a spreadsheet to get started."
	MsgSelectQuestion    = "Select a question"
	MsgUploadHint        = `Upload an .xlsx or .csv file whose first column is "Question"`
	MsgUnsupportedAction = "Unsupported action for this screen"
	MsgUnknownScreen     = "Unknown screen"
)

var titles = map[Screen]string{
	Upload:  "Upload Questions",
	Manage:  "Manage Questions",
	Vote:    "Vote Now",
	Results: "Live Results",
	Cleanup: "Cleanup",
	Public:  "Vote",
}

// Render computes the next view of a screen from the current state and the
// latest action. It performs no I/O: state changes come back as Commands.
func Render(screen Screen, snap Snapshot, act Action, env Env) Outcome {
	switch screen {
	case Upload:
		return renderUpload(snap, act)
	case Manage:
		return renderManage(snap, act, env)
	case Vote:
		return renderVote(snap, act, env)
	case Results:
		return renderResults(snap, act, env)
	case Cleanup:
		return renderCleanup(snap, act, env)
	case Public:
		return ballot(base(Public), snap, act, env)
	}
	return fail(View{Screen: screen}, http.StatusNotFound, MsgUnknownScreen)
}

// ParseQuestionID accepts positive base-10 integers only
func ParseQuestionID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func base(screen Screen) View {
	v := View{Screen: screen, Title: titles[screen], Status: http.StatusOK}
	if screen != Public {
		v.Menu = Menu
	}
	return v
}

func fail(v View, status int, msg string) Outcome {
	v.Status = status
	v.Error = msg
	v.Notice = ""
	return Outcome{View: v}
}

func renderUpload(snap Snapshot, act Action) Outcome {
	v := base(Upload)

	switch act.Kind {
	case ActionView:
		v.Pending = pendingView(snap.Pending)
		if v.Pending == nil {
			v.Notice = MsgUploadHint
		}
		return Outcome{View: v}

	case ActionPreview:
		if act.UploadErr != nil {
			return fail(v, http.StatusBadRequest, act.UploadErr.Error())
		}
		v.Pending = pendingView(act.Upload)
		if act.Upload == nil || len(act.Upload.Rows) == 0 {
			return fail(v, http.StatusBadRequest, MsgNoValidQuestions)
		}
		v.Notice = fmt.Sprintf("File uploaded: %d question(s) ready, %d skipped",
			len(act.Upload.Rows), len(act.Upload.Skipped))
		return Outcome{View: v, Commands: []Command{StashPending{Pending: *act.Upload}}}

	case ActionSave:
		if snap.Pending == nil || len(snap.Pending.Rows) == 0 {
			return fail(v, http.StatusConflict, MsgNothingToSave)
		}
		meta := map[string]string{}
		if snap.Pending.Filename != "" {
			meta[models.MetaSource] = snap.Pending.Filename
		}
		if batch := strings.TrimSpace(act.Batch); batch != "" {
			meta[models.MetaBatch] = batch
		}
		v.Status = http.StatusCreated
		v.Notice = fmt.Sprintf("Saved %d question(s)", len(snap.Pending.Rows))
		return Outcome{View: v, Commands: []Command{
			SaveImport{Rows: snap.Pending.Rows, Meta: meta},
			ClearPending{},
		}}

	case ActionDiscard:
		v.Notice = "Upload discarded"
		return Outcome{View: v, Commands: []Command{ClearPending{}}}
	}

	return fail(v, http.StatusBadRequest, MsgUnsupportedAction)
}

func renderManage(snap Snapshot, act Action, env Env) Outcome {
	v := base(Manage)
	if act.Kind != ActionView {
		return fail(v, http.StatusBadRequest, MsgUnsupportedAction)
	}

	v.Questions = questionItems(snap, env)
	if len(v.Questions) == 0 {
		v.Notice = MsgNoQuestions
	}
	return Outcome{View: v}
}

func renderVote(snap Snapshot, act Action, env Env) Outcome {
	v := base(Vote)

	if strings.TrimSpace(act.RawQuestionID) == "" {
		if act.Kind != ActionView {
			return fail(v, http.StatusBadRequest, MsgInvalidQuestionID)
		}
		return selectQuestion(v, snap, env)
	}
	v.Questions = questionItems(snap, env)
	return ballot(v, snap, act, env)
}

// ballot shows one question's options and accepts a vote on it
func ballot(v View, snap Snapshot, act Action, env Env) Outcome {
	v, ok := lookup(v, snap, act.RawQuestionID)
	if !ok {
		return Outcome{View: v}
	}
	v.Question = questionView(snap.Question, env)

	switch act.Kind {
	case ActionView:
		return Outcome{View: v}

	case ActionVote:
		if !hasOption(snap.Question, act.OptionID) {
			return fail(v, http.StatusBadRequest, MsgInvalidOption)
		}
		v.Status = http.StatusCreated
		v.Notice = MsgVoteRecorded
		return Outcome{View: v, Commands: []Command{
			CastVote{QuestionID: snap.Question.ID, OptionID: act.OptionID},
		}}
	}

	return fail(v, http.StatusBadRequest, MsgUnsupportedAction)
}

func renderResults(snap Snapshot, act Action, env Env) Outcome {
	v := base(Results)
	if act.Kind != ActionView {
		return fail(v, http.StatusBadRequest, MsgUnsupportedAction)
	}

	if strings.TrimSpace(act.RawQuestionID) == "" {
		return selectQuestion(v, snap, env)
	}

	v, ok := lookup(v, snap, act.RawQuestionID)
	if !ok {
		return Outcome{View: v}
	}
	v.Question = questionView(snap.Question, env)

	counts := make([]int, len(snap.Results))
	for i, r := range snap.Results {
		counts[i] = r.Count
		v.TotalVotes += r.Count
	}
	pcts := chart.Percentages(counts)

	v.Results = make([]ResultBar, len(snap.Results))
	for i, r := range snap.Results {
		v.Results[i] = ResultBar{
			OptionID:   r.OptionID,
			OptionText: r.OptionText,
			Count:      r.Count,
			Percent:    pcts[i],
			Label:      chart.FormatPercent(pcts[i]),
		}
	}

	if v.TotalVotes == 0 {
		v.Notice = MsgNoVotes
	}
	return Outcome{View: v}
}

func renderCleanup(snap Snapshot, act Action, env Env) Outcome {
	v := base(Cleanup)
	v.Questions = questionItems(snap, env)

	switch act.Kind {
	case ActionView:
		if len(v.Questions) == 0 {
			v.Notice = MsgNoQuestions
		}
		return Outcome{View: v}

	case ActionDelete:
		v, ok := lookup(v, snap, act.RawQuestionID)
		if !ok {
			return Outcome{View: v}
		}
		v.Notice = "Deleted question: " + snap.Question.QuestionText
		return Outcome{View: v, Commands: []Command{DeleteQuestion{QuestionID: snap.Question.ID}}}

	case ActionResetVotes:
		v, ok := lookup(v, snap, act.RawQuestionID)
		if !ok {
			return Outcome{View: v}
		}
		v.Notice = "Votes cleared for: " + snap.Question.QuestionText
		return Outcome{View: v, Commands: []Command{ResetVotes{QuestionID: snap.Question.ID}}}

	case ActionResetAllVotes:
		v.Notice = "All voting results have been deleted!"
		return Outcome{View: v, Commands: []Command{ResetAllVotes{}}}

	case ActionWipe:
		v.Notice = "All questions, options and votes have been deleted!"
		return Outcome{View: v, Commands: []Command{WipeAll{}}}
	}

	return fail(v, http.StatusBadRequest, MsgUnsupportedAction)
}

func selectQuestion(v View, snap Snapshot, env Env) Outcome {
	v.Questions = questionItems(snap, env)
	if len(v.Questions) == 0 {
		v.Notice = MsgNoQuestions
	} else {
		v.Notice = MsgSelectQuestion
	}
	return Outcome{View: v}
}

// lookup validates the raw ID and checks it names the snapshot's question
func lookup(v View, snap Snapshot, raw string) (View, bool) {
	id, ok := ParseQuestionID(raw)
	if !ok {
		return fail(v, http.StatusBadRequest, MsgInvalidQuestionID).View, false
	}
	if snap.Question == nil || snap.Question.ID != id {
		return fail(v, http.StatusNotFound, MsgQuestionNotFound).View, false
	}
	return v, true
}

func hasOption(q *models.Question, optionID int64) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func questionItems(snap Snapshot, env Env) []QuestionItem {
	items := make([]QuestionItem, len(snap.Questions))
	for i, q := range snap.Questions {
		items[i] = QuestionItem{
			ID:          q.ID,
			Text:        q.QuestionText,
			CreatedAt:   q.CreatedAt,
			Age:         humanize.RelTime(q.CreatedAt, snap.Now, "ago", "from now"),
			OptionCount: q.OptionCount,
			VoteCount:   q.VoteCount,
			VoteURL:     qr.VoteURL(env.BaseURL, q.ID),
		}
	}
	return items
}

func questionView(q *models.Question, env Env) *QuestionView {
	id := strconv.FormatInt(q.ID, 10)
	return &QuestionView{
		ID:        q.ID,
		Text:      q.QuestionText,
		CreatedAt: q.CreatedAt,
		Meta:      q.Meta,
		Options:   q.Options,
		VoteURL:   qr.VoteURL(env.BaseURL, q.ID),
		QRURL:     "/questions/" + id + "/qr.png",
		ChartURL:  "/questions/" + id + "/chart.png",
	}
}

func pendingView(p *session.Pending) *PendingView {
	if p == nil {
		return nil
	}
	return &PendingView{
		Filename:   p.Filename,
		UploadedAt: p.UploadedAt,
		Rows:       p.Rows,
		Skipped:    p.Skipped,
	}
}
