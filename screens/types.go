// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package screens

import (
	"time"

	"github.com/danielhkuo/livepoll/importer"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/session"
)

type Screen string

const (
	Upload  Screen = "upload"
	Manage  Screen = "manage"
	Vote    Screen = "vote"
	Results Screen = "results"
	Cleanup Screen = "cleanup"

	// Public is the participant view, entered when a q parameter is present
	Public Screen = "public"
)

// Menu lists the screens an administrator can pick
var Menu = []Screen{Upload, Manage, Vote, Results, Cleanup}

// Valid reports whether s is a known screen
func (s Screen) Valid() bool {
	switch s {
	case Upload, Manage, Vote, Results, Cleanup, Public:
		return true
	}
	return false
}

type ActionKind string

const (
	ActionView          ActionKind = ""
	ActionPreview       ActionKind = "preview"
	ActionSave          ActionKind = "save"
	ActionDiscard       ActionKind = "discard"
	ActionVote          ActionKind = "vote"
	ActionDelete        ActionKind = "delete"
	ActionResetVotes    ActionKind = "reset_votes"
	ActionResetAllVotes ActionKind = "reset_all_votes"
	ActionWipe          ActionKind = "wipe"
)

// Action is the latest user interaction
type Action struct {
	Kind ActionKind

	// RawQuestionID is the question identifier exactly as received
	RawQuestionID string
	OptionID      int64

	// Batch names an upload when it is saved
	Batch string

	// Upload is a freshly parsed file; UploadErr is why parsing failed
	Upload    *session.Pending
	UploadErr error
}

// Snapshot is the repository and session state a screen renders from
type Snapshot struct {
	Now       time.Time
	Questions []models.QuestionSummary
	Question  *models.Question
	Results   []models.OptionResult
	Pending   *session.Pending
}

// Env carries deployment settings needed to build links
type Env struct {
	BaseURL string
}

// View is the rendered screen, serialized to the client
type View struct {
	Screen Screen `json:"screen"`
	Title  string `json:"title"`
	Status int    `json:"-"`

	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`

	Menu      []Screen       `json:"menu,omitempty"`
	Questions []QuestionItem `json:"questions,omitempty"`
	Question  *QuestionView  `json:"question,omitempty"`

	Results    []ResultBar `json:"results,omitempty"`
	TotalVotes int         `json:"total_votes"`

	Pending *PendingView `json:"pending,omitempty"`
}

type QuestionItem struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	Age         string    `json:"age"`
	OptionCount int       `json:"option_count"`
	VoteCount   int       `json:"vote_count"`
	VoteURL     string    `json:"vote_url"`
}

type QuestionView struct {
	ID        int64             `json:"id"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
	Meta      map[string]string `json:"meta,omitempty"`
	Options   []models.Option   `json:"options"`
	VoteURL   string            `json:"vote_url"`
	QRURL     string            `json:"qr_url"`
	ChartURL  string            `json:"chart_url"`
}

type ResultBar struct {
	OptionID   int64   `json:"option_id"`
	OptionText string  `json:"option_text"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
	Label      string  `json:"label"`
}

type PendingView struct {
	Filename   string              `json:"filename"`
	UploadedAt time.Time           `json:"uploaded_at"`
	Rows       []importer.Row      `json:"rows"`
	Skipped    []importer.RowError `json:"skipped"`
}

// Command is a state change a screen asks the caller to perform
type Command interface {
	command()
}

type (
	SaveImport struct {
		Rows []importer.Row
		Meta map[string]string
	}
	StashPending struct {
		Pending session.Pending
	}
	ClearPending   struct{}
	CastVote       struct{ QuestionID, OptionID int64 }
	DeleteQuestion struct{ QuestionID int64 }
	ResetVotes     struct{ QuestionID int64 }
	ResetAllVotes  struct{}
	WipeAll        struct{}
)

func (SaveImport) command()     {}
func (StashPending) command()   {}
func (ClearPending) command()   {}
func (CastVote) command()       {}
func (DeleteQuestion) command() {}
func (ResetVotes) command()     {}
func (ResetAllVotes) command()  {}
func (WipeAll) command()        {}

// Outcome is what Render produces: the next view and the commands to run
type Outcome struct {
	View     View
	Commands []Command
}
