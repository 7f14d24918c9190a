package models

import "time"

// Meta keys stored on questions
const (
	MetaBatch  = "batch"
	MetaSource = "source"
)

// MinOptions is the fewest options a question can be imported or saved with
const MinOptions = 2

// Request types

type SaveUploadRequest struct {
	Batch string `json:"batch"`
}

type CastVoteRequest struct {
	OptionID int64 `json:"option_id"`
}

// Domain types

type Question struct {
	ID           int64             `json:"id" db:"id"`
	QuestionText string            `json:"question_text" db:"question_text"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	Meta         map[string]string `json:"meta,omitempty" db:"-"`
	Options      []Option          `json:"options" db:"-"`
}

type Option struct {
	ID         int64  `json:"id" db:"id"`
	QuestionID int64  `json:"question_id" db:"question_id"`
	OptionText string `json:"option_text" db:"option_text"`
}

type Vote struct {
	ID         int64     `json:"id" db:"id"`
	QuestionID int64     `json:"question_id" db:"question_id"`
	OptionID   int64     `json:"option_id" db:"option_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// QuestionSummary is one row of the question list, newest first
type QuestionSummary struct {
	ID           int64     `json:"id" db:"id"`
	QuestionText string    `json:"question_text" db:"question_text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	OptionCount  int       `json:"option_count" db:"option_count"`
	VoteCount    int       `json:"vote_count" db:"vote_count"`
}

// OptionResult is the vote tally for one option
type OptionResult struct {
	OptionID   int64  `json:"option_id" db:"option_id"`
	OptionText string `json:"option_text" db:"option_text"`
	Count      int    `json:"count" db:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
