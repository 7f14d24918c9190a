// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/livepoll/models"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionMismatch   = errors.New("option does not belong to question")
	ErrInvalidQuestion  = errors.New("invalid question")
)

// Store is the repository over questions, options and votes
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB returns the underlying handle
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// NewQuestion is a question to insert with its options
type NewQuestion struct {
	Text    string
	Options []string
}

// InsertQuestionWithOptions saves a question and its options in one
// transaction and returns the new question ID. Options keep input order.
func (s *Store) InsertQuestionWithOptions(ctx context.Context, text string, options []string, meta map[string]string) (int64, error) {
	ids, err := s.InsertQuestionsWithOptions(ctx, []NewQuestion{{Text: text, Options: options}}, meta)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// InsertQuestionsWithOptions saves a batch of questions in a single
// transaction: either every question is stored or none is. Every question
// gets the same meta. IDs are returned in input order.
func (s *Store) InsertQuestionsWithOptions(ctx context.Context, questions []NewQuestion, meta map[string]string) ([]int64, error) {
	cleaned := make([]NewQuestion, len(questions))
	for i, q := range questions {
		c, err := cleanQuestion(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		cleaned[i] = c
	}

	var metaJSON sql.NullString
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode meta: %w", err)
		}
		metaJSON = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuestion := tx.Rebind(`
		INSERT INTO questions (question_text, created_at, meta)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	insertOption := tx.Rebind(`INSERT INTO options (question_id, option_text) VALUES (?, ?)`)

	ids := make([]int64, 0, len(cleaned))
	for _, q := range cleaned {
		var questionID int64
		err := tx.QueryRowxContext(ctx, insertQuestion, q.Text, s.now(), metaJSON).Scan(&questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert question: %w", err)
		}

		for _, opt := range q.Options {
			if _, err := tx.ExecContext(ctx, insertOption, questionID, opt); err != nil {
				return nil, fmt.Errorf("failed to insert option: %w", err)
			}
		}
		ids = append(ids, questionID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ids, nil
}

// cleanQuestion trims text and options and drops blank options
func cleanQuestion(q NewQuestion) (NewQuestion, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return NewQuestion{}, fmt.Errorf("%w: question text is empty", ErrInvalidQuestion)
	}

	options := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < models.MinOptions {
		return NewQuestion{}, fmt.Errorf("%w: need at least %d options, got %d", ErrInvalidQuestion, models.MinOptions, len(options))
	}

	return NewQuestion{Text: text, Options: options}, nil
}

type questionRow struct {
	ID           int64          `db:"id"`
	QuestionText string         `db:"question_text"`
	CreatedAt    time.Time      `db:"created_at"`
	Meta         sql.NullString `db:"meta"`
}

// GetQuestion returns a question with its options ordered by ID
func (s *Store) GetQuestion(ctx context.Context, id int64) (models.Question, error) {
	var row questionRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT id, question_text, created_at, meta
		FROM questions
		WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrQuestionNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}

	q := models.Question{
		ID:           row.ID,
		QuestionText: row.QuestionText,
		CreatedAt:    row.CreatedAt,
		Options:      []models.Option{},
	}
	if row.Meta.Valid && row.Meta.String != "" {
		if err := json.Unmarshal([]byte(row.Meta.String), &q.Meta); err != nil {
			return models.Question{}, fmt.Errorf("failed to decode meta for question %d: %w", id, err)
		}
	}

	err = s.db.SelectContext(ctx, &q.Options, s.db.Rebind(`
		SELECT id, question_id, option_text
		FROM options
		WHERE question_id = ?
		ORDER BY id
	`), id)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query options: %w", err)
	}

	return q, nil
}

// ListQuestions returns every question, most recently created first
func (s *Store) ListQuestions(ctx context.Context) ([]models.QuestionSummary, error) {
	questions := []models.QuestionSummary{}
	err := s.db.SelectContext(ctx, &questions, `
		SELECT q.id, q.question_text, q.created_at,
		       (SELECT COUNT(*) FROM options o WHERE o.question_id = q.id) AS option_count,
		       (SELECT COUNT(*) FROM votes v WHERE v.question_id = q.id) AS vote_count
		FROM questions q
		ORDER BY q.created_at DESC, q.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// RecordVote stores one vote after checking, in the same transaction, that
// the option belongs to the question
func (s *Store) RecordVote(ctx context.Context, questionID, optionID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := questionExists(ctx, tx, questionID); err != nil {
		return 0, err
	}

	var owner int64
	err = tx.GetContext(ctx, &owner, tx.Rebind(`SELECT question_id FROM options WHERE id = ?`), optionID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != questionID) {
		return 0, fmt.Errorf("%w: option %d, question %d", ErrOptionMismatch, optionID, questionID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query option: %w", err)
	}

	var voteID int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO votes (question_id, option_id, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`), questionID, optionID, s.now()).Scan(&voteID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return voteID, nil
}

// GetResults returns one row per option of the question, ordered by option
// ID; options without votes report a count of 0
func (s *Store) GetResults(ctx context.Context, questionID int64) ([]models.OptionResult, error) {
	results := []models.OptionResult{}
	err := s.db.SelectContext(ctx, &results, s.db.Rebind(`
		SELECT o.id AS option_id, o.option_text, COUNT(v.id) AS count
		FROM options o
		LEFT JOIN votes v ON v.option_id = o.id AND v.question_id = o.question_id
		WHERE o.question_id = ?
		GROUP BY o.id, o.option_text
		ORDER BY o.id
	`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	if len(results) == 0 {
		// No options: either the question is gone or it was never valid
		if err := questionExists(ctx, s.db, questionID); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// DeleteQuestion removes the question's votes, then options, then the
// question itself, in one transaction
func (s *Store) DeleteQuestion(ctx context.Context, questionID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM votes WHERE question_id = ?`,
		`DELETE FROM options WHERE question_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), questionID); err != nil {
			return fmt.Errorf("failed to delete question children: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM questions WHERE id = ?`), questionID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrQuestionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetVotes deletes every vote of one question and returns how many went
func (s *Store) ResetVotes(ctx context.Context, questionID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := questionExists(ctx, tx, questionID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM votes WHERE question_id = ?`), questionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

// DeleteAllVotes clears every recorded vote, keeping questions and options
func (s *Store) DeleteAllVotes(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM votes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// DeleteAll wipes votes, options and questions and returns the number of
// questions removed
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM votes`, `DELETE FROM options`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to wipe data: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions`)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe questions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

func questionExists(ctx context.Context, q sqlx.ExtContext, questionID int64) error {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, q.Rebind(`SELECT EXISTS(SELECT 1 FROM questions WHERE id = ?)`), questionID)
	if err != nil {
		return fmt.Errorf("failed to query question: %w", err)
	}
	if !exists {
		return ErrQuestionNotFound
	}
	return nil
}
