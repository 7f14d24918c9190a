// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates all tables needed for the application.
// Safe to call on every start - uses IF NOT EXISTS. A votes table left over
// from the single-table layout (no id column) is dropped first.
func EnsureSchema(ctx context.Context, conn *sqlx.DB) error {
	d, err := dialectFor(conn.DriverName())
	if err != nil {
		return err
	}

	legacy, err := hasLegacyVotes(ctx, conn, d)
	if err != nil {
		return fmt.Errorf("failed to inspect votes table: %w", err)
	}
	if legacy {
		slog.Warn("dropping legacy votes table without id column; existing votes are discarded")
		if _, err := conn.ExecContext(ctx, `DROP TABLE votes`); err != nil {
			return fmt.Errorf("failed to drop legacy votes table: %w", err)
		}
	}

	for _, stmt := range d.schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// hasLegacyVotes reports whether a votes table exists that lacks an id column
func hasLegacyVotes(ctx context.Context, conn *sqlx.DB, d dialect) (bool, error) {
	var tables int
	if err := conn.GetContext(ctx, &tables, d.tableExists, "votes"); err != nil {
		return false, err
	}
	if tables == 0 {
		return false, nil
	}

	var idColumns int
	if err := conn.GetContext(ctx, &idColumns, d.columnExists, "votes", "id"); err != nil {
		return false, err
	}
	return idColumns == 0, nil
}

type dialect struct {
	tableExists  string
	columnExists string
	schema       []string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect, nil
	case "postgres":
		return postgresDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported driver %q", driver)
}

var sqliteDialect = dialect{
	tableExists:  `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
	columnExists: `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_text TEXT NOT NULL CHECK (question_text <> ''),
			created_at TIMESTAMP NOT NULL,
			meta TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at)`,

		`CREATE TABLE IF NOT EXISTS options (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			option_text TEXT NOT NULL CHECK (option_text <> ''),
			UNIQUE (id, question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_options_question_id ON options(question_id)`,

		// (option_id, question_id) must name an option of that question
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			option_id INTEGER NOT NULL REFERENCES options(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (option_id, question_id) REFERENCES options(id, question_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_question_id ON votes(question_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id)`,
	},
}

var postgresDialect = dialect{
	tableExists: `SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1`,
	columnExists: `SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			question_text TEXT NOT NULL CHECK (question_text <> ''),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			meta TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at)`,

		`CREATE TABLE IF NOT EXISTS options (
			id BIGSERIAL PRIMARY KEY,
			question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			option_text TEXT NOT NULL CHECK (option_text <> ''),
			UNIQUE (id, question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_options_question_id ON options(question_id)`,

		`CREATE TABLE IF NOT EXISTS votes (
			id BIGSERIAL PRIMARY KEY,
			question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			option_id BIGINT NOT NULL REFERENCES options(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (option_id, question_id) REFERENCES options(id, question_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_question_id ON votes(question_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id)`,
	},
}
