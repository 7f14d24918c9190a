// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the storage handle and manages the schema.

# Opening

Open picks the driver from Config.DatabaseType:

	conn, err := db.Open(ctx, cfg)

  - sqlite: modernc.org/sqlite (pure Go), foreign keys on, one open connection
  - postgres: github.com/lib/pq

Both come back as *sqlx.DB. Queries are written with ? placeholders and
rebound by sqlx for postgres.

# Schema Creation

EnsureSchema initializes all required tables:

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call on every start - uses IF NOT EXISTS for all tables and indexes.
If a votes table without an id column exists (the old votes(question, option)
layout), it is dropped before the current schema is created. Those votes are
lost.

# Tables

  - questions: prompt text, creation time, JSON meta
  - options: answers per question
  - votes: one row per recorded selection

# Relationships

	questions 1──* options
	questions 1──* votes
	options   1──* votes

All foreign keys use ON DELETE CASCADE. votes(option_id, question_id) also
references options(id, question_id), so a vote can only point at an option
of its own question.
*/
package db
