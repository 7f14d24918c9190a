// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the repository for questions, options and votes.

	s := store.New(conn)
	id, err := s.InsertQuestionWithOptions(ctx, "Pick a color", []string{"Red", "Green", "Blue"}, nil)

# Operations

  - InsertQuestionWithOptions: question plus options in one transaction
  - InsertQuestionsWithOptions: a whole upload in one transaction
  - GetQuestion: question with options ordered by ID
  - ListQuestions: all questions, newest first, with option and vote counts
  - RecordVote: validates the option belongs to the question, then inserts
  - GetResults: per-option counts, zero-vote options included
  - DeleteQuestion: votes, options, question, in one transaction
  - ResetVotes, DeleteAllVotes, DeleteAll: cleanup

# Errors

	ErrQuestionNotFound  // no question with that ID
	ErrOptionMismatch    // option is not one of the question's options
	ErrInvalidQuestion   // empty text or fewer than models.MinOptions options

Storage failures are wrapped with fmt.Errorf and returned as-is; nothing is
retried.
*/
package store
