// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SaveUploadRequest: batch (optional name stored in question meta)
  - CastVoteRequest: option_id

# Response Types

  - ErrorResponse: error, message

Successful responses are screens.View values.

# Domain Types

Rows of the three tables, tagged for both JSON and sqlx:

  - Question: prompt, creation time, meta, and its Options
  - Option: one selectable answer of a question
  - Vote: one recorded selection
  - QuestionSummary: list row with option and vote counts
  - OptionResult: per-option vote count

# Meta Keys

	MetaBatch  = "batch"   // upload batch name
	MetaSource = "source"  // uploaded file name
*/
package models
