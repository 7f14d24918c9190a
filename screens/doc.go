// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package screens computes what each screen shows.

Render is a pure function of the current Snapshot and the latest Action.
It never touches the database or the session; mutations come back as
Commands for the caller to run:

	out := screens.Render(screens.Vote, snap, screens.Action{
		Kind:          screens.ActionVote,
		RawQuestionID: "7",
		OptionID:      70,
	}, env)
	// out.Commands == []Command{CastVote{QuestionID: 7, OptionID: 70}}

After running the commands the caller reloads the snapshot and renders
again with a view action, so the response reflects the new state.

# Screens

	upload   preview, save or discard a spreadsheet
	manage   list questions with age and counts
	vote     pick a question, show its options and QR code, cast a vote
	results  per-option counts and percentages
	cleanup  delete a question, reset votes, wipe everything
	public   participant view for a single question (?q=<id>)

Invalid or unknown question IDs produce an error view and no commands.
*/
package screens
