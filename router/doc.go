// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll API.

	mux := router.NewRouter(st, sessions, cfg)

# Endpoints

Health:

	GET /health

Admin screens (JSON views):

	GET /screens/upload
	GET /screens/manage
	GET /screens/vote?q={id}
	GET /screens/results?q={id}
	GET /screens/cleanup

Upload workflow (session scoped):

	POST   /uploads      - multipart "file", preview only
	POST   /uploads/save - {"batch": "..."}
	DELETE /uploads      - discard the preview

Voting and cleanup:

	POST   /questions/{id}/votes - {"option_id": n}
	DELETE /questions/{id}/votes - reset one question
	DELETE /questions/{id}       - delete question, options and votes
	DELETE /votes                - reset every question
	DELETE /questions            - wipe everything

Participants:

	GET  /vote?q={id}
	POST /vote?q={id}

Images:

	GET /questions/{id}/qr.png?size=256
	GET /questions/{id}/chart.png
*/
package router
