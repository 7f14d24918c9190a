// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

  - ScreenHandler: every screen and every mutation (uploads, votes, cleanup)
  - ImageHandler: QR code and bar chart PNGs

	screenHandler := handlers.NewScreenHandler(st, sessions, cfg)
	imageHandler := handlers.NewImageHandler(st, cfg)

# Request Flow

A ScreenHandler method only translates the request into a screens.Action.
The shared serve path then:

 1. on the upload screen, resolves the session from the signed cookie
    (creating one if needed) and refreshes the cookie
 2. loads a snapshot from the store and the session
 3. calls screens.Render
 4. runs the returned commands against the store and session
 5. reloads the snapshot and renders again for the response

Store errors map to status codes at this edge: ErrQuestionNotFound is 404,
ErrOptionMismatch and ErrInvalidQuestion are 400, anything else is a 500
"Database error" and is logged.

# Sessions

The session cookie carries "<uuid>.<hmac>" signed with SESSION_SALT.
Sessions only hold the pending upload between preview and save, so other
screens neither read nor set the cookie.
*/
package handlers
