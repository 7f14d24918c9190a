// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth signs and verifies browser session tokens.

There are no user accounts. The only secret-bearing value is the session
cookie that ties a browser to its pending spreadsheet upload.

# Session Tokens

Session IDs are random UUIDs:

	id := auth.NewSessionID()

The cookie value appends an HMAC-SHA256 signature keyed by SESSION_SALT:

	token := auth.SignSession(id, salt)   // "<uuid>.<signature>"
	id, err := auth.VerifySession(token, salt)

The signature is URL-safe base64 without padding. Since it's deterministic,
verification needs no server-side storage. A malformed token returns
ErrInvalidToken; a token signed with another salt or carrying an altered ID
returns ErrInvalidSession.
*/
package auth
