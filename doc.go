// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll runs live audience polls: an organizer uploads questions from a
spreadsheet, shows a QR code, and participants vote from their phones
while the results chart updates.

# Starting the Server

	SESSION_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --session-salt dev

Settings may also come from a .env file in the working directory.

# Configuration

Required settings:

  - SESSION_SALT (--session-salt): Secret for signing session cookies

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:livepoll.db)
  - BASE_URL (--base-url): Public vote page encoded in QR codes
    (default: http://localhost:<port>/vote)
  - MAX_UPLOAD_BYTES (--max-upload): Spreadsheet size limit (default: 10 MiB)
  - SESSION_TTL (--session-ttl): Idle session lifetime (default: 2h)
  - LOG_FORMAT (--log-format): text or json

# Architecture

  - handlers: HTTP adapters around the screens
  - screens: Pure view logic, returns views and commands
  - store: Questions, options and votes over sqlx
  - importer: xlsx and csv parsing
  - qr, chart: PNG rendering
  - session: Per-browser pending uploads
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, CORS, JSON helpers
  - db: Connection and schema
  - auth: Session IDs and cookie signing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
