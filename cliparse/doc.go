// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite DSN or PostgreSQL connection string (default: file:livepoll.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - BaseURL: Public vote page, encoded into QR codes as BaseURL?q=<id>
  - SessionSalt: Secret for session cookie signatures (required)
  - MaxUploadBytes: Spreadsheet upload limit (default: 10 MiB)
  - SessionTTL: Idle lifetime of an upload session (default: 2h)
  - LogFormat: text or json

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--base-url      Public vote page URL
	--session-salt  Session cookie salt
	--max-upload    Upload limit in bytes
	--session-ttl   Session idle lifetime
	--log-format    Log format

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	BASE_URL         → --base-url
	SESSION_SALT     → --session-salt
	MAX_UPLOAD_BYTES → --max-upload
	SESSION_TTL      → --session-ttl
	LOG_FORMAT       → --log-format

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing, so .env values behave like env.

# Validation

ParseFlags returns an error if:

  - SESSION_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - PORT, MAX_UPLOAD_BYTES or SESSION_TTL cannot be parsed
*/
package cliparse
