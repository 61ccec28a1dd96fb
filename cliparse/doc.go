// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3319)
  - DatabaseURL: PostgreSQL connection string (required)
  - DatabaseType: postgres or sqlite (default: postgres)
  - IdentityTokenSalt: Secret shared with the identity service (required)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--identity-salt Identity token salt

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	IDENTITY_TOKEN_SALT → --identity-salt

CLI flags take precedence over environment variables. A .env file, if
present, is loaded by main before parsing.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - IDENTITY_TOKEN_SALT must be provided
*/
package cliparse
