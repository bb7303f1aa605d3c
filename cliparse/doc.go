// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3001)
  - DatabaseURL: Connection string or sqlite file path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JWTSecret: Token signing secret (required)

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	-jwt-secret JWT signing secret (prefer env)

# Environment Variables

Flags fall back to environment variables: PORT, DATABASE_URL,
DATABASE_TYPE, JWT_SECRET. A .env file loaded by the binary before
parsing feeds the same variables in development.
*/
package cliparse
