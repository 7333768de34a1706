// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

Load resolves a Config from an already parsed flag set (the cobra commands
pass their own), and ParseFlags does the parsing itself:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are layered, highest first:

 1. Flags that were set explicitly
 2. Environment variables
 3. The env file (default .env.local, read with godotenv)
 4. The YAML config file (--config, or ./crossword.yaml if present)
 5. Defaults

Real environment variables always beat the env file, so a deployment can
override a developer's local file without editing it.

# Keys

	Flag                   Env                   Default
	--host                 HOST                  127.0.0.1
	-p, --port             PORT                  8000
	-d, --database-url     DATABASE_URL          sqlite://crossword.db
	-t, --database-type    DATABASE_TYPE         inferred from URL
	--cors-origins         CORS_ORIGINS          http://localhost:5173,http://localhost:3000
	--crosshare-url        CROSSHARE_URL         https://crosshare.org
	--min-clues            MIN_CLUES             20
	--max-clues            MAX_CLUES             25
	--crosshare-max-pages  CROSSHARE_MAX_PAGES   9
	--crosshare-timeout    CROSSHARE_TIMEOUT     30s
	--crosshare-cache-size CROSSHARE_CACHE_SIZE  256
	--log-level            LOG_LEVEL             info
	--log-format           LOG_FORMAT            text

Config file keys are the lower-case env names (database_url, min_clues).

# Database URLs

SQLAlchemy-style URLs such as postgresql+asyncpg://host/db are rewritten to
postgres://host/db so existing env files keep working. When DATABASE_TYPE
is empty, postgres:// URLs select PostgreSQL and anything else SQLite.

# Validation

Load returns an error for an out-of-range port, an unknown database type,
a clue range that admits no puzzle size, fewer than one Crosshare page, or
an unknown log level or format.
*/
package cliparse
