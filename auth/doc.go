// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity helpers for the lightweight email login.

There are no passwords or sessions. A client calls POST /auth/identify
with an email address, receives the user's ID, and sends it back on every
later request in the X-User-Id header.

# Emails

NormalizeEmail accepts a bare address only and lower-cases it so that
"Ann@Example.com" and "ann@example.com" identify the same user:

	email, err := auth.NormalizeEmail(req.Email)
	if errors.Is(err, auth.ErrInvalidEmail) {
		// 400
	}

# User IDs

IDs are UUIDs. UserIDFromRequest reads and validates the header:

	userID, err := auth.UserIDFromRequest(r)

It returns ErrMissingUserID when the header is absent and ErrInvalidID
when it is not a UUID. Whether the user exists is up to the caller.

ParseID applies the same validation to path parameters, and GenerateID
creates new IDs for database records.
*/
package auth
