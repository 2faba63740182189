// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and ID generation.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrPasswordMismatch on failure

bcrypt only reads the first 72 bytes, so registration rejects longer
passwords instead of silently truncating them.

# Session Tokens

Tokens are HS256 JWTs. The subject is the user ID and the username rides
along as a custom claim:

	token, err := auth.IssueToken(userID, username, secret, 24*time.Hour)
	claims, err := auth.ParseToken(token, secret)

ParseToken accepts only HS256 and requires a subject and an unexpired
exp claim. Every failure wraps ErrInvalidToken.

# Validation

ValidateRegistration checks username (2-50 characters), email (contains @),
and password (6-72 bytes). ValidateUsername and ValidateEmail are reused by
profile updates.
*/
package auth
