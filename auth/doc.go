// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token handling and identity helpers.

# Tokens

Signed-in users present an HS256 JWT in the Authorization header:

	tok, err := auth.SignToken(secret, userID, isAdmin, 24*time.Hour)
	claims, err := auth.ParseToken(secret, tok)

Claims carry the numeric user id ("uid") and an admin flag ("adm"). The
token is the only source of the user id; anonymous visitors have none and
vote with user id 0.

# Request Context

middleware.WithAuth attaches parsed claims to the request context:

	ctx = auth.WithClaims(ctx, claims)
	userID := auth.UserIDFromContext(ctx) // 0 when anonymous

# IP Hashing

For duplicate-vote locks that must not store a raw address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
