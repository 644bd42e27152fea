// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware wraps pollbooth handlers with logging, bearer-token auth
and CORS, and holds the JSON and client-IP helpers they share.

# Chains

The router composes two chains. Public routes (poll view, voting, results)
get logging and optional auth so a signed-in voter is identified by user id:

	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithAuth(cfg.JWTSecret, h))
	}

Admin routes add RequireAdmin, which answers 401 without claims and 403 for
a token whose admin claim is false:

	mux.HandleFunc("DELETE /polls/{client_id}/votes", public(middleware.RequireAdmin(results.ResetVotes)))

A malformed or expired token is logged and ignored; the request continues
anonymously.

WithLogging emits "request started" with method, path and client_ip, then
"request completed" with the written status and duration_ms.

# CORS

CORS wraps the whole mux. It allows any origin ("*") without credentials,
answers OPTIONS preflights itself, and allows Authorization and
Accept-Language so browsers can send tokens and pick a message language.

# JSON

	middleware.JSONResponse(w, http.StatusOK, receipt)
	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")

ErrorResponse fills models.ErrorResponse with the status text and message.
ParseJSONBody decodes and closes the request body.

# Client IP

GetClientIP returns the Client-Ip header, else the first X-Forwarded-For
entry, else the RemoteAddr host. The value is untrusted; voter.Resolve
sanitizes it and discards non-public addresses.
*/
package middleware
