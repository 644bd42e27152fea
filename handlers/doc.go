// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollbooth API.

# Handler Types

Each handler is a struct over the repositories it needs:

  - PollHandler: poll list, create, read, update, delete
  - VotingHandler: ballot submission through voting.Service
  - ResultsHandler: results, vote and IP listings, locations, reset

Handlers are created once at startup and shared by all requests:

	pollHandler := handlers.NewPollHandler(st.Polls)

Handlers do no permission checks of their own; the router wraps admin
routes with middleware.RequireAdmin.

# Polls

	GET    /polls              → ListPolls (count=true for a count)
	POST   /polls              → CreatePoll (client_id generated when absent)
	GET    /polls/{client_id}  → GetPoll
	PUT    /polls/{client_id}  → UpdatePoll
	DELETE /polls/{client_id}  → DeletePoll (votes are kept)

# Voting

	POST /vote/{client_id} → Vote, body {"options": ["a", "b"]}

Rejections carry a message localized from Accept-Language.

# Results

	GET    /polls/{client_id}/results   → GetResults
	GET    /polls/{client_id}/votes     → ListVotes
	GET    /polls/{client_id}/ips       → ListIPs
	GET    /polls/{client_id}/locations → ListLocations
	DELETE /polls/{client_id}/votes     → ResetVotes

# Errors

Domain errors map to status codes in one place:

	not found                                  404
	invalid id, validation, closed, duplicate  400
	insert, update, deletion                   422
	anything else                              500
*/
package handlers
