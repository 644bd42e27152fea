// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pollbooth API.

# Route Registration

NewRouter builds the shared services (cache, store, geolocation,
translations, voting) and returns a configured http.ServeMux:

	mux, err := router.NewRouter(db, cfg)

Every route is wrapped in middleware.WithLogging and middleware.WithAuth.
Admin routes additionally require a JWT with the admin claim.

# Endpoints

Health:

	GET /health

Polls:

	GET    /polls              - List polls (admin)
	POST   /polls              - Create or upsert a poll (admin)
	GET    /polls/{client_id}  - Poll with options
	PUT    /polls/{client_id}  - Update poll (admin)
	DELETE /polls/{client_id}  - Delete poll, keep votes (admin)

Voting:

	POST /vote/{client_id} - Cast a ballot

Results:

	GET    /polls/{client_id}/results   - Tallies and percentages
	GET    /polls/{client_id}/votes     - Vote rows (admin)
	DELETE /polls/{client_id}/votes     - Reset results (admin)
	GET    /polls/{client_id}/ips       - Votes per IP (admin)
	GET    /polls/{client_id}/locations - Voter countries (admin)
*/
package router
