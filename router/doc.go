// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Campus Pulse API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Open:

	GET /health
	GET /ws?token=   - Websocket upgrade (token in query)

Presence (bearer token required):

	GET    /checkins              - Active check-ins, ?cohort= to scope
	POST   /checkins              - Report (replaces own record)
	GET    /checkins/me           - Own live check-in or null
	PATCH  /checkins/{id}/status  - Change status tag in place
	DELETE /checkins/{id}         - Check out

Events:

	GET    /events
	POST   /events
	POST   /events/{id}/attend
	DELETE /events/{id}/attend
	POST   /events/{id}/poll/{optionId}/vote
	DELETE /events/{id}           - Creator only

Feedback:

	GET  /feedback
	POST /feedback
	POST /feedback/{id}/upvote    - Toggle
	POST /feedback/{id}/comments
*/
package router
