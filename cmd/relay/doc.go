// Package main runs the HTTP relay queue used by devsecrets during
// development and tests.
//
// HTTP API
//
//	POST /queues/{queue}/messages
//	    Enqueue {"body": "..."}; the queue is created on first use.
//	    Returns 201 {"id": "..."}.
//
//	GET /queues/{queue}/messages/next
//	    Lease the oldest visible message: 200 with {id, body, inserted_at,
//	    receipt}, or 204 when nothing is visible.
//
//	DELETE /queues/{queue}/messages/{id}?receipt=R
//	    Acknowledge a leased message. 404 if it is gone, 409 if R belongs to
//	    an older lease.
//
//	GET /healthz, GET /metrics
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - A leased message becomes visible again after the visibility timeout
//     (default 30s), so delivery is at least once and unordered.
//   - The relay only ever sees wire strings; it never holds keys.
package main
