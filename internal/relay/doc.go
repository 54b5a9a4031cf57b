// Package relay is a store-and-forward queue service over HTTP, and the
// client transport that talks to it.
//
// Server keeps one in-memory queue per name, created on first use:
//
//	POST   /queues/:queue/messages              {"body": "..."} -> 201 {"id": "..."}
//	GET    /queues/:queue/messages/next         -> 200 Delivery | 204
//	DELETE /queues/:queue/messages/:id?receipt= -> 204 | 404 | 409
//	GET    /healthz
//	GET    /metrics
//
// A delivery handed out by /next stays invisible until acknowledged or until
// its visibility timeout expires. A DELETE with a receipt from an older lease
// gets 409.
//
// Client implements domain.Transport for one queue. Non-2xx statuses are
// returned as errors with the method, path and status text; 404 and 409 on
// acknowledgement map to queue.ErrNotFound and queue.ErrStaleReceipt.
package relay
