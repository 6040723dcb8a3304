// Package kvserver provides the RifsRedis TCP key/value server.
//
// The server accepts plain TCP connections and serves one goroutine per
// connection. Each newline-delimited JSON request is decoded, dispatched
// by action against the shared in-memory store, and answered with
// exactly one response carrying the request's correlation id.
//
// Supported actions:
//   - SET key value: stores the value, always succeeds
//   - GET key: returns the value, success iff the key exists
//
// Any other action is answered with {"action":"GET","response":null,
// "success":false} and the connection stays open. Frames that cannot be
// decoded are logged and dropped without a response.
package kvserver
