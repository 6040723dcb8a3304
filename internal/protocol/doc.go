// Package protocol defines the RifsRedis wire protocol.
//
// Every message is a single JSON document terminated by a newline
// (newline-delimited JSON). encoding/json escapes control characters
// inside strings, so a frame never carries a raw '\n' in its body.
//
// Request:
//
//	{"action":"SET","key":"user","value":"alice","correlationId":"01j..."}
//
// Response:
//
//	{"action":"SET","response":"{\"user\":\"alice\"}","success":true,"correlationId":"01j..."}
//
// Each message carries its own action and correlation id, so a peer can
// pair a response with its request without relying on ordering.
package protocol
