// Package client provides a Go client for the rifsredis key/value server.
//
// A Client holds one persistent TCP connection. Requests are written as
// newline-delimited JSON frames; a single reader goroutine demultiplexes
// responses to their callers by correlation id, so any number of
// goroutines may call Get concurrently on the same Client.
//
// Usage:
//
//	c := client.New(client.Config{Address: "127.0.0.1:6380"})
//	if err := c.Init(ctx); err != nil {
//		return err
//	}
//	defer c.Terminate()
//
//	c.Set("user", "alice")
//	v, err := c.Get(ctx, "user")
//	switch {
//	case errors.Is(err, client.ErrNotFound):
//	case errors.Is(err, client.ErrTimeout):
//	}
//
// Set is fire-and-forget; SetConfirmed waits for the server's answer.
// Losing the connection is terminal for a Client: create a new one to
// reconnect.
package client
