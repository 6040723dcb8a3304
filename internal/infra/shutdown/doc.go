// Package shutdown coordinates graceful termination of rifsredis-server.
//
// A Handler waits for SIGINT, SIGTERM, a programmatic Trigger or context
// cancellation, then runs the registered hooks in reverse order of
// registration under a shared timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("kvserver", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
