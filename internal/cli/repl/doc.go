// Package repl provides the interactive shell of rifsredis-cli.
//
// The shell keeps one client connection open and accepts redis-style
// lines:
//
//	SET key value
//	GET key
//	HISTORY
//	HELP
//	EXIT
//
// Arguments may be double-quoted to include spaces. History is kept in
// ~/.rifsredis/history.
package repl
