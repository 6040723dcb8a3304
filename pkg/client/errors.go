// Package client provides a Go client for the rifsredis key/value server.
package client

import (
	"errors"
	"fmt"

	"github.com/yndnr/rifsredis/internal/protocol"
)

var (
	// ErrNotFound indicates the server answered and the key does not exist.
	ErrNotFound = errors.New("client: key not found")

	// ErrRateLimited indicates the server refused the request because the
	// connection exceeded its request rate. The key may well exist.
	ErrRateLimited = errors.New("client: rate limited by server")

	// ErrRejected indicates the server failed the request for another reason.
	ErrRejected = errors.New("client: request rejected by server")

	// ErrTimeout indicates no matching response arrived within the retry budget.
	ErrTimeout = errors.New("client: response timed out")

	// ErrClosed indicates the connection was terminated or lost.
	ErrClosed = errors.New("client: connection closed")

	// ErrNotConnected indicates Init has not been called.
	ErrNotConnected = errors.New("client: not connected")

	// ErrAlreadyConnected indicates Init was called twice.
	ErrAlreadyConnected = errors.New("client: already connected")
)

// serverError maps a failure response that carries an error code.
func serverError(resp *protocol.Response) error {
	switch resp.Error {
	case "":
		return nil
	case protocol.ErrCodeRateLimited:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
}
