// Package protocol defines the RifsRedis wire protocol.
package protocol

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewCorrelationID returns a new globally unique correlation id.
// Format: lowercase ULID, 26 characters.
func NewCorrelationID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", fmt.Errorf("protocol: generate correlation id: %w", err)
	}
	return strings.ToLower(id.String()), nil
}

// IsCorrelationID reports whether s has the shape produced by NewCorrelationID.
func IsCorrelationID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(s))
	return err == nil
}
