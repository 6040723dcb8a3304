// Package logger provides structured logging for rifsredis.
package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose values are always redacted.
// "key" is deliberately absent: store keys are logged in clear.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// Attribute names carrying stored values, masked when RedactValues is set.
var valueAttrKeys = []string{
	"value",
	"response",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr, redactValues bool) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if a.Value.String() == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if redactValues && isValueKey(a.Key) {
			return slog.String(a.Key, MaskValue(a.Value.String()))
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr, redactValues)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// MaskValue hides a stored value, keeping the first and last 2 characters
// of values longer than 8 so operators can still tell entries apart.
func MaskValue(value string) string {
	if len(value) <= 8 {
		return redactedValue
	}
	return value[:2] + "..." + value[len(value)-2:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

func isValueKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range valueAttrKeys {
		if keyLower == k {
			return true
		}
	}
	return false
}
