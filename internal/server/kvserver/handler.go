// Package kvserver provides the RifsRedis TCP key/value server.
package kvserver

import (
	"github.com/yndnr/rifsredis/internal/protocol"
	"github.com/yndnr/rifsredis/internal/storage/memory"
)

// Handler applies requests to the store.
type Handler struct {
	store *memory.Store
}

// NewHandler creates a handler backed by store.
func NewHandler(store *memory.Store) *Handler {
	return &Handler{store: store}
}

// Handle dispatches req by action and returns its response.
// The response always carries req's correlation id.
func (h *Handler) Handle(req *protocol.Request) *protocol.Response {
	switch req.Action {
	case protocol.ActionSet:
		return h.handleSet(req)
	case protocol.ActionGet:
		return h.handleGet(req)
	default:
		return failureResponse(protocol.ActionGet, req.CorrelationID)
	}
}

func (h *Handler) handleSet(req *protocol.Request) *protocol.Response {
	h.store.Set(req.Key, req.Value)
	return &protocol.Response{
		Action:        protocol.ActionSet,
		Response:      protocol.StringPtr(protocol.SetEcho(req.Key, req.Value)),
		Success:       true,
		CorrelationID: req.CorrelationID,
	}
}

func (h *Handler) handleGet(req *protocol.Request) *protocol.Response {
	value, ok := h.store.Get(req.Key)
	if !ok {
		return failureResponse(protocol.ActionGet, req.CorrelationID)
	}
	return &protocol.Response{
		Action:        protocol.ActionGet,
		Response:      protocol.StringPtr(value),
		Success:       true,
		CorrelationID: req.CorrelationID,
	}
}

func failureResponse(action protocol.Action, correlationID string) *protocol.Response {
	return &protocol.Response{
		Action:        action,
		Response:      nil,
		Success:       false,
		CorrelationID: correlationID,
	}
}

// actionLabel bounds metric label cardinality for arbitrary client input.
func actionLabel(a protocol.Action) string {
	if a.Validate() != nil {
		return "UNKNOWN"
	}
	return string(a)
}
