package kvserver

import (
	"testing"

	"github.com/yndnr/rifsredis/internal/protocol"
	"github.com/yndnr/rifsredis/internal/storage/memory"
)

func TestHandler_Handle(t *testing.T) {
	store := memory.New()
	store.Set("present", "value")
	h := NewHandler(store)

	tests := []struct {
		name        string
		req         protocol.Request
		wantAction  protocol.Action
		wantSuccess bool
		wantNull    bool
		wantValue   string
	}{
		{
			name:        "set",
			req:         protocol.Request{Action: protocol.ActionSet, Key: "user", Value: "alice", CorrelationID: "1"},
			wantAction:  protocol.ActionSet,
			wantSuccess: true,
			wantValue:   `{"user":"alice"}`,
		},
		{
			name:        "get present",
			req:         protocol.Request{Action: protocol.ActionGet, Key: "present", CorrelationID: "2"},
			wantAction:  protocol.ActionGet,
			wantSuccess: true,
			wantValue:   "value",
		},
		{
			name:       "get missing",
			req:        protocol.Request{Action: protocol.ActionGet, Key: "missing", CorrelationID: "3"},
			wantAction: protocol.ActionGet,
			wantNull:   true,
		},
		{
			name:       "unknown action",
			req:        protocol.Request{Action: "FLUSH", Key: "present", CorrelationID: "4"},
			wantAction: protocol.ActionGet,
			wantNull:   true,
		},
		{
			name:       "lowercase action is unknown",
			req:        protocol.Request{Action: "get", Key: "present", CorrelationID: "5"},
			wantAction: protocol.ActionGet,
			wantNull:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Handle(&tt.req)

			if resp.CorrelationID != tt.req.CorrelationID {
				t.Errorf("CorrelationID = %q, want %q", resp.CorrelationID, tt.req.CorrelationID)
			}
			if resp.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", resp.Action, tt.wantAction)
			}
			if resp.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if tt.wantNull {
				if resp.Response != nil {
					t.Errorf("Response = %q, want null", *resp.Response)
				}
				return
			}
			if resp.Value() != tt.wantValue {
				t.Errorf("Response = %q, want %q", resp.Value(), tt.wantValue)
			}
		})
	}
}

func TestHandler_SetOverwrites(t *testing.T) {
	store := memory.New()
	h := NewHandler(store)

	h.Handle(&protocol.Request{Action: protocol.ActionSet, Key: "k", Value: "v1"})
	h.Handle(&protocol.Request{Action: protocol.ActionSet, Key: "k", Value: "v2"})

	resp := h.Handle(&protocol.Request{Action: protocol.ActionGet, Key: "k"})
	if resp.Value() != "v2" {
		t.Errorf("GET after overwrite = %q, want v2", resp.Value())
	}
}

func TestActionLabel(t *testing.T) {
	tests := map[protocol.Action]string{
		protocol.ActionSet: "SET",
		protocol.ActionGet: "GET",
		"DROP TABLE":       "UNKNOWN",
	}
	for in, want := range tests {
		if got := actionLabel(in); got != want {
			t.Errorf("actionLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
