package protocol

import "testing"

func TestNewCorrelationID(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := NewCorrelationID()
		if err != nil {
			t.Fatalf("NewCorrelationID() error = %v", err)
		}
		if !IsCorrelationID(id) {
			t.Fatalf("IsCorrelationID(%q) = false", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate correlation id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsCorrelationID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"not-an-id", false},
		{"01hzzzzzzzzzzzzzzzzzzzzzzz", true},
		{"01HZZZZZZZZZZZZZZZZZZZZZZZ", true},
		{"01hzzzzzzzzzzzzzzzzzzzzzz!", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsCorrelationID(tt.input); got != tt.want {
				t.Errorf("IsCorrelationID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
