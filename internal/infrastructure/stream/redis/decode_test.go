package redis

import (
	"testing"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
)

func TestDecodeCallEvent(t *testing.T) {
	event, err := decodeCallEvent("1700000000000-0", map[string]interface{}{
		"event":           "call_started",
		"conversation_id": "conv-42",
	})
	if err != nil {
		t.Fatalf("decodeCallEvent() error = %v", err)
	}
	if event.Kind() != entity.CallStarted {
		t.Fatalf("kind = %q, want call_started", event.Kind())
	}
	if event.ConversationID() != "conv-42" {
		t.Fatalf("conversation_id = %q", event.ConversationID())
	}
	if !event.Timestamp().Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("timestamp = %v, want entry id prefix", event.Timestamp())
	}
}

func TestDecodeCallEventPrefersTimestampField(t *testing.T) {
	event, err := decodeCallEvent("1700000000000-0", map[string]interface{}{
		"event":           "call_ended",
		"conversation_id": "conv-1",
		"timestamp":       "1700000099000",
	})
	if err != nil {
		t.Fatalf("decodeCallEvent() error = %v", err)
	}
	if !event.Timestamp().Equal(time.UnixMilli(1700000099000)) {
		t.Fatalf("timestamp = %v, want explicit field value", event.Timestamp())
	}
}

func TestDecodeCallEventRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{name: "missing event", values: map[string]interface{}{"conversation_id": "c"}},
		{name: "unknown event", values: map[string]interface{}{"event": "call_paused", "conversation_id": "c"}},
		{name: "missing conversation_id", values: map[string]interface{}{"event": "call_started"}},
		{name: "non-string field", values: map[string]interface{}{"event": 42, "conversation_id": "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCallEvent("1700000000000-0", tt.values); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestDecodeErrorEvent(t *testing.T) {
	event, err := decodeErrorEvent("1700000000500-0", map[string]interface{}{
		"error_type": "API_TIMEOUT",
		"message":    "upstream timed out",
		"severity":   "HIGH",
	})
	if err != nil {
		t.Fatalf("decodeErrorEvent() error = %v", err)
	}
	if event.ErrorType() != "API_TIMEOUT" {
		t.Fatalf("error_type = %q", event.ErrorType())
	}
	if event.Severity() != valueobject.SeverityHigh {
		t.Fatalf("severity = %q, want high", event.Severity())
	}
	// conversation_id необязателен для ошибок
	if event.ConversationID() != "" {
		t.Fatalf("conversation_id = %q, want empty", event.ConversationID())
	}
}

func TestDecodeErrorEventRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{name: "missing error_type", values: map[string]interface{}{"message": "m", "severity": "low"}},
		{name: "missing message", values: map[string]interface{}{"error_type": "E", "severity": "low"}},
		{name: "missing severity", values: map[string]interface{}{"error_type": "E", "message": "m"}},
		{name: "invalid severity", values: map[string]interface{}{"error_type": "E", "message": "m", "severity": "fatal"}},
		{name: "bad timestamp", values: map[string]interface{}{"error_type": "E", "message": "m", "severity": "low", "timestamp": "not-a-number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeErrorEvent("1700000000000-0", tt.values); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestEntryTimestampFallsBackToEntryID(t *testing.T) {
	ts, err := entryTimestamp("1700000000123-7", map[string]interface{}{})
	if err != nil {
		t.Fatalf("entryTimestamp() error = %v", err)
	}
	if !ts.Equal(time.UnixMilli(1700000000123)) {
		t.Fatalf("timestamp = %v", ts)
	}

	if _, err := entryTimestamp("garbage", map[string]interface{}{}); err == nil {
		t.Fatal("expected error for unparsable entry id")
	}
}
