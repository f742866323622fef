package redis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
)

// Stream entries arrive as loosely-typed field maps. Decoding turns them
// into the closed set of domain events; anything that does not match is
// rejected so dynamic shapes never propagate past this boundary.

func decodeCallEvent(id string, values map[string]interface{}) (*entity.CallLifecycleEvent, error) {
	eventType, ok := stringField(values, "event")
	if !ok {
		return nil, errors.New("missing event field")
	}

	var kind entity.CallEventKind
	switch eventType {
	case string(entity.CallStarted):
		kind = entity.CallStarted
	case string(entity.CallEnded):
		kind = entity.CallEnded
	default:
		return nil, fmt.Errorf("unknown conversation event %q", eventType)
	}

	conversationID, ok := stringField(values, "conversation_id")
	if !ok {
		return nil, errors.New("missing conversation_id field")
	}

	ts, err := entryTimestamp(id, values)
	if err != nil {
		return nil, err
	}

	return entity.NewCallLifecycleEvent(kind, conversationID, ts)
}

func decodeErrorEvent(id string, values map[string]interface{}) (*entity.ErrorEvent, error) {
	errorType, ok := stringField(values, "error_type")
	if !ok {
		return nil, errors.New("missing error_type field")
	}

	message, ok := stringField(values, "message")
	if !ok {
		return nil, errors.New("missing message field")
	}

	severityRaw, ok := stringField(values, "severity")
	if !ok {
		return nil, errors.New("missing severity field")
	}
	severity, err := valueobject.ParseSeverity(severityRaw)
	if err != nil {
		return nil, fmt.Errorf("severity %q: %w", severityRaw, err)
	}

	// conversation_id is optional for error entries
	conversationID, _ := stringField(values, "conversation_id")

	ts, err := entryTimestamp(id, values)
	if err != nil {
		return nil, err
	}

	return entity.NewErrorEvent(errorType, message, severity, conversationID, ts)
}

// entryTimestamp prefers an explicit millisecond "timestamp" field and falls
// back to the millisecond prefix of the entry ID.
func entryTimestamp(id string, values map[string]interface{}) (time.Time, error) {
	if raw, ok := stringField(values, "timestamp"); ok {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
		}
		return time.UnixMilli(ms), nil
	}

	msPart, _, _ := strings.Cut(id, "-")
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry id %q", id)
	}
	return time.UnixMilli(ms), nil
}

func stringField(values map[string]interface{}, key string) (string, bool) {
	raw, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
