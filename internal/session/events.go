package session

import (
	"encoding/json"
	"fmt"
)

// SSE event type constants
const (
	SSEEventTurnStart    = "turn_start"    // placeholder created, streaming begins
	SSEEventDelta        = "delta"         // incremental assistant text
	SSEEventTurnComplete = "turn_complete" // exchange finished successfully
	SSEEventTurnError    = "turn_error"    // exchange failed, apology text final
)

// TurnStartEvent signals that streaming has begun for an assistant turn.
type TurnStartEvent struct {
	TurnID string `json:"turn_id"`
	Model  string `json:"model"`
}

// DeltaEvent carries one incremental text fragment.
type DeltaEvent struct {
	TurnID    string `json:"turn_id"`
	TextDelta string `json:"text_delta"`
}

// TurnCompleteEvent signals that the turn finished successfully.
type TurnCompleteEvent struct {
	TurnID string `json:"turn_id"`
	Text   string `json:"text"`
}

// TurnErrorEvent signals that the exchange failed. Text holds the apology
// message the transcript was finalized with, never the partial answer.
type TurnErrorEvent struct {
	TurnID string `json:"turn_id"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// FormatSSE formats an event for SSE transmission:
//
//	event: event_name
//	data: {"field": "value"}
func FormatSSE(event string, data interface{}) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal SSE event data: %w", err)
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload), nil
}
