package session

import (
	"time"
)

// Turn role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn status constants. A turn is "active" while status is "streaming";
// "complete" and "error" are terminal.
const (
	TurnStatusStreaming = "streaming"
	TurnStatusComplete  = "complete"
	TurnStatusError     = "error"
)

// Turn represents a single turn in a conversation (user or assistant).
// ID is assigned at creation and stable for the turn's lifetime. Text grows
// by append-only concatenation while the turn is the active placeholder and
// is immutable once the turn reaches a terminal status.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`   // "user" or "assistant"
	Text      string    `json:"text"`
	Status    string    `json:"status"` // "streaming", "complete", "error"
	CreatedAt time.Time `json:"created_at"`
}

// Terminal returns true if the turn can no longer be mutated.
func (t *Turn) Terminal() bool {
	return t.Status == TurnStatusComplete || t.Status == TurnStatusError
}
