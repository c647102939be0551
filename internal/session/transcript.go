package session

import (
	"fmt"
	"sync"

	"scholarflow/internal/domain"
)

// Transcript is the ordered, append-only log of turns for one session and
// the single source of truth for what is rendered. The one allowed mutation
// after append is streaming text accumulation on the active assistant
// placeholder, performed through FoldFragment.
//
// Thread-safety: all methods are safe for concurrent use. Reads return
// copies so renderers never observe a partially-applied mutation.
type Transcript struct {
	mu       sync.RWMutex
	turns    []Turn
	index    map[string]int // turn id -> position in turns
	activeID string         // id of the unfinalized placeholder, "" when none
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		index: make(map[string]int),
	}
}

// Append inserts a turn at the end of the transcript.
// Appending a second active placeholder while one exists returns
// domain.ErrInvalidState; at most one turn is active at any time.
func (tr *Transcript) Append(turn Turn) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.index[turn.ID]; exists {
		return fmt.Errorf("%w: turn %s already in transcript", domain.ErrInvalidState, turn.ID)
	}

	if turn.Status == TurnStatusStreaming {
		if tr.activeID != "" {
			return fmt.Errorf("%w: placeholder %s still active", domain.ErrInvalidState, tr.activeID)
		}
		tr.activeID = turn.ID
	}

	tr.index[turn.ID] = len(tr.turns)
	tr.turns = append(tr.turns, turn)
	return nil
}

// FoldFragment appends fragment to the named turn's text.
// Returns domain.ErrUnknownTurn if the id does not exist. Fragments arriving
// after the turn was finalized are dropped silently: late deliveries after
// cancellation must not corrupt a terminal turn.
func (tr *Transcript) FoldFragment(turnID, fragment string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	pos, ok := tr.index[turnID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTurn, turnID)
	}

	if tr.turns[pos].Terminal() {
		return nil
	}

	tr.turns[pos].Text += fragment
	return nil
}

// Finalize marks the turn complete. If finalText is non-nil it replaces the
// accumulated text; otherwise the folded text is kept as-is. An empty final
// text is a valid outcome.
func (tr *Transcript) Finalize(turnID string, finalText *string) error {
	return tr.seal(turnID, finalText, TurnStatusComplete)
}

// Fail marks the turn terminal with status "error" and replaces whatever
// text accumulated with message. Partially-streamed text is discarded so a
// truncated, possibly misleading answer is never shown.
func (tr *Transcript) Fail(turnID, message string) error {
	return tr.seal(turnID, &message, TurnStatusError)
}

func (tr *Transcript) seal(turnID string, finalText *string, status string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	pos, ok := tr.index[turnID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTurn, turnID)
	}

	if tr.turns[pos].Terminal() {
		return nil
	}

	if finalText != nil {
		tr.turns[pos].Text = *finalText
	}
	tr.turns[pos].Status = status

	if tr.activeID == turnID {
		tr.activeID = ""
	}
	return nil
}

// Snapshot returns a copy of all turns in insertion order.
func (tr *Transcript) Snapshot() []Turn {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	out := make([]Turn, len(tr.turns))
	copy(out, tr.turns)
	return out
}

// ActiveID returns the id of the active placeholder, or "" when none.
func (tr *Transcript) ActiveID() string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.activeID
}

// Len returns the number of turns in the transcript.
func (tr *Transcript) Len() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.turns)
}
