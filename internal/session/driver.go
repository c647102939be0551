package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"scholarflow/internal/domain"
	"scholarflow/internal/provider"
)

// Driver state constants. Finalized and Failed are transient: the driver
// returns to Idle as soon as the terminal turn is recorded, so callers
// observe the outcome through the transcript, not the state.
const (
	StateIdle       = "idle"
	StateSubmitting = "submitting"
	StateStreaming  = "streaming"
)

// ApologyText is the fixed user-facing message a failed exchange finalizes
// the assistant turn with. Partially-streamed text is never shown.
const ApologyText = "Sorry, I encountered an error. Please try again."

// Driver orchestrates one request/response cycle per submission: it appends
// the user turn, appends an assistant placeholder, invokes the backend
// stream, folds incoming fragments into the placeholder, and finalizes or
// fails the turn. Single-flight: Submit rejects while an exchange is in
// flight rather than trusting the caller to gate on the UI.
type Driver struct {
	transcript      *Transcript
	mode            *ModeController
	backend         provider.Provider
	model           string
	baseInstruction string
	logger          *slog.Logger

	mu     sync.Mutex
	state  string
	cancel context.CancelFunc

	// SSE client fan-out
	clients   map[string]chan string
	clientsMu sync.RWMutex
}

// NewDriver creates a driver bound to one session's transcript and mode.
func NewDriver(
	transcript *Transcript,
	mode *ModeController,
	backend provider.Provider,
	model string,
	baseInstruction string,
	logger *slog.Logger,
) *Driver {
	return &Driver{
		transcript:      transcript,
		mode:            mode,
		backend:         backend,
		model:           model,
		baseInstruction: baseInstruction,
		logger:          logger,
		state:           StateIdle,
		clients:         make(map[string]chan string),
	}
}

// State returns the current driver state.
func (d *Driver) State() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Submit accepts a user message and starts one exchange.
//
// Synchronously: projects the history from the transcript as it stands,
// freezes the mode decoration, appends the user turn and the assistant
// placeholder, then streams in the background. Returns the ids of both
// turns. Empty (after trimming) text is rejected without mutating the
// transcript; a call while not Idle is rejected with ErrInvalidState.
//
// Backend failures never propagate to the caller: they finalize the
// placeholder with ApologyText and the driver returns to Idle.
func (d *Driver) Submit(text string) (userTurnID, assistantTurnID string, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: message text is required", domain.ErrValidation)
	}

	d.mu.Lock()
	if d.state != StateIdle {
		d.mu.Unlock()
		return "", "", fmt.Errorf("%w: exchange already in flight", domain.ErrInvalidState)
	}
	d.state = StateSubmitting
	d.mu.Unlock()

	// History is projected from the transcript BEFORE this submission's
	// turns are appended: the backend receives the prior exchange only,
	// never the message it is about to answer.
	history := ProjectHistory(d.transcript.Snapshot())

	// Mode decoration is evaluated once here and frozen for the exchange;
	// toggling research mode mid-stream must not alter this request.
	dec := d.mode.Decorate(d.baseInstruction, trimmed)

	userTurn := Turn{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Text:      trimmed,
		Status:    TurnStatusComplete,
		CreatedAt: time.Now(),
	}
	if appendErr := d.transcript.Append(userTurn); appendErr != nil {
		d.setIdle()
		return "", "", appendErr
	}

	placeholder := Turn{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Text:      "",
		Status:    TurnStatusStreaming,
		CreatedAt: time.Now(),
	}
	if appendErr := d.transcript.Append(placeholder); appendErr != nil {
		d.setIdle()
		return "", "", appendErr
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()

	req := &provider.Request{
		Model:             d.model,
		SystemInstruction: dec.Instruction,
		Tools:             provider.Tools{WebSearch: dec.ToolsEnabled},
		History:           history,
		Message:           dec.AugmentedPrompt,
		SearchQuery:       trimmed,
	}

	go d.stream(ctx, placeholder.ID, req)

	d.logger.Info("exchange started",
		"user_turn_id", userTurn.ID,
		"assistant_turn_id", placeholder.ID,
		"model", d.model,
		"research", dec.ToolsEnabled,
		"history_turns", len(history),
	)

	return userTurn.ID, placeholder.ID, nil
}

// Close cancels any in-flight exchange and detaches all stream clients.
// Late fragments from a cancelled stream are dropped by the transcript.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.clientsMu.Lock()
	for id, ch := range d.clients {
		close(ch)
		delete(d.clients, id)
	}
	d.clientsMu.Unlock()
}

// AddClient registers a stream client and returns its event channel.
// The channel stays open across exchanges until RemoveClient or Close.
func (d *Driver) AddClient(clientID string) <-chan string {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()

	// Buffered to prevent a slow reader from stalling the fold loop
	ch := make(chan string, 32)
	d.clients[clientID] = ch
	return ch
}

// RemoveClient unregisters a stream client.
func (d *Driver) RemoveClient(clientID string) {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()

	if ch, ok := d.clients[clientID]; ok {
		close(ch)
		delete(d.clients, clientID)
	}
}

// stream consumes the backend stream and folds fragments into the
// placeholder. Runs in its own goroutine, one per exchange.
func (d *Driver) stream(ctx context.Context, placeholderID string, req *provider.Request) {
	events, err := d.backend.OpenStream(ctx, req)
	if err != nil {
		d.fail(placeholderID, err)
		return
	}

	if ev, evErr := FormatSSE(SSEEventTurnStart, TurnStartEvent{TurnID: placeholderID, Model: req.Model}); evErr == nil {
		d.broadcast(ev)
	}

	first := true
	for event := range events {
		if event.Err != nil {
			d.fail(placeholderID, event.Err)
			return
		}
		if event.TextFragment == "" {
			continue
		}

		if first {
			first = false
			d.mu.Lock()
			d.state = StateStreaming
			d.mu.Unlock()
		}

		if foldErr := d.transcript.FoldFragment(placeholderID, event.TextFragment); foldErr != nil {
			d.fail(placeholderID, foldErr)
			return
		}

		if ev, evErr := FormatSSE(SSEEventDelta, DeltaEvent{TurnID: placeholderID, TextDelta: event.TextFragment}); evErr == nil {
			d.broadcast(ev)
		}
	}

	// Natural completion: keep whatever accumulated, empty included.
	if finErr := d.transcript.Finalize(placeholderID, nil); finErr != nil {
		d.fail(placeholderID, finErr)
		return
	}

	var finalText string
	for _, turn := range d.transcript.Snapshot() {
		if turn.ID == placeholderID {
			finalText = turn.Text
		}
	}

	d.setIdle()

	if ev, evErr := FormatSSE(SSEEventTurnComplete, TurnCompleteEvent{TurnID: placeholderID, Text: finalText}); evErr == nil {
		d.broadcast(ev)
	}

	d.logger.Info("exchange complete",
		"assistant_turn_id", placeholderID,
		"chars", len(finalText),
	)
}

// fail converts any setup or mid-stream error into a terminal apology turn.
// The user turn that triggered the exchange stays in the transcript.
func (d *Driver) fail(placeholderID string, cause error) {
	if sealErr := d.transcript.Fail(placeholderID, ApologyText); sealErr != nil {
		d.logger.Error("failed to seal errored turn", "turn_id", placeholderID, "error", sealErr)
	}

	d.setIdle()

	kind := "transport"
	if errors.Is(cause, domain.ErrConfiguration) {
		kind = "configuration"
	}
	d.logger.Error("exchange failed",
		"assistant_turn_id", placeholderID,
		"kind", kind,
		"error", cause,
	)

	if ev, evErr := FormatSSE(SSEEventTurnError, TurnErrorEvent{
		TurnID: placeholderID,
		Text:   ApologyText,
		Error:  cause.Error(),
	}); evErr == nil {
		d.broadcast(ev)
	}
}

func (d *Driver) setIdle() {
	d.mu.Lock()
	d.state = StateIdle
	d.cancel = nil
	d.mu.Unlock()
}

// broadcast sends an SSE-formatted event to all connected clients.
// A full client buffer drops the event rather than stalling the stream.
func (d *Driver) broadcast(event string) {
	d.clientsMu.RLock()
	defer d.clientsMu.RUnlock()

	for _, ch := range d.clients {
		select {
		case ch <- event:
		default:
		}
	}
}
