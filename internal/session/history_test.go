package session

import (
	"testing"
)

func TestProjectHistoryExcludesActivePlaceholder(t *testing.T) {
	turns := []Turn{
		{ID: "u1", Role: RoleUser, Text: "hello", Status: TurnStatusComplete},
		{ID: "a1", Role: RoleAssistant, Text: "hi there", Status: TurnStatusComplete},
		{ID: "u2", Role: RoleUser, Text: "follow-up", Status: TurnStatusComplete},
		{ID: "a2", Role: RoleAssistant, Text: "partial", Status: TurnStatusStreaming},
	}

	history := ProjectHistory(turns)

	if len(history) != 3 {
		t.Fatalf("got %d messages, want 3", len(history))
	}
	for i, want := range []string{"hello", "hi there", "follow-up"} {
		if history[i].Content != want {
			t.Errorf("history[%d] = %q, want %q", i, history[i].Content, want)
		}
	}
}

func TestProjectHistoryIncludesErrorTurns(t *testing.T) {
	// A failed exchange still happened: the user turn and the apology both
	// belong to the conversation the backend sees next.
	turns := []Turn{
		{ID: "u1", Role: RoleUser, Text: "question", Status: TurnStatusComplete},
		{ID: "a1", Role: RoleAssistant, Text: "Sorry, I encountered an error. Please try again.", Status: TurnStatusError},
	}

	history := ProjectHistory(turns)

	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[1].Role != RoleAssistant {
		t.Errorf("history[1].Role = %q, want assistant", history[1].Role)
	}
	if history[1].Content != "Sorry, I encountered an error. Please try again." {
		t.Errorf("history[1].Content = %q", history[1].Content)
	}
}

func TestProjectHistoryAlternation(t *testing.T) {
	tr := NewTranscript()

	for i, pair := range []struct{ q, a string }{
		{"q1", "a1"}, {"q2", "a2"}, {"q3", "a3"},
	} {
		u := Turn{ID: pair.q, Role: RoleUser, Text: pair.q, Status: TurnStatusComplete}
		a := Turn{ID: pair.a, Role: RoleAssistant, Text: pair.a, Status: TurnStatusComplete}
		if err := tr.Append(u); err != nil {
			t.Fatalf("append pair %d user: %v", i, err)
		}
		if err := tr.Append(a); err != nil {
			t.Fatalf("append pair %d assistant: %v", i, err)
		}
	}

	history := ProjectHistory(tr.Snapshot())

	if len(history) != 6 {
		t.Fatalf("got %d messages, want 6", len(history))
	}
	for i, msg := range history {
		wantRole := RoleUser
		if i%2 == 1 {
			wantRole = RoleAssistant
		}
		if msg.Role != wantRole {
			t.Errorf("history[%d].Role = %q, want %q", i, msg.Role, wantRole)
		}
	}
}

func TestProjectHistoryEmptyTranscript(t *testing.T) {
	history := ProjectHistory(nil)
	if len(history) != 0 {
		t.Errorf("got %d messages for empty transcript, want 0", len(history))
	}
}
