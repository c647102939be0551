package session

import (
	"strings"
	"testing"
)

func TestDecorateDefaultMode(t *testing.T) {
	m := NewModeController()

	dec := m.Decorate("base instruction", "what is entropy?")

	if dec.Instruction != "base instruction" {
		t.Errorf("Instruction = %q, want untouched base", dec.Instruction)
	}
	if dec.AugmentedPrompt != "what is entropy?" {
		t.Errorf("AugmentedPrompt = %q, want verbatim user text", dec.AugmentedPrompt)
	}
	if dec.ToolsEnabled {
		t.Error("ToolsEnabled = true in default mode")
	}
}

func TestDecorateResearchMode(t *testing.T) {
	m := NewModeController()
	m.SetResearch(true)

	dec := m.Decorate("base instruction", "what is entropy?")

	if !strings.HasPrefix(dec.Instruction, "base instruction") {
		t.Errorf("Instruction = %q, base not preserved as prefix", dec.Instruction)
	}
	if !strings.Contains(dec.Instruction, "web search") {
		t.Errorf("Instruction = %q, missing search directive", dec.Instruction)
	}
	if !strings.Contains(dec.AugmentedPrompt, "RESEARCH REQUEST: what is entropy?") {
		t.Errorf("AugmentedPrompt = %q, user text not embedded", dec.AugmentedPrompt)
	}
	for _, section := range []string{"Key Findings", "Sources", "Research Gaps"} {
		if !strings.Contains(dec.AugmentedPrompt, section) {
			t.Errorf("AugmentedPrompt missing %q section", section)
		}
	}
	if !dec.ToolsEnabled {
		t.Error("ToolsEnabled = false in research mode")
	}
}

func TestModeToggleRoundTrip(t *testing.T) {
	m := NewModeController()

	if m.Research() {
		t.Fatal("research mode on at construction")
	}
	m.SetResearch(true)
	if !m.Research() {
		t.Fatal("SetResearch(true) had no effect")
	}
	m.SetResearch(false)

	dec := m.Decorate("base", "plain question")
	if dec.ToolsEnabled || dec.AugmentedPrompt != "plain question" {
		t.Errorf("decoration after toggle-off = %+v, want default shaping", dec)
	}
}
