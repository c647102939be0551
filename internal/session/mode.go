package session

import (
	"fmt"
	"sync"
)

// researchDirective is appended to the base instruction when research mode
// is active.
const researchDirective = " You have access to web search. Use it to find academic sources. Always cite your sources."

// researchTemplate wraps the user's text in a structured research request.
const researchTemplate = "RESEARCH REQUEST: %s\n\n" +
	"Please search for academic papers, journals, and credible sources regarding this topic. " +
	"Prioritize sources like PubMed, IEEE Xplore, and JSTOR where available.\n\n" +
	"Output Format:\n" +
	"1. **Key Findings**: Concise summaries of relevant papers.\n" +
	"2. **Sources**: List the papers/articles found.\n" +
	"3. **Research Gaps**: Identify areas needing further research."

// Decoration is the frozen request shaping for one exchange. The driver
// evaluates it once at submit time; flipping the mode mid-stream must not
// retroactively alter a request already sent.
type Decoration struct {
	Instruction     string
	AugmentedPrompt string
	ToolsEnabled    bool
}

// ModeController tracks whether research mode is active for a session and
// shapes the outgoing instruction and prompt accordingly. Toggling is
// allowed at any time between submissions.
type ModeController struct {
	mu       sync.Mutex
	research bool
}

// NewModeController creates a controller with research mode off.
func NewModeController() *ModeController {
	return &ModeController{}
}

// SetResearch toggles research mode.
func (m *ModeController) SetResearch(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.research = active
}

// Research reports whether research mode is active.
func (m *ModeController) Research() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.research
}

// Decorate computes the instruction, prompt, and tooling configuration for
// one exchange. Pure formatting transform with no side effects.
func (m *ModeController) Decorate(baseInstruction, userText string) Decoration {
	m.mu.Lock()
	active := m.research
	m.mu.Unlock()

	if !active {
		return Decoration{
			Instruction:     baseInstruction,
			AugmentedPrompt: userText,
			ToolsEnabled:    false,
		}
	}

	return Decoration{
		Instruction:     baseInstruction + researchDirective,
		AugmentedPrompt: fmt.Sprintf(researchTemplate, userText),
		ToolsEnabled:    true,
	}
}
