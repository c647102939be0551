package session

import (
	"scholarflow/internal/provider"
)

// ProjectHistory converts transcript turns into the ordered role/content
// sequence sent to the backend on the next call. Active (unfinalized)
// placeholders are excluded.
//
// The driver calls this synchronously at submit time, BEFORE appending the
// new user turn and its placeholder, so the backend receives exactly the
// prior exchange and never the message it is currently answering. The
// current message travels separately in the request's Message field;
// projecting from a post-append snapshot would silently duplicate it.
func ProjectHistory(turns []Turn) []provider.Message {
	history := make([]provider.Message, 0, len(turns))

	for _, turn := range turns {
		if !turn.Terminal() {
			continue
		}
		history = append(history, provider.Message{
			Role:    turn.Role,
			Content: turn.Text,
		})
	}

	return history
}
