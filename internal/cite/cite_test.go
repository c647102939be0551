package cite

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "apa website",
			req: Request{
				Type:   TypeWebsite,
				Style:  StyleAPA,
				Author: "Smith, J.",
				Title:  "On Entropy",
				Year:   "2024",
				URL:    "https://example.org/entropy",
			},
			want: "Smith, J. (2024). On Entropy. Retrieved 3/15/2026, from https://example.org/entropy",
		},
		{
			name: "apa book",
			req: Request{
				Type:   TypeBook,
				Style:  StyleAPA,
				Author: "Smith, J.",
				Title:  "On Entropy",
				Year:   "2024",
			},
			want: "Smith, J. (2024). On Entropy. Publisher.",
		},
		{
			name: "mla website",
			req: Request{
				Type:   TypeWebsite,
				Style:  StyleMLA,
				Author: "Smith, Jane",
				Title:  "On Entropy",
				Year:   "2024",
				URL:    "https://example.org/entropy",
			},
			want: `Smith, Jane. "On Entropy". Website Name, 2024, https://example.org/entropy. Accessed 3/15/2026.`,
		},
		{
			name: "chicago book",
			req: Request{
				Type:   TypeBook,
				Style:  StyleChicago,
				Author: "Smith, Jane",
				Title:  "On Entropy",
				Year:   "2024",
			},
			want: "Smith, Jane. On Entropy. Publisher, 2024.",
		},
		{
			name: "unknown style defaults to apa",
			req: Request{
				Type:   TypeBook,
				Style:  "ieee",
				Author: "Smith, J.",
				Title:  "On Entropy",
				Year:   "2024",
			},
			want: "Smith, J. (2024). On Entropy. Publisher.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.req, testNow); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEmptyFieldsFallBack(t *testing.T) {
	// A blank form still yields a usable citation template.
	got := Format(Request{Type: TypeWebsite, Style: StyleAPA}, testNow)

	for _, placeholder := range []string{"Author, A. A.", "n.d.", "Title of work", "URL"} {
		if !strings.Contains(got, placeholder) {
			t.Errorf("citation %q missing placeholder %q", got, placeholder)
		}
	}
}

func TestFormatWebsiteUsesAccessDate(t *testing.T) {
	got := Format(Request{Type: TypeWebsite, Style: StyleChicago, Title: "T"}, testNow)
	if !strings.Contains(got, "3/15/2026") {
		t.Errorf("citation %q missing access date", got)
	}
}
