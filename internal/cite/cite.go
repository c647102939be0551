// Package cite formats citations in APA, MLA, and Chicago styles.
// Pure local formatting: missing fields fall back to placeholder text so a
// partially-filled form still yields a usable template.
package cite

import (
	"fmt"
	"time"
)

// Source type constants
const (
	TypeWebsite = "website"
	TypeBook    = "book"
	TypeJournal = "journal"
)

// Style constants
const (
	StyleAPA     = "apa"
	StyleMLA     = "mla"
	StyleChicago = "chicago"
)

// Request describes the source being cited.
type Request struct {
	Type   string `json:"type"`  // "website", "book", "journal"
	Style  string `json:"style"` // "apa", "mla", "chicago"
	URL    string `json:"url"`
	Author string `json:"author"`
	Title  string `json:"title"`
	Year   string `json:"year"`
}

// Format renders the citation. now supplies the access date for web
// sources; pass time.Now() outside tests.
func Format(req Request, now time.Time) string {
	date := now.Format("1/2/2006")

	switch req.Style {
	case StyleMLA:
		return formatMLA(req, date)
	case StyleChicago:
		return formatChicago(req, date)
	default:
		return formatAPA(req, date)
	}
}

func formatAPA(req Request, date string) string {
	author := fallback(req.Author, "Author, A. A.")
	title := fallback(req.Title, "Title of work")

	if req.Type == TypeWebsite {
		year := fallback(req.Year, "n.d.")
		url := fallback(req.URL, "URL")
		return fmt.Sprintf("%s (%s). %s. Retrieved %s, from %s", author, year, title, date, url)
	}
	year := fallback(req.Year, "Year")
	return fmt.Sprintf("%s (%s). %s. Publisher.", author, year, title)
}

func formatMLA(req Request, date string) string {
	author := fallback(req.Author, "Author, Last Name")
	title := fallback(req.Title, "Title of Work")

	if req.Type == TypeWebsite {
		year := fallback(req.Year, "Date")
		url := fallback(req.URL, "URL")
		return fmt.Sprintf("%s. %q. Website Name, %s, %s. Accessed %s.", author, title, year, url, date)
	}
	year := fallback(req.Year, "Year")
	return fmt.Sprintf("%s. %s. Publisher, %s.", author, title, year)
}

func formatChicago(req Request, date string) string {
	author := fallback(req.Author, "Author Last Name, First Name")
	title := fallback(req.Title, "Title of Work")

	if req.Type == TypeWebsite {
		url := fallback(req.URL, "URL")
		return fmt.Sprintf("%s. %q. Accessed %s. %s.", author, title, date, url)
	}
	year := fallback(req.Year, "Year")
	return fmt.Sprintf("%s. %s. Publisher, %s.", author, title, year)
}

func fallback(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
