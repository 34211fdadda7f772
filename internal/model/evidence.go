package model

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// EvidenceSource names the adapter that produced a piece of evidence.
type EvidenceSource string

const (
	SourcePlayStore   EvidenceSource = "play_store"
	SourceAppStore    EvidenceSource = "app_store"
	SourceReddit      EvidenceSource = "reddit"
	SourceHackerNews  EvidenceSource = "hackernews"
	SourceTwitter     EvidenceSource = "twitter"
	SourceProductHunt EvidenceSource = "producthunt"
	SourceG2          EvidenceSource = "g2"
)

// BodyCap is the default rune cap applied to evidence bodies before
// they are fed into analysis prompts.
const BodyCap = 500

// Evidence is one normalized unit of external opinion text: an app store
// review or a community post/comment. Immutable once produced.
type Evidence struct {
	ID     string         `json:"id"`
	Source EvidenceSource `json:"source"`
	Title  string         `json:"title,omitempty"`
	Body   string         `json:"body"`
	Rating *float64       `json:"rating,omitempty"`
	URL    string         `json:"url,omitempty"`
	Author string         `json:"author,omitempty"`
	Group  string         `json:"group,omitempty"` // e.g. subreddit
}

// Ledger records the per-source outcome of an evidence scraping pass.
type Ledger struct {
	Attempted []string `json:"sources_attempted"`
	Succeeded []string `json:"sources_succeeded"`
	Failed    []string `json:"sources_failed"`
}

// Clip returns the first max runes of s.
func Clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Truncate caps s at max runes, appending an ellipsis when content was
// dropped. Truncating an already-truncated body is a no-op: a truncated
// body is exactly max+3 runes with the ellipsis suffix.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := utf8.RuneCountInString(s)
	if runes <= max {
		return s
	}
	if strings.HasSuffix(s, "...") && runes == max+3 {
		return s
	}
	return Clip(s, max) + "..."
}

// NormalizeBody canonicalizes evidence text before truncation: NFC
// normalization, whitespace collapse, trimmed ends.
func NormalizeBody(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
