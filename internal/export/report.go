// Package export renders a board as a plan report: every lane with its
// tactics, the per-lane subtotal and the grand total.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/board"
)

// Format selects a report rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yml", "yaml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown, text, json or yaml)", s)
	}
}

// Item is one tactic line in the report.
type Item struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Budget  float64 `json:"budget" yaml:"budget"`
	Content string  `json:"content,omitempty" yaml:"content,omitempty"`
}

// Section is one lane in the report.
type Section struct {
	LaneID   string  `json:"lane_id" yaml:"lane_id"`
	Title    string  `json:"title" yaml:"title"`
	Items    []Item  `json:"items" yaml:"items"`
	Subtotal float64 `json:"subtotal" yaml:"subtotal"`
}

// Report is the board snapshot that every format renders.
type Report struct {
	Title       string    `json:"title" yaml:"title"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Sections    []Section `json:"sections" yaml:"sections"`
	Total       float64   `json:"total" yaml:"total"`
}

// Options tune report construction.
type Options struct {
	Title          string
	IncludeContent bool
	Now            func() time.Time
}

// Build snapshots b into a Report. Lanes keep board order and totals come
// from the board so they match what the board view shows.
func Build(b *board.Board, opts Options) Report {
	if opts.Title == "" {
		opts.Title = "Marketing Plan"
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	r := Report{Title: opts.Title, GeneratedAt: now().UTC()}
	if b == nil {
		return r
	}
	for _, lane := range b.Lanes {
		s := Section{LaneID: lane.ID, Title: lane.Title, Items: make([]Item, 0, len(lane.Tactics))}
		for _, t := range lane.Tactics {
			item := Item{ID: t.ID, Title: t.Title, Budget: t.Budget}
			if opts.IncludeContent {
				item.Content = t.Content
			}
			s.Items = append(s.Items, item)
		}
		s.Subtotal = b.LaneTotal(lane.ID)
		r.Sections = append(r.Sections, s)
	}
	r.Total = b.GrandTotal()
	return r
}

// Write renders r in format f to w.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatMarkdown:
		return writeMarkdown(w, r)
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// Money formats an amount as dollars with thousands separators, e.g. $12,500.00.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "$" + b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}
