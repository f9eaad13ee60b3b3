package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const reportTimeLayout = "2006-01-02 15:04 MST"

func writeMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.Format(reportTimeLayout))

	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s (%s)\n\n", s.Title, Money(s.Subtotal))
		if len(s.Items) == 0 {
			b.WriteString("_No tactics._\n\n")
			continue
		}
		b.WriteString("| Tactic | Budget |\n|---|---:|\n")
		for _, it := range s.Items {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(it.Title), Money(it.Budget))
		}
		b.WriteString("\n")
		for _, it := range s.Items {
			if it.Content == "" {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", it.Title, strings.TrimSpace(it.Content))
		}
	}
	fmt.Fprintf(&b, "**Total budget: %s**\n", Money(r.Total))

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeCell keeps a title from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", r.Title)
	fmt.Fprintf(tw, "%s\n", strings.Repeat("=", len(r.Title)))
	fmt.Fprintf(tw, "Generated %s\n\n", r.GeneratedAt.Format(reportTimeLayout))

	for _, s := range r.Sections {
		fmt.Fprintf(tw, "%s\t\n", strings.ToUpper(s.Title))
		for _, it := range s.Items {
			fmt.Fprintf(tw, "  %s\t%s\t\n", it.Title, Money(it.Budget))
		}
		fmt.Fprintf(tw, "  Subtotal\t%s\t\n\n", Money(s.Subtotal))
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t\n", Money(r.Total))
	return tw.Flush()
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}
