package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value before it is handed back.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object found in model output. Code
// fences, surrounding prose, comments and bare ".5" numbers are tolerated.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T
	block, err := cleanBlock(raw, '{', '}', "object")
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(v); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return v, nil
}

// ExtractJSONArray is ExtractJSON for a top-level array; validator runs on
// every element.
func ExtractJSONArray[T any](raw string, validator SchemaValidator[T]) ([]T, error) {
	block, err := cleanBlock(raw, '[', ']', "array")
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal([]byte(block), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		for i, item := range items {
			if err := validator(item); err != nil {
				return nil, fmt.Errorf("%w: validation failed at index %d: %v", ErrInvalidOutput, i, err)
			}
		}
	}
	return items, nil
}

// StripCodeFences removes markdown fences around free-text output.
func StripCodeFences(s string) string {
	return strings.TrimSpace(stripCodeFences(s))
}

func cleanBlock(raw string, open, close byte, kind string) (string, error) {
	block := extractBalanced(stripCodeFences(raw), open, close)
	if block == "" {
		return "", fmt.Errorf("%w: no JSON %s found in response", ErrInvalidOutput, kind)
	}
	return normalizeLeadingDecimalNumbers(stripJSONComments(block)), nil
}

// stripCodeFences drops every ``` line and keeps what was between them.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// literalTracker follows JSON string literals byte by byte so the passes
// below only act on structural text.
type literalTracker struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal
// (quotes included).
func (lt *literalTracker) step(c byte) bool {
	switch {
	case lt.escaped:
		lt.escaped = false
		return true
	case lt.inString && c == '\\':
		lt.escaped = true
		return true
	case c == '"':
		lt.inString = !lt.inString
		return true
	default:
		return lt.inString
	}
}

// extractBalanced returns the first balanced open...close block of s.
func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	var lt literalTracker
	depth := 0
	for i := start; i < len(s); i++ {
		if lt.step(s[i]) {
			continue
		}
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripJSONComments removes // and /* */ comments outside string values.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var lt literalTracker
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lt.step(c) || c != '/' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
		case '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += end + 3
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// normalizeLeadingDecimalNumbers turns ".8" into "0.8" and "-.3" into "-0.3"
// outside string values.
func normalizeLeadingDecimalNumbers(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var lt literalTracker
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !lt.step(c) && c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastNonSpace(s[:i])) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func startsNumber(prev byte) bool {
	return prev == 0 || strings.IndexByte(":,[{-", prev) >= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
