package domain

import (
	"math"
	"strconv"
	"strings"
)

// CoerceBudget clamps a budget to a finite, non-negative number.
// NaN, infinities and negative values all become 0.
func CoerceBudget(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseBudget converts raw user input into a budget. Currency symbols,
// thousands separators and surrounding whitespace are tolerated; anything
// that still fails to parse is treated as 0.
func ParseBudget(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return CoerceBudget(v)
}

// SumBudgets totals budgets after coercion, so one corrupt value can never
// poison an aggregate.
func SumBudgets(vals ...float64) float64 {
	var total float64
	for _, v := range vals {
		total += CoerceBudget(v)
	}
	return total
}
