package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/planboard/internal/domain"
)

// budgetValue is a --budget flag. Anything that does not parse as a
// non-negative amount is kept as typed and reads back as 0.
type budgetValue struct {
	raw    string
	amount float64
}

var _ pflag.Value = (*budgetValue)(nil)

func newBudgetValue(def string) *budgetValue {
	b := &budgetValue{}
	_ = b.Set(def)
	return b
}

func (b *budgetValue) String() string { return b.raw }

func (b *budgetValue) Set(s string) error {
	b.raw = s
	b.amount = domain.ParseBudget(s)
	return nil
}

func (b *budgetValue) Type() string { return "amount" }

// Amount is the coerced budget.
func (b *budgetValue) Amount() float64 { return b.amount }

// categoryValue is a --category flag limited to the library categories.
type categoryValue struct{ value string }

var _ pflag.Value = (*categoryValue)(nil)

func (c *categoryValue) String() string { return c.value }

func (c *categoryValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !domain.ValidLibraryCategories[s] {
		return fmt.Errorf("must be one of %s", strings.Join(categoryNames(), ", "))
	}
	c.value = s
	return nil
}

func (c *categoryValue) Type() string { return "category" }

func categoryNames() []string {
	names := make([]string, 0, len(domain.ValidLibraryCategories))
	for name := range domain.ValidLibraryCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
