package domain

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Amount is a budget that decodes from a number or from a string like
// "$1,200". Anything unparseable becomes 0 instead of failing the whole
// document, so one odd value in a plan file or model answer costs only
// that value.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = amountFrom(raw)
	return nil
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*a = amountFrom(raw)
	return nil
}

// Float returns the coerced budget.
func (a Amount) Float() float64 { return CoerceBudget(float64(a)) }

func amountFrom(raw any) Amount {
	switch v := raw.(type) {
	case float64:
		return Amount(CoerceBudget(v))
	case int:
		return Amount(CoerceBudget(float64(v)))
	case int64:
		return Amount(CoerceBudget(float64(v)))
	case string:
		return Amount(ParseBudget(v))
	default:
		return 0
	}
}
