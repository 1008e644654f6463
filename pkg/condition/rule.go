package condition

import "fmt"

// Comparator compares an observed value against a target value.
type Comparator func(observed, target float64) bool

// ParseRule converts a comparison rule string from a node's Rule key into
// a Comparator.
func ParseRule(rule string) (Comparator, error) {
	switch rule {
	case "<":
		return func(observed, target float64) bool { return observed < target }, nil
	case "<=":
		return func(observed, target float64) bool { return observed <= target }, nil
	case ">":
		return func(observed, target float64) bool { return observed > target }, nil
	case ">=":
		return func(observed, target float64) bool { return observed >= target }, nil
	case "==":
		return func(observed, target float64) bool { return observed == target }, nil
	case "!=":
		return func(observed, target float64) bool { return observed != target }, nil
	default:
		return nil, fmt.Errorf("unknown comparison rule %q (expected one of <, <=, >, >=, ==, !=)", rule)
	}
}
