package taxonomy

import (
	"strings"

	"github.com/c360studio/brdgen/requirement"
)

// Op is a leaf comparison operator.
type Op string

// Supported comparison operators. Anything else evaluates false.
const (
	OpExists       Op = "exists"
	OpEq           Op = "eq"
	OpIn           Op = "in"
	OpContains     Op = "contains"
	OpContainsText Op = "containsText"
)

// evalOp applies one comparison between a resolved value and the expected
// value from configuration. Unknown operators fail closed.
func evalOp(v requirement.Value, op Op, expected any) bool {
	switch op {
	case OpExists:
		present := !v.IsAbsent()
		if want, ok := expected.(bool); ok {
			return present == want
		}
		return present

	case OpEq:
		return v.Equal(expected)

	case OpIn:
		members, ok := expected.([]any)
		if !ok {
			return false
		}
		for _, member := range members {
			if v.Equal(member) {
				return true
			}
		}
		return false

	case OpContains:
		if seq, ok := v.Seq(); ok {
			for _, member := range seq {
				if requirement.ValueOf(member).Equal(expected) {
					return true
				}
			}
			return false
		}
		haystack, haveStr := v.Str()
		needle, wantStr := expected.(string)
		return haveStr && wantStr && strings.Contains(haystack, needle)

	case OpContainsText:
		needle, ok := expected.(string)
		if !ok {
			return false
		}
		needle = strings.ToLower(needle)
		if s, ok := v.Str(); ok {
			return strings.Contains(strings.ToLower(s), needle)
		}
		if seq, ok := v.Seq(); ok {
			for _, member := range seq {
				if s, ok := member.(string); ok && strings.Contains(strings.ToLower(s), needle) {
					return true
				}
			}
		}
		return false

	default:
		return false
	}
}
