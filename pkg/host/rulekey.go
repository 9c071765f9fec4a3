package host

import "fmt"

// RuleKey correlates a renderer legend entry with its legend node.
//
// Hosts hand out keys of heterogeneous underlying types (strings on one side,
// integers on the other, depending on the host version). Two keys are equal
// when their values compare equal directly or when their string forms match.
type RuleKey struct {
	value any
}

// NewRuleKey wraps v as a rule key.
func NewRuleKey(v any) RuleKey {
	return RuleKey{value: v}
}

// Value returns the wrapped value.
func (k RuleKey) Value() any {
	return k.value
}

// IsZero reports whether the key wraps nothing.
func (k RuleKey) IsZero() bool {
	return k.value == nil
}

// String returns the normalized string form of the key.
func (k RuleKey) String() string {
	if k.value == nil {
		return ""
	}
	if s, ok := k.value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k.value)
}

// Equal reports whether k and other identify the same rule.
func (k RuleKey) Equal(other RuleKey) bool {
	if k.value == nil || other.value == nil {
		return k.value == nil && other.value == nil
	}
	if isComparable(k.value) && isComparable(other.value) && k.value == other.value {
		return true
	}
	return k.String() == other.String()
}

// isComparable reports whether v can be used with == without panicking.
func isComparable(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
