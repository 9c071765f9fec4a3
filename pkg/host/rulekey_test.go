package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleKeyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b RuleKey
		want bool
	}{
		{"Same String", NewRuleKey("3"), NewRuleKey("3"), true},
		{"Same Int", NewRuleKey(3), NewRuleKey(3), true},
		{"Int Against String", NewRuleKey(3), NewRuleKey("3"), true},
		{"Different Values", NewRuleKey("3"), NewRuleKey("4"), false},
		{"Slice Against String", NewRuleKey([]int{1}), NewRuleKey("[1]"), true},
		{"Zero Against Zero", RuleKey{}, RuleKey{}, true},
		{"Zero Against Value", RuleKey{}, NewRuleKey(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestParseFieldType(t *testing.T) {
	assert.Equal(t, FieldInt, ParseFieldType("Integer"))
	assert.Equal(t, FieldInt64, ParseFieldType("long"))
	assert.Equal(t, FieldDouble, ParseFieldType(" float "))
	assert.Equal(t, FieldString, ParseFieldType("varchar"))
	assert.True(t, FieldInt64.IsNumeric())
	assert.False(t, FieldDate.IsNumeric())
}
