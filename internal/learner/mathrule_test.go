package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseFormatInBase_roundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, base := range []int{2, 8, 10, 16} {
		v, ok := parseInBase(formatInBase(255, base), base)
		assert.True(ok)
		assert.Equal(int64(255), v)
	}

	v, ok := parseInBase("-1010", 2)
	assert.True(ok)
	assert.Equal(int64(-10), v)
}

func Test_DetermineOperation_hexOnlyDigitsPinBase(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// "A" only parses as a valid digit in base 16 among the candidate
	// bases, so the base search is pinned and only the '+' operation
	// reproduces "14" (20 in hex).
	op, b1, b2, bOut, ok := DetermineOperation("A", "A", "14")
	require.True(ok)
	assert.Equal(byte('+'), op)
	assert.Equal(16, b1)
	assert.Equal(16, b2)
	assert.Equal(16, bOut)
}

func Test_DetermineOperation_ambiguousRejected(t *testing.T) {
	assert := assert.New(t)
	// small decimal-looking digits parse identically across several
	// candidate bases, so the combination that reproduces the output is
	// not unique and no rule should be derived from this witness alone.
	_, _, _, _, ok := DetermineOperation("1", "1", "2")
	assert.False(ok)
}

func Test_AbstractMathRule_additionAcrossWitnesses(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	rule, ok := AbstractMathRule("A+A", "14", "B+B", "16")
	require.True(ok)
	assert.Equal(byte('+'), rule.Op)
	assert.Equal(16, rule.BaseIn1)
	assert.Equal(16, rule.BaseIn2)
	assert.Equal(16, rule.BaseOut)

	out, ok := rule.Apply("C+C")
	require.True(ok)
	assert.Equal("18", out)
}

func Test_AbstractMathRule_rejectsTooManyVariableInputs(t *testing.T) {
	assert := assert.New(t)
	_, ok := AbstractMathRule("1 + 2 + 3 =", "6", "4 + 5 + 6 =", "15")
	assert.False(ok)
}

func Test_MathRuleStore_ApplyCompoundRollingRule(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewMathRuleStore()
	rule, ok := AbstractMathRule("A+A", "14", "B+B", "16")
	require.True(ok)
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyCompoundRollingRule("A+B+C")
	require.True(ok)
	assert.Equal("21", out)
}

func Test_MathRuleStore_ApplyCompoundRollingRule_keepsIntermediatesInOperandBase(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// a rule whose operand base (10) differs from its result base (16):
	// folding must render every intermediate accumulator in the operand
	// base so the next fold step can still parse it, and only the last
	// accumulator in the result base.
	rule := MathRule{
		InputTokens:  []string{"", "+", ""},
		VarInIdx1:    0,
		VarInIdx2:    2,
		OutputTokens: []string{""},
		VarOutIdx:    0,
		Op:           '+',
		BaseIn1:      10,
		BaseIn2:      10,
		BaseOut:      16,
	}
	store := NewMathRuleStore()
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyCompoundRollingRule("10+10+10")
	require.True(ok)
	// (10+10)+10 = 30 decimal, formatted in the result base only at the end.
	assert.Equal("1e", out)
}

func Test_MathRuleStore_Induct(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewMathRuleStore()
	log := newSuccessLog()
	log.Append("A+A", "14")

	_, ok := store.Induct("B+B", "16", log)
	require.True(ok)
	assert.Equal(1, len(store.Rules()))

	_, ok = store.Induct("B+B", "16", log)
	assert.False(ok)
}
