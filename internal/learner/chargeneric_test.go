package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_abstractCharGenericRule_reversal(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	rule, ok := abstractCharGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	require.True(ok)

	store := NewCharGenericStore()
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyExact("CONSTANT bkj")
	require.True(ok)
	assert.Equal("jkb", out)
}

func Test_abstractCharGenericRule_rejectsNoVariability(t *testing.T) {
	assert := assert.New(t)
	_, ok := abstractCharGenericRule("CONSTANT abc", "cba", "CONSTANT abc", "cba", 0)
	assert.False(ok)
}

func Test_abstractCharGenericRule_rejectsSingleWord(t *testing.T) {
	assert := assert.New(t)
	_, ok := abstractCharGenericRule("abc", "cba", "xyz", "zyx", 0)
	assert.False(ok)
}

func Test_CharGenericStore_ApplyCompound(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewCharGenericStore()
	rule, ok := abstractCharGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	require.True(ok)
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyCompound("CONSTANT bkj")
	require.True(ok)
	assert.Equal("jkb", out)
}

func Test_validateEquivalentCharPatterns_identicalInput(t *testing.T) {
	assert := assert.New(t)
	r := CharGenericRule{InputPattern: "CONSTANT Ð001Ð", OutputPattern: "Ð001Ð"}
	merged, ok := validateEquivalentCharPatterns(r, r)
	assert.True(ok)
	assert.Equal(r, merged)
}

func Test_CharGenericStore_Induct(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewCharGenericStore()
	log := newSuccessLog()
	log.Append("CONSTANT xyz", "zyx")

	rule, ok := store.Induct("CONSTANT abc", "cba", log, 0)
	require.True(ok)
	assert.Equal(1, len(store.Rules()))

	// inducting the same pair again should not add a duplicate.
	_, ok = store.Induct("CONSTANT abc", "cba", log, 0)
	assert.False(ok)
	_ = rule
}
