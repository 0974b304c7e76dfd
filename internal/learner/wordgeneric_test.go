package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_abstractWordGenericRule_wholeWordSwap(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	rule, ok := abstractWordGenericRule("the cat sat", "sat cat the", "the dog sat", "sat dog the", 0)
	require.True(ok)

	store := NewWordGenericStore()
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyExact("the bird sat")
	require.True(ok)
	assert.Equal("sat bird the", out)
}

func Test_abstractWordGenericRule_rejectsNoVariability(t *testing.T) {
	assert := assert.New(t)
	_, ok := abstractWordGenericRule("the cat sat", "sat cat the", "the cat sat", "sat cat the", 0)
	assert.False(ok)
}

func Test_abstractWordGenericRule_rejectsWordCountMismatch(t *testing.T) {
	assert := assert.New(t)
	_, ok := abstractWordGenericRule("the cat sat", "sat cat the", "the dog sat down", "down sat dog the", 0)
	assert.False(ok)
}

func Test_decomposeCompoundWord_prefixAndSuffix(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	w1 := []string{"red"}
	w2 := []string{"blue"}
	varIdx := []int{0}
	wordID := map[int]int{0: 1}

	pieces, ok := decomposeCompoundWord("reddish", "bluedish", varIdx, w1, w2, wordID)
	require.True(ok)
	assert.Equal("Ð001Ðdish", renderPieces(pieces))
}

func Test_WordGenericStore_ApplyCompound(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewWordGenericStore()
	rule, ok := abstractWordGenericRule("the cat sat", "sat cat the", "the dog sat", "sat dog the", 0)
	require.True(ok)
	store.rules = append(store.rules, rule)

	out, ok := store.ApplyCompound("the bird sat")
	require.True(ok)
	assert.Equal("sat bird the", out)
}

func Test_WordGenericStore_Induct(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	store := NewWordGenericStore()
	log := newSuccessLog()
	log.Append("the cat sat", "sat cat the")

	_, ok := store.Induct("the dog sat", "sat dog the", log, 0)
	require.True(ok)
	assert.Equal(1, len(store.Rules()))

	_, ok = store.Induct("the dog sat", "sat dog the", log, 0)
	assert.False(ok)
}
