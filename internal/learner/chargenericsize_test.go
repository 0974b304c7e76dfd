package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AbstractSizeRule1ToN_growingReversal(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	small := CharGenericRule{
		InputPattern:  "CONSTANT Ð001ÐÐ002Ð +",
		OutputPattern: "Ð002Ð+Ð001Ð",
	}
	large := CharGenericRule{
		InputPattern:  "CONSTANT Ð001ÐÐ002ÐÐ003Ð +",
		OutputPattern: "Ð003Ð+Ð002Ð+Ð001Ð",
	}

	rule, ok := AbstractSizeRule1ToN(small, large)
	require.True(ok)

	store := NewGenericSizeStore()
	store.Add("test", rule)

	out, ok := store.ApplyExact("CONSTANT abcde +")
	require.True(ok)
	assert.Equal("e+d+c+b+a", out)
}

func Test_AbstractSizeRule1ToN_rejectsMismatchedInputs(t *testing.T) {
	assert := assert.New(t)

	small := CharGenericRule{InputPattern: "CONSTANT Ð001ÐÐ002Ð", OutputPattern: "Ð001Ð"}
	large := CharGenericRule{InputPattern: "OTHER Ð001ÐÐ002ÐÐ003Ð", OutputPattern: "Ð001Ð"}

	_, ok := AbstractSizeRule1ToN(small, large)
	assert.False(ok)
}

func Test_GenericSizeStore_RemoveAndApplyMiss(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	small := CharGenericRule{
		InputPattern:  "CONSTANT Ð001ÐÐ002Ð +",
		OutputPattern: "Ð002Ð+Ð001Ð",
	}
	large := CharGenericRule{
		InputPattern:  "CONSTANT Ð001ÐÐ002ÐÐ003Ð +",
		OutputPattern: "Ð003Ð+Ð002Ð+Ð001Ð",
	}
	rule, ok := AbstractSizeRule1ToN(small, large)
	require.True(ok)

	store := NewGenericSizeStore()
	store.Add("test", rule)
	store.Remove("test")

	_, ok = store.ApplyExact("CONSTANT abcde +")
	assert.False(ok)
}
