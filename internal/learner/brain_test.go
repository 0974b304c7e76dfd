package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Brain_ObserveAlphabet_dedupesInFirstSeenOrder(t *testing.T) {
	assert := assert.New(t)

	b := NewBrain()
	b.ObserveAlphabet('b')
	b.ObserveAlphabet('a')
	b.ObserveAlphabet('b')

	assert.Equal([]rune{'b', 'a'}, b.Alphabet())
}

func Test_Brain_RecordSuccess_feedsSuccessLog(t *testing.T) {
	assert := assert.New(t)

	b := NewBrain()
	b.RecordSuccess("hi", "there")
	assert.Equal(1, b.SuccessLogLen())

	b.RecordSuccess("hi", "there")
	assert.Equal(1, b.SuccessLogLen(), "duplicate witness should not grow the log")
}

func Test_Brain_NewTask_resetsMappingAndSyntaxButKeepsGenericsAndLog(t *testing.T) {
	require := assert.New(t)

	b := NewBrain()
	b.Mapping.Successful("hi", "there")
	b.RecordSuccess("hi", "there")
	rule := CharGenericRule{InputPattern: "Ð001Ð", OutputPattern: "Ð001Ð"}
	b.CharGeneric.rules = append(b.CharGeneric.rules, rule)
	b.Syntax.Discover("abcd", "+-+-")
	require.True(b.Syntax.Discovered())

	b.NewTask(true)

	_, ok := b.Mapping.Retrieve("hi")
	require.False(ok, "mapping rules must reset on task switch")
	require.Equal(1, b.SuccessLogLen(), "success log is a cross-task structure")
	require.Equal(1, len(b.CharGeneric.Rules()), "char-generic rules are cross-task structures")
	require.True(b.Syntax.Discovered(), "copyDelimiters=true preserves a discovered syntax")
}

func Test_Brain_NewTask_rediscoverySyntaxWhenNotCopyingDelimiters(t *testing.T) {
	assert := assert.New(t)

	b := NewBrain()
	b.Syntax.Discover("abcd", "+-+-")
	assert.True(b.Syntax.Discovered())

	b.NewTask(false)
	assert.False(b.Syntax.Discovered())
}
