package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Controller_computeAnswer_prefersMappingOverEverythingElse(t *testing.T) {
	assert := assert.New(t)

	c := NewController()
	c.brain.Mapping.Successful("hi", "there")
	rule := CharGenericRule{InputPattern: "Ð001Ð", OutputPattern: "Ð001Ð"}
	c.brain.CharGeneric.rules = append(c.brain.CharGeneric.rules, rule)

	out, origin := c.computeAnswer("hi")
	assert.Equal("there", out)
	assert.Equal("mapping", origin.kind)
}

func Test_Controller_computeAnswer_fallsBackToEchoingInput(t *testing.T) {
	assert := assert.New(t)

	c := NewController()
	out, origin := c.computeAnswer("unseen input")
	assert.Equal("unseen input", out)
	assert.Equal("", origin.kind)
}

func Test_Controller_computeAnswer_fallsBackToAlphabetWhenInputEmpty(t *testing.T) {
	assert := assert.New(t)

	c := NewController()
	c.brain.ObserveAlphabet('z')
	out, _ := c.computeAnswer("")
	assert.Equal("z", out)
}

func Test_Controller_softRemediate_removesOnlyTheBlamedCharRule(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	blamed := CharGenericRule{InputPattern: "Ð001Ð blamed", OutputPattern: "Ð001Ð"}
	kept := CharGenericRule{InputPattern: "Ð001Ð kept", OutputPattern: "Ð001Ð"}
	c.brain.CharGeneric.rules = append(c.brain.CharGeneric.rules, blamed, kept)
	c.lastOrigin = ruleOrigin{kind: "char", charRule: blamed}

	c.softRemediate()

	require.Equal(1, len(c.brain.CharGeneric.Rules()))
	assert.Equal(kept, c.brain.CharGeneric.Rules()[0])
	assert.Equal(ruleOrigin{}, c.lastOrigin)
}

func Test_Controller_arbitrate_hardSwitchOnSustainedLossStreak(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	c.brain.Mapping.Successful("x", "y")
	c.consecutiveLosses = c.consecutiveLossLimit + 1

	c.arbitrate(false, false, 0)

	assert.Equal(0, c.consecutiveLosses)
	assert.Equal(0, c.consecutiveWins)
	_, ok := c.brain.Mapping.Retrieve("x")
	require.False(ok, "a hard task switch must reset mapping rules")
}

func Test_Controller_arbitrate_hardSwitchAfterLossEndingAWinStreak(t *testing.T) {
	assert := assert.New(t)

	c := NewController()
	c.brain.Mapping.Successful("x", "y")

	c.arbitrate(false, false, c.consecutiveWinLimit)

	_, ok := c.brain.Mapping.Retrieve("x")
	assert.False(ok)
}

func Test_Controller_arbitrate_softRemediationOnOrdinaryLoss(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	rule := CharGenericRule{InputPattern: "Ð001Ð", OutputPattern: "Ð001Ð"}
	c.brain.CharGeneric.rules = append(c.brain.CharGeneric.rules, rule)
	c.lastOrigin = ruleOrigin{kind: "char", charRule: rule}
	c.brain.Mapping.Successful("x", "y")

	c.arbitrate(false, false, 0)

	require.Equal(0, len(c.brain.CharGeneric.Rules()), "an ordinary loss should only delete the blamed rule")
	_, ok := c.brain.Mapping.Retrieve("x")
	assert.True(ok, "an ordinary loss must not reset mapping rules")
}

func Test_Controller_scoreQuestion_winRecordsMappingAndSuccessLog(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	c.scoreQuestion("hi?", "hi", '+')

	assert.Equal(1, c.consecutiveWins)
	assert.Equal(0, c.consecutiveLosses)
	out, ok := c.brain.Mapping.Retrieve("hi?")
	require.True(ok)
	assert.Equal("hi", out)
	assert.Equal(1, c.brain.SuccessLogLen())
}

func Test_Controller_scoreQuestion_lossRecordsFailureNotSuccess(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	c.scoreQuestion("hi?", "bye", '-')

	assert.Equal(0, c.consecutiveWins)
	assert.Equal(1, c.consecutiveLosses)
	_, ok := c.brain.Mapping.Retrieve("hi?")
	assert.False(ok)
	assert.True(c.brain.Mapping.HasFailed("hi?", "bye"))
	assert.Equal(0, c.brain.SuccessLogLen())
}

func Test_Controller_completeQuestion_resolvesRewardFromWireChannel(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sx := &Syntax{InputLength: 2, FeedbackLength: 0}
	stream := NewStream(sx)
	for _, ch := range "hi" {
		stream.ProcessState(ch)
	}

	c := NewController()
	c.brain.Stream = stream
	c.brain.Syntax = sx

	c.RegisterReward('+', false)
	stream.SetOutput("hi")
	require.True(stream.IsAllReady())
	c.completeQuestion()
	require.Nil(c.pending, "a wire reward already registered should resolve the question immediately")

	assert.Equal(1, c.consecutiveWins)
	out, ok := c.brain.Mapping.Retrieve("hi")
	require.True(ok)
	assert.Equal("hi", out)
}

func Test_Controller_Answer_singleCharacterModeEchoesImmediately(t *testing.T) {
	require := require.New(t)

	c := NewController()
	out := c.Answer('a')

	require.Equal(rune('a'), out, "the default bootstrap syntax is single-character mode, and echo is the fallback rule")

	c.RegisterReward('+', false)
	require.Equal(1, c.brain.SuccessLogLen(), "a winning wire reward on the next tick should log the just-closed witness")
}

func Test_Controller_noRewardAnswer_cyclesAlphabetWithoutRepeats(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	c := NewController()
	for _, r := range []rune{'a', 'b', 'c'} {
		c.brain.ObserveAlphabet(r)
	}

	seen := map[rune]bool{}
	for i := 0; i < 3; i++ {
		r := c.noRewardAnswer()
		require.False(seen[r], "no-reward mode must not repeat a character within one cycle")
		seen[r] = true
	}
	assert.Equal(map[rune]bool{'a': true, 'b': true, 'c': true}, seen)

	// the alphabet is exhausted; the next call starts a fresh cycle.
	assert.Equal(string('a'), c.noRewardAnswer())
}

func Test_Controller_RegisterReward_fromInputScoresPendingQuestionAndSetsFlag(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sx := &Syntax{InputLength: 2, FeedbackLength: 0}
	stream := NewStream(sx)
	for _, ch := range "hi" {
		stream.ProcessState(ch)
	}

	c := NewController()
	c.brain.Stream = stream
	c.brain.Syntax = sx

	stream.SetOutput("hi")
	require.True(stream.IsAllReady())
	c.completeQuestion()
	require.NotNil(c.pending, "with no wire reward yet, the question should still be pending")

	c.RegisterReward('+', true)

	require.Nil(c.pending, "an input-derived reward must resolve the pending question")
	require.True(stream.RewardInInputOnly(), "the stream must report the reward came from the input channel")
	assert.Equal(1, c.consecutiveWins)
	out, ok := c.brain.Mapping.Retrieve("hi")
	require.True(ok)
	assert.Equal("hi", out)
}

func Test_Controller_computeAnswer_usesNoRewardModeWhenTeacherSilent(t *testing.T) {
	require := require.New(t)

	c := NewController()
	c.brain.ObserveAlphabet('z')
	for i := 0; i < 50; i++ {
		c.brain.Stream.ProcessState(' ')
	}
	for i := 0; i < 49; i++ {
		c.brain.Stream.SetReward(' ', false)
	}
	require.True(c.brain.Stream.IsTeacherSilent())

	out, origin := c.computeAnswer("whatever")
	require.Equal("z", out)
	require.Equal(ruleOrigin{}, origin)
}
