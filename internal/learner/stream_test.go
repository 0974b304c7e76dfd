package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Stream_SetOutput_GetOutput_drainsInOrder(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sx := NewSyntax()
	s := NewStream(sx)

	s.SetOutput("abc")
	assert.True(s.IsOutputLeft())

	var got []rune
	for s.IsOutputLeft() {
		got = append(got, s.GetOutput())
	}
	require.Equal([]rune{'a', 'b', 'c'}, got)
	assert.False(s.IsOutputLeft())
	assert.Equal(rune(0), s.GetOutput())
}

func Test_Stream_ClearOutput_resetsQuestionAndState(t *testing.T) {
	assert := assert.New(t)

	sx := NewSyntax()
	s := NewStream(sx)
	s.SetOutput("xyz")
	s.GetOutput()

	s.ClearOutput()
	assert.False(s.IsOutputLeft())
	assert.Equal("", s.FullOutput())
	assert.Equal("", s.FullInput())
}

func Test_Stream_IsTeacherSilent(t *testing.T) {
	assert := assert.New(t)

	sx := NewSyntax()
	s := NewStream(sx)

	for i := 0; i < 50; i++ {
		s.ProcessState(' ')
	}
	for i := 0; i < 49; i++ {
		s.SetReward(' ', false)
	}
	assert.True(s.IsTeacherSilent())

	s.ProcessState('x')
	assert.False(s.IsTeacherSilent())
}

func Test_Stream_SetReward_tracksRewardInInputOnly(t *testing.T) {
	assert := assert.New(t)

	sx := NewSyntax()
	s := NewStream(sx)

	s.SetReward('+', false)
	assert.False(s.RewardInInputOnly(), "an explicit wire reward is not input-derived")

	s.SetReward('+', true)
	assert.True(s.RewardInInputOnly(), "a reward synthesized from the teacher's own input must be flagged")

	s.SetReward(' ', false)
	assert.False(s.RewardInInputOnly(), "the flag reflects only the most recently registered reward")
}

// Test_Stream_FullCycle_answerNowThenFeedback walks one full question cycle
// through a syntax with a known answer-now delimiter ('?'), a multi-char
// feedback window, and a known next-request delimiter ('!'): the teacher
// asks "hi?", the agent answers "ab" followed by its own echoed '?', and
// the teacher's feedback "no!" closes the cycle.
func Test_Stream_FullCycle_answerNowThenFeedback(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sx := &Syntax{
		AnswerNowChar:   '?',
		NextRequestChar: '!',
		FeedbackLength:  2,
	}
	s := NewStream(sx)

	for _, c := range "hi?" {
		s.ProcessState(c)
	}
	require.True(s.ShouldSendOutputNow())
	assert.Equal("hi?", s.FullInput())

	s.SetOutput("ab?")
	for s.IsOutputLeft() {
		s.GetOutput()
	}
	assert.False(s.ShouldSendOutputNow())

	for _, c := range "no!" {
		s.ProcessState(c)
	}
	require.True(s.IsAllReady())
	assert.Equal("no!", s.FullFeedback())
	assert.True(s.StateOK())

	s.Advance()
	assert.False(s.IsAllReady())
	assert.Equal("", s.FullInput())
}
