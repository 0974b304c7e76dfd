package learner

import "strings"

// streamState is which part of a teacher question/answer cycle the state
// machine currently believes it is in.
type streamState int

const (
	receivingInput streamState = iota
	inLongOutput
	receivingFeedback
)

const (
	defaultMaxRollingChars = 10000
	defaultRollingTrimTo   = 1000 // drop oldest down to this many chars once the rolling buffer overflows
)

// Stream drives the single-tick input/output/feedback cycle. It owns the
// rolling `inputs`/`rewards` strings the syntax discoverer reads, the
// current question tuple, and the flags the controller consults every
// tick.
type Stream struct {
	syntax *Syntax

	maxRollingChars int
	rollingTrimTo   int

	inputs  strings.Builder
	rewards strings.Builder

	state streamState

	fullInput    strings.Builder
	fullOutput   string
	fullFeedback strings.Builder

	queuedOutput []rune
	outIdx       int

	isAllReady bool
	stateOk    bool

	lastAnswerNowEmitted bool
	rewardInInputOnly    bool
}

// NewStream creates a Stream bound to syntax. The Stream never replaces the
// Syntax pointer; it only reads from it and (via ResetForNewSyntax) can be
// told to return to its initial state after the Syntax has been reset.
func NewStream(syntax *Syntax) *Stream {
	return NewStreamWithLimits(syntax, defaultMaxRollingChars, defaultRollingTrimTo)
}

// NewStreamWithLimits is NewStream with the rolling-buffer bounds
// overridden, e.g. from config.Brain.max_stream_chars.
func NewStreamWithLimits(syntax *Syntax, maxRollingChars, rollingTrimTo int) *Stream {
	if maxRollingChars <= 0 {
		maxRollingChars = defaultMaxRollingChars
	}
	if rollingTrimTo <= 0 || rollingTrimTo > maxRollingChars {
		rollingTrimTo = defaultRollingTrimTo
	}
	return &Stream{
		syntax:          syntax,
		stateOk:         true,
		maxRollingChars: maxRollingChars,
		rollingTrimTo:   rollingTrimTo,
	}
}

// IsAllReady reports whether FullInput/FullOutput/FullFeedback together
// describe a complete question ready for RegisterReward.
func (s *Stream) IsAllReady() bool { return s.isAllReady }

// IsOutputLeft reports whether there is queued multi-character output still
// to drain via GetOutput.
func (s *Stream) IsOutputLeft() bool { return s.outIdx < len(s.queuedOutput) }

// ShouldSendOutputNow reports whether the input tuple is complete and the
// controller should compute a full output string now.
func (s *Stream) ShouldSendOutputNow() bool {
	return s.state == inLongOutput && len(s.queuedOutput) == 0 && s.fullInput.Len() > 0
}

// DelimitersKnown reports whether the syntax descriptor has inferred an
// answer-now delimiter.
func (s *Stream) DelimitersKnown() bool {
	return s.syntax.AnswerNowChar != 0
}

// StateOK reports whether the state machine believes the syntax model is
// still consistent with what the teacher is sending. False signals a
// protocol inconsistency.
func (s *Stream) StateOK() bool { return s.stateOk }

// FullInput returns the accumulated question text for the current cycle.
func (s *Stream) FullInput() string { return s.fullInput.String() }

// FullFeedback returns the accumulated feedback text for the current cycle.
func (s *Stream) FullFeedback() string { return s.fullFeedback.String() }

// FullOutput returns the output string queued for the current cycle, once
// SetOutput has been called.
func (s *Stream) FullOutput() string { return s.fullOutput }

// clearQuestion resets the per-cycle tuple once IsAllReady has been
// consumed; it is cleared on the next input character.
func (s *Stream) clearQuestion() {
	s.fullInput.Reset()
	s.fullOutput = ""
	s.fullFeedback.Reset()
	s.isAllReady = false
	s.queuedOutput = nil
	s.outIdx = 0
}

func (s *Stream) trimRolling(b *strings.Builder) {
	if b.Len() <= s.maxRollingChars {
		return
	}
	str := b.String()
	keepFrom := len(str) - s.rollingTrimTo
	if keepFrom < 0 {
		keepFrom = 0
	}
	b.Reset()
	b.WriteString(str[keepFrom:])
}

// RawInputs exposes the rolling raw input string for the syntax discoverer.
func (s *Stream) RawInputs() string { return s.inputs.String() }

// RawRewards exposes the rolling raw reward string for the syntax
// discoverer.
func (s *Stream) RawRewards() string { return s.rewards.String() }

// SetReward appends r (one of '+', '-', ' ') to the rolling reward stream,
// keeping it aligned character-for-character with the rolling input stream.
// fromInput is true when the reward was synthesized from the teacher's own
// next input rather than an explicit signal (no-reward mode, see
// IsTeacherSilent): the dedicated reward channel never fires for such a
// teacher, so without this substitution the syntax discoverer would never
// see the four non-blank rewards it needs to even begin.
func (s *Stream) SetReward(r rune, fromInput bool) {
	s.rewards.WriteRune(r)
	s.trimRolling(&s.rewards)
	s.rewardInInputOnly = fromInput
}

// RewardInInputOnly reports whether the most recently registered reward was
// inferred from the teacher's own input character rather than the
// dedicated reward channel.
func (s *Stream) RewardInInputOnly() bool { return s.rewardInInputOnly }

// IsTeacherSilent is true when the last 50 teacher characters and the last
// 49 rewards are all blanks.
func (s *Stream) IsTeacherSilent() bool {
	in := s.inputs.String()
	rw := s.rewards.String()
	if !allBlankTail(in, 50) {
		return false
	}
	return allBlankTail(rw, 49)
}

func allBlankTail(s string, n int) bool {
	r := []rune(s)
	if len(r) < n {
		return false
	}
	for _, c := range r[len(r)-n:] {
		if c != ' ' {
			return false
		}
	}
	return true
}

// ProcessState consumes one teacher character and drives the state
// machine's transitions.
func (s *Stream) ProcessState(c rune) {
	s.inputs.WriteRune(c)
	s.trimRolling(&s.inputs)

	switch s.state {
	case receivingInput:
		s.fullInput.WriteRune(c)
		answerNow := s.syntax.AnswerNowChar != 0 && c == s.syntax.AnswerNowChar
		lenReached := !answerNow && s.syntax.AnswerNowChar == 0 && s.syntax.InputLength > 0 &&
			s.fullInput.Len() >= s.syntax.InputLength
		if answerNow || lenReached {
			s.lastAnswerNowEmitted = answerNow
			switch {
			case s.syntax.FeedbackLength == 0:
				// no feedback at all: single-character mode
				// and the undiscovered-syntax bootstrap default both
				// land here, so the cycle completes immediately and the
				// reward comes from the separate reward channel.
				s.isAllReady = true
			case s.syntax.FeedbackLength > 1:
				s.state = inLongOutput
			default:
				// FeedbackLength == 1, or a not-yet-fully-resolved
				// answer-now char: verbose feedback text follows.
				s.state = receivingFeedback
			}
		}
	case inLongOutput:
		if c != ' ' {
			if s.lastAnswerNowEmitted {
				// legitimate feedback interrupting our own output drain.
				s.state = receivingFeedback
				s.fullFeedback.WriteRune(c)
			} else {
				// syntax model is wrong; the whole syntax must be reset.
				s.stateOk = false
			}
		}
	case receivingFeedback:
		s.fullFeedback.WriteRune(c)
		done := false
		if s.syntax.NextRequestChar != 0 {
			if !s.inBoilerplateSpan() && c == s.syntax.NextRequestChar {
				done = true
			}
		} else if s.syntax.FeedbackLength == 1 {
			done = true
		}
		if done {
			s.isAllReady = true
		}
	}
}

// inBoilerplateSpan reports whether the feedback accumulated so far is a
// prefix or suffix of the known WrongFeedbackWords boilerplate, in which
// case an occurrence of NextRequestChar inside it is not a separator.
func (s *Stream) inBoilerplateSpan() bool {
	wrong := s.syntax.Words.WrongFeedbackWords
	if wrong == "" {
		return false
	}
	cur := s.fullFeedback.String()
	return strings.HasPrefix(wrong, cur) || strings.HasSuffix(wrong, cur)
}

// SetOutput queues a full output string for draining one character at a
// time via GetOutput.
func (s *Stream) SetOutput(out string) {
	s.fullOutput = out
	s.queuedOutput = []rune(out)
	s.outIdx = 0
}

// GetOutput returns the next queued output character and advances the
// drain cursor. It returns 0 if nothing is queued.
func (s *Stream) GetOutput() rune {
	if s.outIdx >= len(s.queuedOutput) {
		return 0
	}
	c := s.queuedOutput[s.outIdx]
	s.outIdx++
	if s.outIdx >= len(s.queuedOutput) {
		if s.syntax.AnswerNowChar != 0 {
			s.lastAnswerNowEmitted = c == s.syntax.AnswerNowChar
		}
	}
	return c
}

// ClearOutput discards any queued output and returns the machine to
// ReceivingInput, ready for the next cycle.
func (s *Stream) ClearOutput() {
	s.clearQuestion()
	s.state = receivingInput
}

// Advance is called after the controller has consumed IsAllReady for this
// cycle; it clears the question tuple and returns to ReceivingInput.
func (s *Stream) Advance() {
	s.clearQuestion()
	s.state = receivingInput
}

// ResetForNewSyntax restores the machine to its initial state, used when the
// task-switch arbiter decides the syntax model itself must be rediscovered.
func (s *Stream) ResetForNewSyntax() {
	s.state = receivingInput
	s.clearQuestion()
	s.stateOk = true
}
