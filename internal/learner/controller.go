package learner

import (
	"strings"

	"github.com/google/uuid"
)

const (
	defaultConsecutiveLossLimit = 100
	defaultConsecutiveWinLimit  = 10
)

// Limits collects the tunable bounds of the learning engine, sourced from
// config.Brain.
type Limits struct {
	MaxStreamChars       int
	MaxLogEntries        int
	ConsecutiveLossLimit int
	ConsecutiveWinLimit  int
}

// ruleOrigin records which rule family, if any, produced the controller's
// last answer, so the task-switch arbiter's soft-remediation path can
// delete exactly that rule without touching the rest of the store. Only
// exact char-generic, word-generic and generic-size matches record the
// rule itself; math answers and compound or closest-match answers record
// the family alone.
type ruleOrigin struct {
	kind     string // "", "mapping", "math", "char", "word", "size"
	charRule CharGenericRule
	wordRule WordGenericRule
	sizeKey  string
}

// pendingQuestion is a completed (input, output, feedback) tuple whose
// reward has not yet been resolved: single-character-mode cycles carry no
// feedback text at all, so their reward only becomes known on the *next*
// tick's RegisterReward call, matching the wire causality of the protocol
// (the teacher cannot react to an answer until after it has been sent).
type pendingQuestion struct {
	input, output, feedback string
}

// Controller drives one Brain through the teacher/agent dialogue: it feeds
// raw teacher characters to the Stream, computes answers via the rule
// priority chain, records rewards, and runs the task-switch arbiter.
type Controller struct {
	brain *Brain

	consecutiveLossLimit int
	consecutiveWinLimit  int

	consecutiveWins   int
	consecutiveLosses int

	lastOrigin     ruleOrigin
	lastSuccessOut string

	pending        *pendingQuestion
	lastWireReward rune

	noRewardTried map[rune]bool

	taskID string
}

// TaskID identifies the current task, for diagnostic log lines. It changes
// every time the task-switch arbiter fires a hard or forced reset, so a
// caller logging it can tell when the agent believes the teacher has moved
// on to something new.
func (c *Controller) TaskID() string { return c.taskID }

// NewController returns a Controller around a freshly initialized Brain,
// using the default arbiter thresholds and buffer bounds.
func NewController() *Controller {
	return NewControllerWithLimits(Limits{})
}

// NewControllerWithLimits is NewController with every bound sourced from
// cfg; a zero field keeps its default value.
func NewControllerWithLimits(cfg Limits) *Controller {
	lossLimit := cfg.ConsecutiveLossLimit
	if lossLimit <= 0 {
		lossLimit = defaultConsecutiveLossLimit
	}
	winLimit := cfg.ConsecutiveWinLimit
	if winLimit <= 0 {
		winLimit = defaultConsecutiveWinLimit
	}
	return &Controller{
		brain:                NewBrainWithLimits(cfg.MaxStreamChars, 0, cfg.MaxLogEntries),
		consecutiveLossLimit: lossLimit,
		consecutiveWinLimit:  winLimit,
		taskID:               uuid.NewString(),
	}
}

// Brain exposes the underlying learning state, e.g. for diagnostics.
func (c *Controller) Brain() *Brain { return c.brain }

// RegisterReward records the reward signal observed on the wire this tick.
// It must be called once per tick, before Answer, mirroring the wire order
// of "receive reward frame" then "receive teacher character frame". The
// reward reported here almost always belongs to the question completed on
// a *previous* tick (the teacher cannot react to an answer before it has
// been sent), so this also attempts to resolve any pending question
// rather than scoring anything new.
func (c *Controller) RegisterReward(r rune, fromInput bool) {
	c.brain.Stream.SetReward(r, fromInput)
	if r == '+' || r == '-' {
		c.lastWireReward = r
	}
	c.tryScorePending()
}

// Answer feeds one raw teacher character through the state machine and
// returns the one character the agent replies with this tick. Call
// RegisterReward first in the same tick.
func (c *Controller) Answer(teacherChar rune) rune {
	b := c.brain
	b.ObserveAlphabet(teacherChar)
	b.Stream.ProcessState(teacherChar)

	if !b.Syntax.Discovered() {
		b.Syntax.Discover(b.Stream.RawInputs(), b.Stream.RawRewards())
	}

	if b.Stream.ShouldSendOutputNow() {
		out, origin := c.computeAnswer(b.Stream.FullInput())
		c.lastOrigin = origin
		b.Stream.SetOutput(out)
	} else if b.Stream.IsAllReady() && b.Syntax.FeedbackLength == 0 && !b.Stream.IsOutputLeft() {
		// single-character mode: the question the teacher just
		// asked closed on this very tick with no feedback text and no
		// multi-char output phase, so the reply has to be computed right
		// now instead of waiting on a queued drain.
		out, origin := c.computeAnswer(b.Stream.FullInput())
		if out == "" {
			out = " "
		}
		c.lastOrigin = origin
		b.Stream.SetOutput(out)
	}

	emit := rune(' ')
	if b.Stream.IsOutputLeft() {
		emit = b.Stream.GetOutput()
		b.lastOutput = string(emit)
	}

	if b.Stream.IsAllReady() {
		c.completeQuestion()
		b.Stream.Advance()
	}

	if !b.Stream.StateOK() {
		c.forceTaskSwitch()
	}

	if !b.Stream.IsTeacherSilent() {
		c.noRewardTried = nil
	}

	return emit
}

// completeQuestion records the just-finished question/answer/feedback
// tuple as pending and tries to resolve its reward immediately (verbose
// feedback text, or a feedback block that begins with a literal reward
// char, can both resolve it in the very same tick the question
// closes; single-character-mode cycles cannot and wait for the next
// RegisterReward).
func (c *Controller) completeQuestion() {
	b := c.brain
	q := pendingQuestion{
		input:    b.Stream.FullInput(),
		output:   b.Stream.FullOutput(),
		feedback: b.Stream.FullFeedback(),
	}
	b.Syntax.Words.Observe(q.feedback)
	b.Syntax.Words.LearnWrongFeedbackWords()
	c.pending = &q
	c.tryScorePending()
}

// tryScorePending resolves c.pending's reward if possible and, if so,
// scores it and clears it. It is a no-op if nothing is pending or the
// reward cannot yet be determined.
func (c *Controller) tryScorePending() {
	if c.pending == nil {
		return
	}
	reward, ok := c.resolveReward(c.pending.feedback)
	if !ok {
		return
	}
	q := c.pending
	c.pending = nil
	c.scoreQuestion(q.input, q.output, reward)
}

// resolveReward determines the +/- verdict for a completed question. The
// wire reward channel is authoritative when it has fired; a
// literal '+'/'-' as the first character of the feedback block is
// the same signal carried in-band instead; failing both, the learned
// WrongFeedbackWords boilerplate is used to parse verbose feedback text
//. A blank wire reward with no feedback text at all (single-
// character mode) cannot be resolved yet.
func (c *Controller) resolveReward(feedback string) (rune, bool) {
	if c.lastWireReward == '+' || c.lastWireReward == '-' {
		r := c.lastWireReward
		c.lastWireReward = 0
		return r, true
	}
	if len(feedback) > 0 {
		if r := []rune(feedback)[0]; r == '+' || r == '-' {
			return r, true
		}
		return c.brain.Syntax.Words.ParseFeedbackForRewards(feedback), true
	}
	return 0, false
}

// scoreQuestion applies a resolved reward to the just-completed
// (input, output) pair: updates the mapping rules, runs generic-rule
// induction on a win, and runs the task-switch arbiter.
func (c *Controller) scoreQuestion(input, output string, reward rune) {
	b := c.brain
	won := reward == '+'
	mappingViolated := false
	priorWins := c.consecutiveWins

	if won {
		c.consecutiveWins++
		c.consecutiveLosses = 0
		c.lastSuccessOut = output

		if existing, ok := b.Mapping.Retrieve(input); ok && existing != output {
			mappingViolated = true
		}
		b.Mapping.Successful(input, output)
		b.RecordSuccess(input, output)

		// try math first against the whole successful log; only fall
		// through to char-generic induction (which in turn drives
		// generic-size) if math didn't produce anything for this witness,
		// then word-generic if char-generic didn't either.
		if _, ok := b.MathRules.Induct(input, output, b.successLog); !ok {
			if _, ok := b.CharGeneric.Induct(input, output, b.successLog, b.Syntax.AnswerNowChar); ok {
				c.inductGenericSize()
			} else {
				b.WordGeneric.Induct(input, output, b.successLog, b.Syntax.AnswerNowChar)
			}
		}
	} else {
		c.consecutiveWins = 0
		c.consecutiveLosses++
		if existing, ok := b.Mapping.Retrieve(input); ok && existing == output {
			mappingViolated = true
		}
		b.Mapping.Failed(input, output)
	}

	c.arbitrate(won, mappingViolated, priorWins)
}

// inductGenericSize tries to grow a generic-size rule from every pair of
// currently held char-generic rules, invoked after every successful
// char-generic induction, against every prior char-generic rule.
func (c *Controller) inductGenericSize() {
	rules := c.brain.CharGeneric.Rules()
	for i := range rules {
		for j := range rules {
			if i == j {
				continue
			}
			small, large := rules[i], rules[j]
			if len(identsIn(small.InputPattern)) >= len(identsIn(large.InputPattern)) {
				continue
			}
			key := small.InputPattern + "->" + large.InputPattern
			if r, ok := AbstractSizeRule1To1(small, large); ok {
				c.brain.GenericSize.Add(key, r)
				continue
			}
			if r, ok := AbstractSizeRule1ToN(small, large); ok {
				c.brain.GenericSize.Add(key, r)
			}
		}
	}
}

// arbitrate implements the task-switch arbiter: a hard reset on
// sustained losing streaks, a syntax-level reset when the state machine
// itself reports inconsistency, a reset when a mapping rule is
// contradicted without fresh boilerplate to explain it away, a reset after
// losing immediately following a winning streak, and otherwise a soft
// remediation that deletes the one generic rule blamed for the bad answer.
func (c *Controller) arbitrate(won, mappingViolated bool, priorWins int) {
	b := c.brain

	if c.consecutiveLosses > c.consecutiveLossLimit {
		c.hardTaskSwitch()
		return
	}

	if !b.Stream.StateOK() {
		c.forceTaskSwitch()
		return
	}

	if mappingViolated {
		learnedNewBoilerplate := b.Syntax.Words.WrongFeedbackWords != ""
		rewardsSoFar := len([]rune(b.Stream.RawRewards()))
		if !learnedNewBoilerplate && (rewardsSoFar >= 4 || b.Syntax.FeedbackRealChars == 0) {
			c.hardTaskSwitch()
			return
		}
	}

	if !won && priorWins >= c.consecutiveWinLimit {
		c.hardTaskSwitch()
		return
	}

	if !won {
		c.softRemediate()
	}
}

// hardTaskSwitch clears per-task mapping state (preserving discovered
// delimiters) and resets the streak counters.
func (c *Controller) hardTaskSwitch() {
	c.brain.NewTask(true)
	c.consecutiveWins = 0
	c.consecutiveLosses = 0
	c.lastOrigin = ruleOrigin{}
	c.taskID = uuid.NewString()
}

// forceTaskSwitch rediscovers the syntax entirely, used when the state
// machine itself reports the framing model is broken.
func (c *Controller) forceTaskSwitch() {
	c.brain.NewTask(false)
	c.consecutiveWins = 0
	c.consecutiveLosses = 0
	c.lastOrigin = ruleOrigin{}
	c.taskID = uuid.NewString()
}

// softRemediate deletes the char-generic, word-generic or generic-size rule
// recorded in lastOrigin, leaving mapping rules and every other generic rule
// untouched. Math rules are never deleted here, and an answer from compound
// or closest-match application deletes nothing, since no rule is recorded
// for it.
func (c *Controller) softRemediate() {
	switch c.lastOrigin.kind {
	case "char":
		c.brain.CharGeneric.Remove(c.lastOrigin.charRule)
		c.brain.GenericSize.RemoveRelatedTo(c.lastOrigin.charRule.InputPattern)
	case "word":
		c.brain.WordGeneric.Remove(c.lastOrigin.wordRule)
	case "size":
		c.brain.GenericSize.Remove(c.lastOrigin.sizeKey)
	}
	c.lastOrigin = ruleOrigin{}
}

// computeAnswer runs the rule priority chain and reports which
// rule family (if any) produced the winning answer.
func (c *Controller) computeAnswer(input string) (string, ruleOrigin) {
	b := c.brain

	if b.Stream.IsTeacherSilent() {
		return c.noRewardAnswer(), ruleOrigin{}
	}

	if out, ok := b.Mapping.Retrieve(input); ok {
		return out, ruleOrigin{kind: "mapping"}
	}

	if out, ok := b.MathRules.ApplyExact(input); ok {
		return out, ruleOrigin{kind: "math"}
	}
	if r, bind, ok := b.CharGeneric.MatchingRule(input); ok {
		return applyCharRule(r.OutputPattern, bind), ruleOrigin{kind: "char", charRule: r}
	}
	if r, bind, ok := b.WordGeneric.MatchingRule(input); ok {
		return applyWordRule(r.OutputPattern, bind), ruleOrigin{kind: "word", wordRule: r}
	}

	if out, key, ok := b.GenericSize.ApplyExactKeyed(input); ok {
		return out, ruleOrigin{kind: "size", sizeKey: key}
	}

	if out, ok := b.MathRules.ApplyCompoundRollingRule(input); ok {
		return out, ruleOrigin{kind: "math"}
	}
	if out, ok := b.CharGeneric.ApplyCompound(input); ok {
		return out, ruleOrigin{kind: "char"}
	}
	if out, ok := b.WordGeneric.ApplyCompound(input); ok {
		return out, ruleOrigin{kind: "word"}
	}

	if out, ok := b.CharGeneric.ApplyClosest(input); ok {
		return out, ruleOrigin{kind: "char"}
	}

	if out, ok := c.closestLogEntry(input); ok {
		return out, ruleOrigin{}
	}

	if c.lastSuccessOut != "" {
		return c.lastSuccessOut, ruleOrigin{}
	}

	if b.Mapping.UniformValue != "" {
		return b.Mapping.UniformValue, ruleOrigin{}
	}

	if input != "" {
		return input, ruleOrigin{}
	}

	if freq := b.Mapping.RetrieveOutputsSortedByFreq(); len(freq) > 0 {
		return freq[0], ruleOrigin{}
	}

	if alpha := b.Alphabet(); len(alpha) > 0 {
		return string(alpha[0]), ruleOrigin{}
	}

	return b.lastOutput, ruleOrigin{}
}

// noRewardAnswer implements no-reward mode: when nothing the agent has tried is provoking any reaction at
// all, it works through the known alphabet one character at a time,
// skipping ones already tried this cycle, until the teacher reacts.
// Answer clears the tried set as soon as the teacher stops being silent.
func (c *Controller) noRewardAnswer() string {
	b := c.brain
	if c.noRewardTried == nil {
		c.noRewardTried = map[rune]bool{}
	}
	alpha := b.Alphabet()
	for _, r := range alpha {
		if !c.noRewardTried[r] {
			c.noRewardTried[r] = true
			return string(r)
		}
	}
	// exhausted the whole alphabet this cycle with no reaction; start over.
	c.noRewardTried = map[rune]bool{}
	if len(alpha) > 0 {
		c.noRewardTried[alpha[0]] = true
		return string(alpha[0])
	}
	return " "
}

// closestLogEntry returns the output of the successful-log witness whose
// input shares the most whitespace-separated tokens with input.
func (c *Controller) closestLogEntry(input string) (string, bool) {
	inWords := strings.Fields(input)
	if len(inWords) == 0 {
		return "", false
	}
	want := map[string]int{}
	for _, w := range inWords {
		want[w]++
	}

	best := ""
	bestScore := 0
	found := false
	for _, w := range c.brain.successLog.All() {
		score := 0
		for _, tok := range strings.Fields(w.Input) {
			if want[tok] > 0 {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = w.Output
			found = true
		}
	}
	if !found || bestScore == 0 {
		return "", false
	}
	return best, true
}
