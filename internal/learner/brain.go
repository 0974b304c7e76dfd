package learner

import "github.com/dekarrin/parrot/internal/util"

// Brain is the full learning state for one agent: the framing
// syntax, every rule family, the successful-log they induce from, and the
// append-only alphabet of characters ever seen, used as a last-resort
// output source.
type Brain struct {
	Stream *Stream
	Syntax *Syntax

	Mapping     *MappingStore
	CharGeneric *CharGenericStore
	WordGeneric *WordGenericStore
	GenericSize *GenericSizeStore
	MathRules   *MathRuleStore
	successLog  *successLog

	alphabet   []rune
	alphabetOf util.Set[rune]

	lastOutput string
}

// NewBrain returns a freshly initialized Brain with an undiscovered syntax.
func NewBrain() *Brain {
	return NewBrainWithLimits(0, 0, 0)
}

// NewBrainWithLimits is NewBrain with the rolling-buffer and success-log
// bounds overridden. A zero value for any limit keeps its default.
func NewBrainWithLimits(maxStreamChars, rollingTrimTo, maxLogEntries int) *Brain {
	sx := NewSyntax()
	return &Brain{
		Stream:      NewStreamWithLimits(sx, maxStreamChars, rollingTrimTo),
		Syntax:      sx,
		Mapping:     NewMappingStore(),
		CharGeneric: NewCharGenericStore(),
		WordGeneric: NewWordGenericStore(),
		GenericSize: NewGenericSizeStore(),
		MathRules:   NewMathRuleStore(),
		successLog:  newSuccessLogWithCapacity(maxLogEntries),
		alphabetOf:  util.NewSet[rune](),
	}
}

// ObserveAlphabet records c in the append-only alphabet if new.
func (b *Brain) ObserveAlphabet(c rune) {
	if b.alphabetOf.Has(c) {
		return
	}
	b.alphabetOf.Add(c)
	b.alphabet = append(b.alphabet, c)
}

// Alphabet returns every character ever seen, in first-seen order.
func (b *Brain) Alphabet() []rune {
	return append([]rune(nil), b.alphabet...)
}

// RecordSuccess appends (input, output) to the successful-log that feeds
// generic-rule induction. It does not itself run induction; the controller
// decides when induction is worth attempting.
func (b *Brain) RecordSuccess(input, output string) {
	b.successLog.Append(input, output)
}

// SuccessLogLen reports how many distinct successful pairs are on record.
func (b *Brain) SuccessLogLen() int {
	return b.successLog.Len()
}

// NewTask resets per-task state: the mapping rules and the framing syntax,
// optionally preserving already-discovered delimiters, while leaving every
// generic rule family and the successful-log untouched, since those are
// cross-task structures by design.
func (b *Brain) NewTask(copyDelimiters bool) {
	b.Mapping = NewMappingStore()
	b.Syntax.Reset(copyDelimiters)
	b.Stream.ResetForNewSyntax()
}
