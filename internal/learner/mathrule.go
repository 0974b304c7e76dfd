package learner

import (
	"math"
	"regexp"
	"strings"
)

// mathTokenPattern splits a string into runs of digits/letters (candidate
// numeric operands, rendered in some base) and runs of symbols, with a
// leading '-' kept attached to an immediately following digit run so a
// negative literal tokenizes as one token. The teacher's ictiobus/lex
// engine was considered for this and found to have a genuine infinite-loop
// bug in its Next() method, so this tokenizer is a small hand-rolled one
// built directly on regexp instead of adapting it.
var mathTokenPattern = regexp.MustCompile(`-?[0-9A-Za-z]+|[^0-9A-Za-z]`)

type mathToken struct {
	text     string
	alphaNum bool // true for a digit/letter run (a candidate operand)
}

func tokenizeMath(s string) []mathToken {
	raw := mathTokenPattern.FindAllString(s, -1)
	toks := make([]mathToken, 0, len(raw))
	for _, r := range raw {
		body := r
		if strings.HasPrefix(body, "-") {
			body = body[1:]
		}
		alphaNum := body != "" && isAllAlnum(body)
		toks = append(toks, mathToken{text: r, alphaNum: alphaNum})
	}
	return toks
}

func isAllAlnum(s string) bool {
	for _, r := range s {
		if !isAlnum(r) {
			return false
		}
	}
	return true
}

// MathRule is a base-aware arithmetic rule:
// exactly two variable operand tokens in the input, one variable operand
// token in the output, every other token held constant.
type MathRule struct {
	InputTokens  []string // literal tokens, with the two variable ones as "" placeholders
	VarInIdx1    int
	VarInIdx2    int
	OutputTokens []string // literal tokens, with the one variable one as "" placeholder
	VarOutIdx    int

	Op       byte // '+', '-', '*', '/'
	BaseIn1  int
	BaseIn2  int
	BaseOut  int
}

// MathRuleStore holds math rules in insertion order.
type MathRuleStore struct {
	rules []MathRule
}

func NewMathRuleStore() *MathRuleStore { return &MathRuleStore{} }

func (s *MathRuleStore) Rules() []MathRule { return s.rules }

func (s *MathRuleStore) Remove(r MathRule) {
	for i, existing := range s.rules {
		if sameMathRule(existing, r) {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

func sameMathRule(a, b MathRule) bool {
	if len(a.InputTokens) != len(b.InputTokens) || len(a.OutputTokens) != len(b.OutputTokens) {
		return false
	}
	for i := range a.InputTokens {
		if a.InputTokens[i] != b.InputTokens[i] {
			return false
		}
	}
	for i := range a.OutputTokens {
		if a.OutputTokens[i] != b.OutputTokens[i] {
			return false
		}
	}
	return a.Op == b.Op && a.BaseIn1 == b.BaseIn1 && a.BaseIn2 == b.BaseIn2 && a.BaseOut == b.BaseOut
}

var digitValue = map[rune]int{}

func init() {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	for i, r := range digits {
		digitValue[r] = i
	}
}

func parseInBase(s string, base int) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	var v int64
	for _, r := range strings.ToLower(s) {
		d, ok := digitValue[r]
		if !ok || d >= base {
			return 0, false
		}
		v = v*int64(base) + int64(d)
		if v > 1<<31 {
			return 0, false // overflow guard, 32-bit signed domain
		}
	}
	if neg {
		v = -v
	}
	if v > math.MaxInt32 {
		return 0, false
	}
	return v, true
}

func formatInBase(v int64, base int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var sb []byte
	for v > 0 {
		sb = append([]byte{digits[v%int64(base)]}, sb...)
		v /= int64(base)
	}
	if neg {
		sb = append([]byte{'-'}, sb...)
	}
	return string(sb)
}

var candidateBases = []int{2, 8, 10, 16}
var candidateOps = []byte{'+', '-', '*', '/'}

func applyOp(op byte, a, b int64) (int64, bool) {
	switch op {
	case '+':
		r := a + b
		if r > math.MaxInt32 || r < math.MinInt32 {
			return 0, false
		}
		return r, true
	case '-':
		r := a - b
		if r > math.MaxInt32 || r < math.MinInt32 {
			return 0, false
		}
		return r, true
	case '*':
		r := a * b
		if r > math.MaxInt32 || r < math.MinInt32 {
			return 0, false
		}
		return r, true
	case '/':
		if b == 0 {
			return 0, false
		}
		r := a / b
		if r > math.MaxInt32 || r < math.MinInt32 {
			return 0, false
		}
		return r, true
	}
	return 0, false
}

// DetermineOperation tries every (op, operand base, result base) combination
// that reproduces out from in1, in2, both operands read in the same candidate
// base, and returns the unique combination found (b1 and b2 are always that
// one operand base). Ambiguous witnesses (more than one combination fits) or
// no fit at all yield false.
func DetermineOperation(in1, in2, out string) (op byte, b1, b2, bOut int, ok bool) {
	type hit struct {
		op           byte
		b1, b2, bOut int
	}
	var hits []hit
	for _, o := range candidateOps {
		for _, base1 := range candidateBases {
			v1, ok1 := parseInBase(in1, base1)
			if !ok1 {
				continue
			}
			for _, base2 := range candidateBases {
				if base2 != base1 {
					continue
				}
				v2, ok2 := parseInBase(in2, base2)
				if !ok2 {
					continue
				}
				result, okOp := applyOp(o, v1, v2)
				if !okOp {
					continue
				}
				for _, baseOut := range candidateBases {
					if formatInBase(result, baseOut) == out {
						hits = append(hits, hit{o, base1, base2, baseOut})
					}
				}
			}
		}
	}
	if len(hits) != 1 {
		return 0, 0, 0, 0, false
	}
	h := hits[0]
	return h.op, h.b1, h.b2, h.bOut, true
}

// AbstractMathRule implements the math-rule induction: tokenize both witnesses,
// require exactly two input tokens and one output token to vary (all else
// held constant, same literal tokens at the same positions), and solve for
// a single unambiguous arithmetic operation across them.
func AbstractMathRule(i1, o1, i2, o2 string) (MathRule, bool) {
	t1 := tokenizeMath(i1)
	t2 := tokenizeMath(i2)
	if len(t1) != len(t2) {
		return MathRule{}, false
	}

	var varIn []int
	for i := range t1 {
		if t1[i].text != t2[i].text {
			if !t1[i].alphaNum || !t2[i].alphaNum {
				return MathRule{}, false
			}
			varIn = append(varIn, i)
		}
	}
	if len(varIn) != 2 {
		return MathRule{}, false
	}

	ot1 := tokenizeMath(o1)
	ot2 := tokenizeMath(o2)
	if len(ot1) != len(ot2) {
		return MathRule{}, false
	}
	var varOut []int
	for i := range ot1 {
		if ot1[i].text != ot2[i].text {
			if !ot1[i].alphaNum || !ot2[i].alphaNum {
				return MathRule{}, false
			}
			varOut = append(varOut, i)
		}
	}
	if len(varOut) != 1 {
		return MathRule{}, false
	}

	in1a, in1b := t1[varIn[0]].text, t1[varIn[1]].text
	in2a, in2b := t2[varIn[0]].text, t2[varIn[1]].text
	out1, out2 := ot1[varOut[0]].text, ot2[varOut[0]].text

	op, b1, b2, bOut, ok := DetermineOperation(in1a, in1b, out1)
	if !ok {
		return MathRule{}, false
	}
	// cross-validate against the second witness using the same combination.
	v1, ok1 := parseInBase(in2a, b1)
	v2, ok2 := parseInBase(in2b, b2)
	if !ok1 || !ok2 {
		return MathRule{}, false
	}
	result, okOp := applyOp(op, v1, v2)
	if !okOp || formatInBase(result, bOut) != out2 {
		return MathRule{}, false
	}

	inTokens := make([]string, len(t1))
	for i, t := range t1 {
		inTokens[i] = t.text
	}
	inTokens[varIn[0]] = ""
	inTokens[varIn[1]] = ""

	outTokens := make([]string, len(ot1))
	for i, t := range ot1 {
		outTokens[i] = t.text
	}
	outTokens[varOut[0]] = ""

	return MathRule{
		InputTokens:  inTokens,
		VarInIdx1:    varIn[0],
		VarInIdx2:    varIn[1],
		OutputTokens: outTokens,
		VarOutIdx:    varOut[0],
		Op:           op,
		BaseIn1:      b1,
		BaseIn2:      b2,
		BaseOut:      bOut,
	}, true
}

// matches reports whether input's literal tokens line up with the rule and
// returns the two bound operand strings.
func (r MathRule) matches(input string) (a, b string, ok bool) {
	toks := tokenizeMath(input)
	if len(toks) != len(r.InputTokens) {
		return "", "", false
	}
	for i, lit := range r.InputTokens {
		if i == r.VarInIdx1 || i == r.VarInIdx2 {
			continue
		}
		if toks[i].text != lit {
			return "", "", false
		}
	}
	return toks[r.VarInIdx1].text, toks[r.VarInIdx2].text, true
}

// evaluate parses input against the rule's literal tokens and returns the
// raw arithmetic result, without formatting it in any base.
func (r MathRule) evaluate(input string) (int64, bool) {
	a, b, ok := r.matches(input)
	if !ok {
		return 0, false
	}
	va, ok1 := parseInBase(a, r.BaseIn1)
	vb, ok2 := parseInBase(b, r.BaseIn2)
	if !ok1 || !ok2 {
		return 0, false
	}
	return applyOp(r.Op, va, vb)
}

// applyFormatted evaluates the rule against input and renders the result in
// base instead of the rule's own declared result base - used by
// ApplyCompoundRollingRule to keep intermediate fold results in the
// operand base so the next fold step can parse them back as an operand.
func (r MathRule) applyFormatted(input string, base int) (string, bool) {
	result, ok := r.evaluate(input)
	if !ok {
		return "", false
	}
	rendered := formatInBase(result, base)

	var sb strings.Builder
	for i, lit := range r.OutputTokens {
		if i == r.VarOutIdx {
			sb.WriteString(rendered)
		} else {
			sb.WriteString(lit)
		}
	}
	return sb.String(), true
}

// Apply evaluates the rule against input, returning the rendered output
// string with its single variable token filled in, formatted in the
// rule's declared result base.
func (r MathRule) Apply(input string) (string, bool) {
	return r.applyFormatted(input, r.BaseOut)
}

func (s *MathRuleStore) ApplyExact(input string) (string, bool) {
	for _, r := range s.rules {
		if out, ok := r.Apply(input); ok {
			return out, true
		}
	}
	return "", false
}

// applyFolding tries every rule against probe in insertion order, like
// ApplyExact, but renders a non-final fold step in the matching rule's
// first-operand base rather than its result base, so the rendered string
// is one the same rule (or another consuming the same operand position)
// can parse back as an operand on the next fold step.
func (s *MathRuleStore) applyFolding(probe string, final bool) (string, bool) {
	for _, r := range s.rules {
		base := r.BaseIn1
		if final {
			base = r.BaseOut
		}
		if out, ok := r.applyFormatted(probe, base); ok {
			return out, true
		}
	}
	return "", false
}

// ApplyCompoundRollingRule chains a rule against a run of tokens joined by
// a shared binary operator symbol, e.g. "a+b+c" folded left to right one
// pair at a time: every intermediate accumulator is rendered in the
// operand base so the next fold step can consume it, and only the final
// accumulator is rendered in the result base.
func (s *MathRuleStore) ApplyCompoundRollingRule(input string) (string, bool) {
	toks := tokenizeMath(input)
	var operands []string
	var opSym string
	for _, t := range toks {
		if t.alphaNum {
			operands = append(operands, t.text)
		} else if opSym == "" {
			opSym = t.text
		} else if t.text != opSym {
			return "", false
		}
	}
	if len(operands) < 3 || opSym == "" {
		return "", false
	}

	acc := operands[0]
	for i := 1; i < len(operands); i++ {
		probe := acc + opSym + operands[i]
		final := i == len(operands)-1
		out, ok := s.applyFolding(probe, final)
		if !ok {
			return "", false
		}
		acc = out
	}
	return acc, true
}

// Induct runs AbstractMathRule against every witness in log and keeps the
// first witness that produces a rule not already present, cross-validated
// (like the other generic families) by requiring the candidate to also
// reproduce every other witness it structurally matches.
func (s *MathRuleStore) Induct(input, output string, log *successLog) (MathRule, bool) {
	for _, w := range log.All() {
		if w.Input == input && w.Output == output {
			continue
		}
		cand, ok := AbstractMathRule(input, output, w.Input, w.Output)
		if !ok {
			continue
		}
		consistent := true
		for _, other := range log.All() {
			if a, b, ok := cand.matches(other.Input); ok {
				_ = a
				_ = b
				if out, ok := cand.Apply(other.Input); ok && out != other.Output {
					consistent = false
					break
				}
			}
		}
		if !consistent {
			continue
		}
		dup := false
		for _, existing := range s.rules {
			if sameMathRule(existing, cand) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		s.rules = append(s.rules, cand)
		return cand, true
	}
	return MathRule{}, false
}
