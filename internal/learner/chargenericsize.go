package learner

import "strings"

// sizeIDSentinel is the identifier number used inside a GrowLeft/GrowRight
// template to mark "substitute the next grown identifier here".
const sizeIDSentinel = 0

// GenericSizeRule generalizes a char-generic rule over the length of its
// variable identifier group.
//
// Words is the base (minimal-length) input pattern split on whitespace,
// with VarWordIdx naming the single word that grows; BaseIDCount is how
// many identifiers that word has at the minimal length observed.
//
// OutWords/OutVarWordIdx describe the output the same way for the 1-to-1
// shape; OutIsWholeString is set for the 1-to-N shape, where the entire
// output (not a single whitespace token) is the thing that grows.
type GenericSizeRule struct {
	Words       []string
	VarWordIdx  int
	BaseIDCount int

	OutWords         []string
	OutVarWordIdx    int
	OutIsWholeString bool
	BaseOutput       string // used when OutIsWholeString

	GrowLeft  string
	GrowRight string
}

func allIdentifierWord(w string) bool {
	toks := tokenizePattern(w)
	if len(toks) == 0 {
		return false
	}
	for _, t := range toks {
		if !t.isID {
			return false
		}
	}
	return true
}

func setDiffSingle(bigger, smaller []int) (int, bool) {
	have := map[int]bool{}
	for _, n := range smaller {
		have[n] = true
	}
	var extra []int
	for _, n := range bigger {
		if !have[n] {
			extra = append(extra, n)
		}
	}
	if len(extra) != 1 {
		return 0, false
	}
	return extra[0], true
}

// findInputGrowth locates the single input word that grew by exactly one
// identifier between small and large, shared by both the 1-to-1 and 1-to-N
// shapes.
func findInputGrowth(small, large CharGenericRule) (words []string, varIdx, newID int, ok bool) {
	sw := strings.Fields(small.InputPattern)
	lw := strings.Fields(large.InputPattern)
	if len(sw) != len(lw) {
		return nil, 0, 0, false
	}
	diff := -1
	for i := range sw {
		if sw[i] != lw[i] {
			if diff != -1 {
				return nil, 0, 0, false
			}
			diff = i
		}
	}
	if diff == -1 {
		return nil, 0, 0, false
	}
	if !allIdentifierWord(sw[diff]) || !allIdentifierWord(lw[diff]) {
		return nil, 0, 0, false
	}
	sIDs := identsIn(sw[diff])
	lIDs := identsIn(lw[diff])
	if len(lIDs) != len(sIDs)+1 {
		return nil, 0, 0, false
	}
	id, ok := setDiffSingle(lIDs, sIDs)
	if !ok {
		return nil, 0, 0, false
	}
	return sw, diff, id, true
}

// splitGrowth finds growLeft/growRight around an occurrence of small inside
// large, and templatizes the newID occurrence found in them.
func splitGrowth(small, large string, newID int) (growLeft, growRight string, ok bool) {
	idx := strings.Index(large, small)
	if idx < 0 {
		return "", "", false
	}
	gl := large[:idx]
	gr := large[idx+len(small):]
	needle := makeIdent(newID)
	if !strings.Contains(gl, needle) && !strings.Contains(gr, needle) {
		return "", "", false
	}
	gl = strings.Replace(gl, needle, makeIdent(sizeIDSentinel), 1)
	gr = strings.Replace(gr, needle, makeIdent(sizeIDSentinel), 1)
	return gl, gr, true
}

// AbstractSizeRule1To1 induces a generic-size rule from two char-generic
// rules whose inputs differ by exactly one identifier in one all-
// identifier word, and whose outputs differ in exactly one whitespace
// token, the smaller occurring as a contiguous substring of the larger
//.
func AbstractSizeRule1To1(small, large CharGenericRule) (GenericSizeRule, bool) {
	words, varIdx, newID, ok := findInputGrowth(small, large)
	if !ok {
		return GenericSizeRule{}, false
	}

	ow := strings.Fields(small.OutputPattern)
	lw := strings.Fields(large.OutputPattern)
	if len(ow) != len(lw) {
		return GenericSizeRule{}, false
	}
	diff := -1
	for i := range ow {
		if ow[i] != lw[i] {
			if diff != -1 {
				return GenericSizeRule{}, false
			}
			diff = i
		}
	}
	if diff == -1 {
		return GenericSizeRule{}, false
	}

	gl, gr, ok := splitGrowth(ow[diff], lw[diff], newID)
	if !ok {
		return GenericSizeRule{}, false
	}

	return GenericSizeRule{
		Words:       words,
		VarWordIdx:  varIdx,
		BaseIDCount: len(identsIn(words[varIdx])),

		OutWords:      ow,
		OutVarWordIdx: diff,

		GrowLeft:  gl,
		GrowRight: gr,
	}, true
}

// AbstractSizeRule1ToN is the 1-to-N generic-size shape: the input grows
// the same way, but the output is compared and grown as a whole string
// rather than split into whitespace tokens.
func AbstractSizeRule1ToN(small, large CharGenericRule) (GenericSizeRule, bool) {
	words, varIdx, newID, ok := findInputGrowth(small, large)
	if !ok {
		return GenericSizeRule{}, false
	}

	gl, gr, ok := splitGrowth(small.OutputPattern, large.OutputPattern, newID)
	if !ok {
		return GenericSizeRule{}, false
	}

	return GenericSizeRule{
		Words:       words,
		VarWordIdx:  varIdx,
		BaseIDCount: len(identsIn(words[varIdx])),

		OutIsWholeString: true,
		BaseOutput:       small.OutputPattern,

		GrowLeft:  gl,
		GrowRight: gr,
	}, true
}

// expand grows the rule's base input/output pattern to the given
// identifier count k and returns a concrete CharGenericRule ready for the
// ordinary char-generic matcher.
func (r GenericSizeRule) expand(k int) (CharGenericRule, bool) {
	if k < r.BaseIDCount {
		return CharGenericRule{}, false
	}

	var varWord strings.Builder
	for i := 1; i <= k; i++ {
		varWord.WriteString(makeIdent(i))
	}
	inWords := append([]string(nil), r.Words...)
	inWords[r.VarWordIdx] = varWord.String()

	sentinel := makeIdent(sizeIDSentinel)

	if r.OutIsWholeString {
		out := r.BaseOutput
		for step := r.BaseIDCount + 1; step <= k; step++ {
			gl := strings.Replace(r.GrowLeft, sentinel, makeIdent(step), 1)
			gr := strings.Replace(r.GrowRight, sentinel, makeIdent(step), 1)
			out = gl + out + gr
		}
		return CharGenericRule{
			InputPattern:  strings.Join(inWords, " "),
			OutputPattern: out,
		}, true
	}

	outWord := r.OutWords[r.OutVarWordIdx]
	for step := r.BaseIDCount + 1; step <= k; step++ {
		gl := strings.Replace(r.GrowLeft, sentinel, makeIdent(step), 1)
		gr := strings.Replace(r.GrowRight, sentinel, makeIdent(step), 1)
		outWord = gl + outWord + gr
	}
	outWords := append([]string(nil), r.OutWords...)
	outWords[r.OutVarWordIdx] = outWord

	return CharGenericRule{
		InputPattern:  strings.Join(inWords, " "),
		OutputPattern: strings.Join(outWords, " "),
	}, true
}

// GenericSizeStore holds generic-size rules, keyed by the pair of
// char-generic rules they were induced from so the controller can delete the
// matching size rule when either originating char-generic rule is deleted.
type GenericSizeStore struct {
	rules map[string]GenericSizeRule // keyed by "small.InputPattern->large.InputPattern"
	order []string
}

func NewGenericSizeStore() *GenericSizeStore {
	return &GenericSizeStore{rules: map[string]GenericSizeRule{}}
}

// Add registers a size rule under key (the controller uses
// "small->large" input patterns of the two char-generic rules it grows from).
func (s *GenericSizeStore) Add(key string, r GenericSizeRule) {
	if _, exists := s.rules[key]; !exists {
		s.order = append(s.order, key)
	}
	s.rules[key] = r
}

// Remove deletes the size rule keyed by key, if any.
func (s *GenericSizeStore) Remove(key string) {
	if _, ok := s.rules[key]; !ok {
		return
	}
	delete(s.rules, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// RemoveRelatedTo deletes every size rule that was induced from pattern,
// whether as the small or the large char-generic witness (the key is
// "small->large"). Used by the task-switch arbiter's soft remediation,
// which deletes a contradicted char-generic rule "and a matching size
// rule".
func (s *GenericSizeStore) RemoveRelatedTo(pattern string) {
	var keep []string
	for _, key := range s.order {
		if strings.HasPrefix(key, pattern+"->") || strings.HasSuffix(key, "->"+pattern) {
			delete(s.rules, key)
			continue
		}
		keep = append(keep, key)
	}
	s.order = keep
}

// ApplyExact tries every size rule (in insertion order) by expanding it to
// the character count of input's variable word and running the ordinary
// char-generic matcher against the expansion.
func (s *GenericSizeStore) ApplyExact(input string) (string, bool) {
	out, _, ok := s.ApplyExactKeyed(input)
	return out, ok
}

// ApplyExactKeyed is ApplyExact but also reports the store key of the size
// rule that matched, so the controller can track provenance for the
// task-switch arbiter's soft remediation.
func (s *GenericSizeStore) ApplyExactKeyed(input string) (output, key string, ok bool) {
	words := strings.Fields(input)
	for _, k := range s.order {
		r := s.rules[k]
		if r.VarWordIdx >= len(words) || len(words) != len(r.Words) {
			continue
		}
		n := len([]rune(words[r.VarWordIdx]))
		expanded, expOk := r.expand(n)
		if !expOk {
			continue
		}
		if bind, matched := sentenceMatchesPattern(expanded.InputPattern, input); matched {
			return applyCharRule(expanded.OutputPattern, bind), k, true
		}
	}
	return "", "", false
}
