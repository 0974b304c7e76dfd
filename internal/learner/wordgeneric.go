package learner

import (
	"strings"
	"unicode/utf8"
)

// WordGenericRule is a per-word generalization: each identifier
// placeholder in InputPattern stands for exactly one bound whole word; a
// placeholder in OutputPattern may appear alone (a word copied verbatim) or
// concatenated with literal text and other placeholders to build a
// compound output word.
type WordGenericRule struct {
	InputPattern  string
	OutputPattern string
}

func (r WordGenericRule) numIdents() int { return len(identsIn(r.InputPattern)) }

// WordGenericStore holds word-generic rules in insertion order.
type WordGenericStore struct {
	rules []WordGenericRule
}

func NewWordGenericStore() *WordGenericStore { return &WordGenericStore{} }

func (s *WordGenericStore) Rules() []WordGenericRule { return s.rules }

func (s *WordGenericStore) Remove(r WordGenericRule) {
	for i, existing := range s.rules {
		if existing.InputPattern == r.InputPattern && existing.OutputPattern == r.OutputPattern {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

// wordBind binds an identifier number to a whole word.
type wordBind map[int]string

// wordPatternMatches matches a word-generic input pattern against input,
// word for word: a literal pattern word must equal the input word exactly;
// an identifier pattern word binds to (and must stay consistent with) the
// whole input word at that position.
func wordPatternMatches(pattern, input string) (wordBind, bool) {
	pw := strings.Fields(pattern)
	iw := strings.Fields(input)
	if len(pw) != len(iw) {
		return nil, false
	}
	bind := wordBind{}
	for i, w := range pw {
		toks := tokenizePattern(w)
		if len(toks) == 1 && toks[0].isID {
			id := toks[0].id
			if existing, ok := bind[id]; ok {
				if existing != iw[i] {
					return nil, false
				}
			} else {
				bind[id] = iw[i]
			}
			continue
		}
		if w != iw[i] {
			return nil, false
		}
	}
	return bind, true
}

// applyWordRule substitutes bound words into pattern. Identifier tokens are
// replaced by the whole bound word (not a single rune); literal tokens are
// copied rune for rune, so a compound output word's literal fragments
// reconstruct exactly.
func applyWordRule(pattern string, bind wordBind) string {
	var sb strings.Builder
	for _, t := range tokenizePattern(pattern) {
		if t.isID {
			sb.WriteString(bind[t.id])
		} else {
			sb.WriteRune(t.literal)
		}
	}
	return sb.String()
}

func (s *WordGenericStore) ApplyExact(input string) (string, bool) {
	for _, r := range s.rules {
		if bind, ok := wordPatternMatches(r.InputPattern, input); ok {
			return applyWordRule(r.OutputPattern, bind), true
		}
	}
	return "", false
}

func (s *WordGenericStore) MatchingRule(input string) (WordGenericRule, wordBind, bool) {
	for _, r := range s.rules {
		if bind, ok := wordPatternMatches(r.InputPattern, input); ok {
			return r, bind, true
		}
	}
	return WordGenericRule{}, nil, false
}

// ApplyCompound mirrors CharGenericStore.ApplyCompound: greedily matches a
// prefix of input's words against a whole rule and recurses on the rest.
func (s *WordGenericStore) ApplyCompound(input string) (string, bool) {
	words := strings.Fields(input)
	if len(words) == 0 {
		return "", false
	}
	for n := len(words); n >= 1; n-- {
		prefix := strings.Join(words[:n], " ")
		if out, ok := s.ApplyExact(prefix); ok {
			if n == len(words) {
				return out, true
			}
			rest := strings.Join(words[n:], " ")
			if restOut, ok := s.ApplyCompound(rest); ok {
				return out + " " + restOut, true
			}
		}
	}
	return "", false
}

// ApplyClosest scores rules by fraction of words matched (literal or
// identifier), mirroring CharGenericStore.ApplyClosest at word granularity.
func (s *WordGenericStore) ApplyClosest(input string) (string, bool) {
	inWords := strings.Fields(input)
	var best WordGenericRule
	var bestBind wordBind
	bestScore := 0.0
	found := false

	for _, r := range s.rules {
		patWords := strings.Fields(r.InputPattern)
		if len(patWords) == 0 {
			continue
		}
		score := 0.0
		bind := wordBind{}
		share := 1.0 / float64(len(patWords))
		for i, pw := range patWords {
			if i >= len(inWords) {
				continue
			}
			toks := tokenizePattern(pw)
			if len(toks) == 1 && toks[0].isID {
				id := toks[0].id
				if existing, ok := bind[id]; ok {
					if existing == inWords[i] {
						score += share
					}
				} else {
					bind[id] = inWords[i]
					score += share
				}
			} else if pw == inWords[i] {
				score += share
			}
		}
		if score > bestScore {
			bestScore = score
			best = r
			bestBind = bind
			found = true
		}
	}

	if !found || bestScore <= 0 {
		return "", false
	}
	return applyWordRule(best.OutputPattern, bestBind), true
}

type wgPiece struct {
	isID    bool
	id      int
	literal string
}

// decomposeCompoundWord recursively splits the (s1, s2) witness pair for a
// single output word into a shared sequence of pieces: each piece is either
// a whole variable input word (consistent in both witnesses) or a run of
// literal text identical in both witnesses. Candidate
// variable words are tried longest-witness-1-value first so a long word is
// preferred over one of its own substrings.
func decomposeCompoundWord(s1, s2 string, varIdx []int, w1, w2 []string, wordID map[int]int) ([]wgPiece, bool) {
	if s1 == "" && s2 == "" {
		return nil, true
	}

	order := append([]int(nil), varIdx...)
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && len(w1[order[j]]) > len(w1[order[j-1]]) {
			order[j], order[j-1] = order[j-1], order[j]
			j--
		}
	}

	for _, vi := range order {
		v1, v2 := w1[vi], w2[vi]
		if v1 == "" || v2 == "" {
			continue
		}
		if strings.HasPrefix(s1, v1) && strings.HasPrefix(s2, v2) {
			rest, ok := decomposeCompoundWord(s1[len(v1):], s2[len(v2):], varIdx, w1, w2, wordID)
			if ok {
				return append([]wgPiece{{isID: true, id: wordID[vi]}}, rest...), true
			}
		}
	}

	if s1 != "" && s2 != "" {
		r1, sz1 := utf8.DecodeRuneInString(s1)
		r2, sz2 := utf8.DecodeRuneInString(s2)
		if r1 == r2 {
			rest, ok := decomposeCompoundWord(s1[sz1:], s2[sz2:], varIdx, w1, w2, wordID)
			if ok {
				if len(rest) > 0 && !rest[0].isID {
					rest[0].literal = string(r1) + rest[0].literal
					return rest, true
				}
				return append([]wgPiece{{literal: string(r1)}}, rest...), true
			}
		}
	}

	return nil, false
}

func renderPieces(pieces []wgPiece) string {
	var sb strings.Builder
	for _, p := range pieces {
		if p.isID {
			sb.WriteString(makeIdent(p.id))
		} else {
			sb.WriteString(p.literal)
		}
	}
	return sb.String()
}

// abstractWordGenericRule implements AbstractGenericRule + AbstractRepeated
// Elements: induce a word-generic rule from two witnesses.
func abstractWordGenericRule(i1, o1, i2, o2 string, end rune) (WordGenericRule, bool) {
	endStr := ""
	if end != 0 {
		endStr = string(end)
	}
	i1 = trimTrailing(i1, endStr)
	i2 = trimTrailing(i2, endStr)
	o1 = trimTrailing(o1, endStr)
	o2 = trimTrailing(o2, endStr)

	w1, w2 := strings.Fields(i1), strings.Fields(i2)
	if len(w1) != len(w2) || len(w1) == 0 {
		return WordGenericRule{}, false
	}

	vec, anyVar := variability(w1, w2)
	if !anyVar {
		return WordGenericRule{}, false
	}

	var varIdx []int
	for i, c := range vec {
		if c == 'V' {
			varIdx = append(varIdx, i)
		}
	}

	ow1, ow2 := strings.Fields(o1), strings.Fields(o2)
	if len(ow1) != len(ow2) {
		return WordGenericRule{}, false
	}

	wordID := map[int]int{}
	nextID := 1
	for _, vi := range varIdx {
		wordID[vi] = nextID
		nextID++
	}

	outWords := make([]string, len(ow1))
	for ow := range ow1 {
		if ow1[ow] == ow2[ow] {
			outWords[ow] = ow1[ow]
			continue
		}
		pieces, ok := decomposeCompoundWord(ow1[ow], ow2[ow], varIdx, w1, w2, wordID)
		if !ok {
			return WordGenericRule{}, false
		}
		outWords[ow] = renderPieces(pieces)
	}

	varSet := map[int]bool{}
	for _, vi := range varIdx {
		varSet[vi] = true
	}
	inWords := make([]string, len(w1))
	for i := range w1 {
		if varSet[i] {
			inWords[i] = makeIdent(wordID[i])
		} else {
			inWords[i] = w1[i]
		}
	}

	rule := WordGenericRule{
		InputPattern:  strings.Join(inWords, " "),
		OutputPattern: strings.Join(outWords, " "),
	}
	if !identSubset(rule.InputPattern, rule.OutputPattern) {
		return WordGenericRule{}, false
	}
	return rule, true
}

func validateEquivalentWordPatterns(a, b WordGenericRule) (WordGenericRule, bool) {
	if a.InputPattern == b.InputPattern {
		return a, true
	}
	aGeneralizesB := wordRuleGeneralizes(a, b)
	bGeneralizesA := wordRuleGeneralizes(b, a)
	if !aGeneralizesB && !bGeneralizesA {
		return WordGenericRule{}, false
	}
	if a.numIdents() >= b.numIdents() {
		return a, true
	}
	return b, true
}

func wordRuleGeneralizes(general, specific WordGenericRule) bool {
	bind, ok := wordPatternMatches(general.InputPattern, specific.InputPattern)
	if !ok {
		return false
	}
	return applyWordRule(general.OutputPattern, bind) == specific.OutputPattern
}

// Induct mirrors CharGenericStore.Induct at word granularity.
func (s *WordGenericStore) Induct(input, output string, log *successLog, end rune) (WordGenericRule, bool) {
	var winner WordGenericRule
	haveWinner := false

	for _, w := range log.All() {
		if w.Input == input && w.Output == output {
			continue
		}
		cand, ok := abstractWordGenericRule(input, output, w.Input, w.Output, end)
		if !ok {
			continue
		}
		if !haveWinner {
			winner = cand
			haveWinner = true
			continue
		}
		merged, ok := validateEquivalentWordPatterns(winner, cand)
		if !ok {
			continue
		}
		winner = merged
	}

	if !haveWinner {
		return WordGenericRule{}, false
	}
	for _, existing := range s.rules {
		if existing.InputPattern == winner.InputPattern && existing.OutputPattern == winner.OutputPattern {
			return WordGenericRule{}, false
		}
	}
	s.rules = append(s.rules, winner)
	return winner, true
}
