package learner

import "strings"

// CharGenericRule is a per-character generalization: each
// identifier placeholder in InputPattern and OutputPattern stands for
// exactly one bound character.
type CharGenericRule struct {
	InputPattern  string
	OutputPattern string
}

// numIdents returns how many distinct identifiers the rule's input pattern
// binds - used to pick the more specific of two cross-validating
// candidates.
func (r CharGenericRule) numIdents() int {
	return len(identsIn(r.InputPattern))
}

// CharGenericStore holds char-generic rules in insertion order. Insertion
// order is load-bearing: application always returns the first match.
type CharGenericStore struct {
	rules []CharGenericRule
}

func NewCharGenericStore() *CharGenericStore { return &CharGenericStore{} }

// Rules returns the rules currently held, in insertion order.
func (s *CharGenericStore) Rules() []CharGenericRule { return s.rules }

// Remove deletes the rule with the given patterns, if present.
func (s *CharGenericStore) Remove(r CharGenericRule) {
	for i, existing := range s.rules {
		if existing.InputPattern == r.InputPattern && existing.OutputPattern == r.OutputPattern {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

// charBind binds an identifier number to a single rune.
type charBind map[int]rune

// sentenceMatchesPattern walks pattern and input rune-for-token: a literal
// token must equal the corresponding input rune; an identifier token binds
// to the corresponding input rune on first sight and must equal it on
// subsequent sightings.
func sentenceMatchesPattern(pattern, input string) (charBind, bool) {
	ptoks := tokenizePattern(pattern)
	irunes := []rune(input)
	if len(ptoks) != len(irunes) {
		return nil, false
	}
	bind := charBind{}
	for i, t := range ptoks {
		if t.isID {
			if existing, ok := bind[t.id]; ok {
				if existing != irunes[i] {
					return nil, false
				}
			} else {
				bind[t.id] = irunes[i]
			}
		} else if t.literal != irunes[i] {
			return nil, false
		}
	}
	return bind, true
}

// applyCharRule substitutes bound characters into pattern.
func applyCharRule(pattern string, bind charBind) string {
	var sb strings.Builder
	for _, t := range tokenizePattern(pattern) {
		if t.isID {
			sb.WriteRune(bind[t.id])
		} else {
			sb.WriteRune(t.literal)
		}
	}
	return sb.String()
}

// ApplyExact tries every rule against input in insertion order and returns
// the output of the first one whose input pattern matches.
func (s *CharGenericStore) ApplyExact(input string) (output string, ok bool) {
	for _, r := range s.rules {
		if bind, matched := sentenceMatchesPattern(r.InputPattern, input); matched {
			return applyCharRule(r.OutputPattern, bind), true
		}
	}
	return "", false
}

// MatchingRule returns the first rule whose input pattern matches input,
// and the binding it produced.
func (s *CharGenericStore) MatchingRule(input string) (CharGenericRule, charBind, bool) {
	for _, r := range s.rules {
		if bind, matched := sentenceMatchesPattern(r.InputPattern, input); matched {
			return r, bind, true
		}
	}
	return CharGenericRule{}, nil, false
}

// ApplyCompound greedily matches a prefix subset of input's whitespace
// tokens against any rule, recursively applies the remainder, and
// concatenates outputs with a space separator.
func (s *CharGenericStore) ApplyCompound(input string) (string, bool) {
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

// ApplyClosest scores every rule by fractional match and returns the
// output of the highest-scoring nonzero rule: each literal word is worth 1/|patternWords|, and each
// identifier character within a variable word is worth that slice divided
// further by the word's character count.
func (s *CharGenericStore) ApplyClosest(input string) (string, bool) {
	inWords := strings.Fields(input)
	var best CharGenericRule
	var bestBind charBind
	bestScore := 0.0
	found := false

	for _, r := range s.rules {
		patWords := strings.Fields(r.InputPattern)
		if len(patWords) == 0 {
			continue
		}
		score := 0.0
		bind := charBind{}
		ok := true
		wordShare := 1.0 / float64(len(patWords))
		for i, pw := range patWords {
			if i >= len(inWords) {
				ok = false
				break
			}
			toks := tokenizePattern(pw)
			iw := []rune(inWords[i])
			if len(toks) != len(iw) {
				continue
			}
			allLiteralMatch := true
			charShare := wordShare / float64(len(toks))
			for j, t := range toks {
				if t.isID {
					if existing, has := bind[t.id]; has {
						if existing != iw[j] {
							allLiteralMatch = false
							break
						}
					} else {
						bind[t.id] = iw[j]
					}
					score += charShare
				} else if t.literal == iw[j] {
					score += charShare
				} else {
					allLiteralMatch = false
					break
				}
			}
			if !allLiteralMatch {
				continue
			}
		}
		if !ok {
			continue
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
	return applyCharRule(best.OutputPattern, bestBind), true
}

// abstractCharGenericRule implements AbstractGenericRule + AbstractRepeated
// Chars: induce a char-generic rule from two witnesses.
func abstractCharGenericRule(i1, o1, i2, o2 string, end rune) (CharGenericRule, bool) {
	endStr := ""
	if end != 0 {
		endStr = string(end)
	}
	i1 = trimTrailing(i1, endStr)
	i2 = trimTrailing(i2, endStr)
	o1 = trimTrailing(o1, endStr)
	o2 = trimTrailing(o2, endStr)

	w1, w2 := strings.Fields(i1), strings.Fields(i2)
	if len(w1) != len(w2) {
		return CharGenericRule{}, false
	}
	if !strings.Contains(i1, " ") || !strings.Contains(i2, " ") {
		return CharGenericRule{}, false
	}
	if len(i1) < 3 || len(i2) < 3 {
		return CharGenericRule{}, false
	}

	vec, anyVar := variability(w1, w2)
	if !anyVar {
		return CharGenericRule{}, false
	}

	var varIdx []int
	for i, c := range vec {
		if c == 'V' {
			if len([]rune(w1[i])) != len([]rune(w2[i])) {
				return CharGenericRule{}, false
			}
			varIdx = append(varIdx, i)
		}
	}

	ow1, ow2 := strings.Fields(o1), strings.Fields(o2)
	if len(ow1) != len(ow2) {
		return CharGenericRule{}, false
	}
	for i := range ow1 {
		if len([]rune(ow1[i])) != len([]rune(ow2[i])) {
			return CharGenericRule{}, false
		}
	}

	type pos struct{ vi, p int }
	posID := map[pos]int{}
	charID := map[[2]rune]int{}
	nextID := 1

	outIDs := make([][]int, len(ow1))
	for ow := range ow1 {
		cs1 := []rune(ow1[ow])
		cs2 := []rune(ow2[ow])
		outIDs[ow] = make([]int, len(cs1))
		for cp := range cs1 {
			key := [2]rune{cs1[cp], cs2[cp]}
			if id, ok := charID[key]; ok {
				outIDs[ow][cp] = id
				continue
			}
			var matches []pos
			for _, vi := range varIdx {
				r1 := []rune(w1[vi])
				r2 := []rune(w2[vi])
				for p := range r1 {
					pp := pos{vi, p}
					if _, taken := posID[pp]; taken {
						continue
					}
					if r1[p] == cs1[cp] && r2[p] == cs2[cp] {
						matches = append(matches, pp)
					}
				}
			}
			if len(matches) == 0 {
				return CharGenericRule{}, false
			}
			id := nextID
			nextID++
			charID[key] = id
			for _, m := range matches {
				posID[m] = id
			}
			outIDs[ow][cp] = id
		}
	}

	// remaining unreplaced input characters get fresh identifiers with no
	// output binding.
	for _, vi := range varIdx {
		r1 := []rune(w1[vi])
		for p := range r1 {
			pp := pos{vi, p}
			if _, taken := posID[pp]; !taken {
				posID[pp] = nextID
				nextID++
			}
		}
	}

	varSet := map[int]bool{}
	for _, vi := range varIdx {
		varSet[vi] = true
	}

	inWords := make([]string, len(w1))
	for i := range w1 {
		if varSet[i] {
			var sb strings.Builder
			for p := range []rune(w1[i]) {
				sb.WriteString(makeIdent(posID[pos{i, p}]))
			}
			inWords[i] = sb.String()
		} else {
			inWords[i] = w1[i]
		}
	}

	outWords := make([]string, len(ow1))
	for ow := range ow1 {
		var sb strings.Builder
		for _, id := range outIDs[ow] {
			sb.WriteString(makeIdent(id))
		}
		outWords[ow] = sb.String()
	}

	rule := CharGenericRule{
		InputPattern:  strings.Join(inWords, " "),
		OutputPattern: strings.Join(outWords, " "),
	}
	if !identSubset(rule.InputPattern, rule.OutputPattern) {
		return CharGenericRule{}, false
	}
	return rule, true
}

// validateEquivalentCharPatterns implements ValidateEquivalentPatterns
//: if the two candidates' input patterns differ, at least one
// must generalize the other. It returns the more specific (greater
// identifier count) of the two when both cross-validate, and false if
// neither generalizes the other.
func validateEquivalentCharPatterns(a, b CharGenericRule) (CharGenericRule, bool) {
	if a.InputPattern == b.InputPattern {
		return a, true
	}
	aGeneralizesB := charRuleGeneralizes(a, b)
	bGeneralizesA := charRuleGeneralizes(b, a)
	if !aGeneralizesB && !bGeneralizesA {
		return CharGenericRule{}, false
	}
	if a.numIdents() >= b.numIdents() {
		return a, true
	}
	return b, true
}

// charRuleGeneralizes reports whether general's pattern, applied to
// specific's literal example input (reconstructed is not available here,
// so this checks structurally: general matches specific's input pattern
// treated as a literal string and yields specific's output pattern
// treated as a literal string).
func charRuleGeneralizes(general, specific CharGenericRule) bool {
	bind, ok := sentenceMatchesPattern(general.InputPattern, specific.InputPattern)
	if !ok {
		return false
	}
	return applyCharRule(general.OutputPattern, bind) == specific.OutputPattern
}

// Induct attempts AbstractGenericRule against every witness in log, returning the winning rule if induction produced one that is not
// already present, cross-validated against candidates produced by other
// log entries in the same call.
func (s *CharGenericStore) Induct(input, output string, log *successLog, end rune) (CharGenericRule, bool) {
	var winner CharGenericRule
	haveWinner := false

	for _, w := range log.All() {
		if w.Input == input && w.Output == output {
			continue
		}
		cand, ok := abstractCharGenericRule(input, output, w.Input, w.Output, end)
		if !ok {
			continue
		}
		if !haveWinner {
			winner = cand
			haveWinner = true
			continue
		}
		merged, ok := validateEquivalentCharPatterns(winner, cand)
		if !ok {
			continue
		}
		winner = merged
	}

	if !haveWinner {
		return CharGenericRule{}, false
	}
	for _, existing := range s.rules {
		if existing.InputPattern == winner.InputPattern && existing.OutputPattern == winner.OutputPattern {
			return CharGenericRule{}, false
		}
	}
	s.rules = append(s.rules, winner)
	return winner, true
}
