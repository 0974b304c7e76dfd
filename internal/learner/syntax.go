package learner

import "strings"

// FeedbackWords remembers the last two full feedback strings observed and
// the boilerplate inferred from them.
type FeedbackWords struct {
	ring               [2]string
	count              int
	WrongFeedbackWords string
}

// Observe pushes a new full feedback string into the two-slot ring.
func (f *FeedbackWords) Observe(feedback string) {
	f.ring[0] = f.ring[1]
	f.ring[1] = feedback
	if f.count < 2 {
		f.count++
	}
}

// LearnWrongFeedbackWords computes the longest common word-aligned prefix
// of the last two observed feedback strings, falling back to the longest
// common suffix if the prefix is empty. It requires both samples to
// contain whitespace and be at least three characters long; otherwise it
// leaves WrongFeedbackWords untouched and returns false.
func (f *FeedbackWords) LearnWrongFeedbackWords() bool {
	if f.count < 2 {
		return false
	}
	a, b := f.ring[0], f.ring[1]
	if len(a) < 3 || len(b) < 3 || !strings.ContainsAny(a, " ") || !strings.ContainsAny(b, " ") {
		return false
	}

	prefix := commonWordPrefix(a, b)
	if prefix != "" {
		f.WrongFeedbackWords = prefix
		return true
	}
	suffix := commonWordSuffix(a, b)
	if suffix != "" {
		f.WrongFeedbackWords = suffix
		return true
	}
	return false
}

func commonWordPrefix(a, b string) string {
	wa, wb := strings.Fields(a), strings.Fields(b)
	n := minInt(len(wa), len(wb))
	var out []string
	for i := 0; i < n; i++ {
		if wa[i] != wb[i] {
			break
		}
		out = append(out, wa[i])
	}
	return strings.Join(out, " ")
}

func commonWordSuffix(a, b string) string {
	wa, wb := strings.Fields(a), strings.Fields(b)
	n := minInt(len(wa), len(wb))
	var out []string
	for i := 0; i < n; i++ {
		ia, ib := len(wa)-1-i, len(wb)-1-i
		if wa[ia] != wb[ib] {
			break
		}
		out = append([]string{wa[ia]}, out...)
	}
	return strings.Join(out, " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ParseFeedbackForRewards returns '+' iff the currently learned
// WrongFeedbackWords does not occur in s - boilerplate absent implies the
// real answer replaced it, implying success - else '-'.
func (f *FeedbackWords) ParseFeedbackForRewards(s string) rune {
	if f.WrongFeedbackWords != "" && strings.Contains(s, f.WrongFeedbackWords) {
		return '-'
	}
	return '+'
}

// Syntax is the framing descriptor discovered from the raw teacher streams
//.
type Syntax struct {
	AnswerNowChar     rune
	NextRequestChar   rune
	InputLength       int
	FeedbackLength    int
	FeedbackRealChars int

	Words FeedbackWords

	discovered bool
}

// NewSyntax returns an undiscovered Syntax with the default single-
// character-mode input length.
func NewSyntax() *Syntax {
	return &Syntax{InputLength: 1}
}

// Discovered reports whether delimiter discovery has run (successfully or
// by falling back to single-character mode).
func (sx *Syntax) Discovered() bool { return sx.discovered }

// Reset clears everything discovered about the framing syntax except
// FeedbackRealChars, which carries over from task to task. copyDelimiters,
// when true, preserves the already-discovered delimiters instead of
// rediscovering them.
func (sx *Syntax) Reset(copyDelimiters bool) {
	if copyDelimiters && sx.discovered {
		return
	}
	*sx = Syntax{InputLength: 1, FeedbackRealChars: sx.FeedbackRealChars}
}

// rewardPositions locates the indices, in rewards, of the four non-blank
// reward characters.
func rewardPositions(rewards string) []int {
	var out []int
	for i, c := range rewards {
		if c == '+' || c == '-' {
			out = append(out, i)
			if len(out) == 4 {
				break
			}
		}
	}
	return out
}

// Discover runs the syntax discoverer against the aligned
// rolling inputs/rewards strings. It is a no-op once already discovered.
// It returns false if fewer than four non-blank rewards have been observed
// yet (not an error - just "not ready").
func (sx *Syntax) Discover(inputs, rewards string) bool {
	if sx.discovered {
		return true
	}

	positions := rewardPositions(rewards)
	if len(positions) < 4 {
		return false
	}

	inRunes := []rune(inputs)

	// step 2: detect AnswerNowChar directly under the reward positions.
	allSame := true
	var candidate rune = -1
	allSpace := true
	for _, p := range positions {
		if p >= len(inRunes) {
			allSame = false
			break
		}
		c := inRunes[p]
		if c != ' ' {
			allSpace = false
		}
		if candidate == -1 {
			candidate = c
		} else if c != candidate {
			allSame = false
		}
	}

	if allSame && candidate != -1 && !allSpace && !isAlnum(candidate) {
		sx.AnswerNowChar = candidate
		sx.FeedbackLength = 1
	} else if allSpace {
		// walk leftward from each reward position past blanks.
		var neighbor rune = -1
		neighborsAgree := true
		maxDist := 0
		for _, p := range positions {
			d := 0
			i := p - 1
			for i >= 0 && inRunes[i] == ' ' {
				i--
				d++
			}
			if i < 0 {
				neighborsAgree = false
				break
			}
			c := inRunes[i]
			if isAlnum(c) {
				neighborsAgree = false
				break
			}
			if neighbor == -1 {
				neighbor = c
			} else if c != neighbor {
				neighborsAgree = false
			}
			if d+1 > maxDist {
				maxDist = d + 1
			}
		}
		if neighborsAgree && neighbor != -1 {
			sx.AnswerNowChar = neighbor
			sx.FeedbackLength = maxDist
		}
	}

	// step 3 & 4: NextRequestChar, from feedback substrings between
	// consecutive reward positions.
	if len(positions) >= 4 {
		fb1 := substrBetween(inputs, positions[1], positions[2])
		fb2 := substrBetween(inputs, positions[2], positions[3])
		if nr, wrong, ok := discoverNextRequestFromLeft(fb1, fb2, sx.AnswerNowChar); ok {
			sx.NextRequestChar = nr
			if wrong != "" {
				sx.Words.WrongFeedbackWords = wrong
			}
		} else if nr, ok := discoverNextRequestFromRight(inputs, positions[1], positions[2]); ok {
			sx.NextRequestChar = nr
		}
	}

	if sx.AnswerNowChar == 0 && sx.NextRequestChar == 0 {
		// failure semantics: if inputs has length 4 at the fourth reward,
		// declare single-character mode.
		if len(inRunes) == 4 {
			sx.InputLength = 1
			sx.FeedbackLength = 0
			sx.discovered = true
			return true
		}
		return false
	}

	sx.discovered = true
	return true
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func substrBetween(s string, from, to int) string {
	r := []rune(s)
	if from < 0 {
		from = 0
	}
	if to > len(r) {
		to = len(r)
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}

// discoverNextRequestFromLeft finds the longest common prefix of two
// consecutive feedback substrings; the first differing position is
// examined for a non-space symbol that is not (or lies just beyond) the
// answer-now char. Any matching prefix before the divergence is returned
// as candidate boilerplate.
func discoverNextRequestFromLeft(fb1, fb2 string, answerNow rune) (rune, string, bool) {
	r1, r2 := []rune(fb1), []rune(fb2)
	n := minInt(len(r1), len(r2))
	i := 0
	for i < n && r1[i] == r2[i] {
		i++
	}
	if i >= n {
		return 0, "", false
	}
	prefix := string(r1[:i])

	c1 := r1[i]
	if c1 != ' ' && !isAlnum(c1) && (answerNow == 0 || c1 != answerNow) {
		return c1, prefix, true
	}
	// "or is the next symbol beyond the answer-now char" - check one
	// further position if this one matched the answer-now char.
	if answerNow != 0 && c1 == answerNow && i+1 < n && r1[i+1] == r2[i+1] {
		c2 := r1[i+1]
		if c2 != ' ' && !isAlnum(c2) {
			return c2, prefix, true
		}
	}
	return 0, "", false
}

// discoverNextRequestFromRight walks leftward from the two reward positions
// looking for the first matching non-alphanumeric, non-space character.
func discoverNextRequestFromRight(inputs string, p1, p2 int) (rune, bool) {
	r := []rune(inputs)
	i, j := p1-1, p2-1
	for i >= 0 && j >= 0 {
		ci, cj := r[i], r[j]
		if ci == cj && ci != ' ' && !isAlnum(ci) {
			return ci, true
		}
		i--
		j--
	}
	return 0, false
}
