// Package teachersim is a readline-driven stand-in for a real teacher,
// used by cmd/parrottutor during local development: a developer types a
// script line by hand and watches parrotd react.
package teachersim

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// Console reads one line of teacher-authored stream text at a time from an
// interactive terminal.
type Console struct {
	rl *readline.Instance
}

// NewConsole starts a readline-backed console with the given prompt.
func NewConsole(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("starting teacher console: %w", err)
	}
	return &Console{rl: rl}, nil
}

// Close releases readline resources.
func (c *Console) Close() error {
	return c.rl.Close()
}

// NextLine blocks for one line of raw script input.
func (c *Console) NextLine() (string, error) {
	return c.rl.Readline()
}

// Script is one parsed line of teacher input: the per-tick character
// stream to send, paired with the expected agent reply at each tick so the
// reward for the *previous* tick's answer can be derived the way an
// end-to-end test scenario is laid out - teacher stream, expected
// reply stream, reward stream, one column per tick.
//
// The two streams are written on one line separated by '|'; a space in
// Expected means "don't score this tick" (the reward frame sent is
// blank). If no '|' is present, the whole line is Teacher and Expected is
// all spaces (never scores a reward).
type Script struct {
	Teacher  string
	Expected string
}

// ParseScript splits one raw console line into its Script.
func ParseScript(line string) Script {
	teacher, expected, found := strings.Cut(line, "|")
	if !found {
		expected = strings.Repeat(" ", len([]rune(teacher)))
	}
	te := []rune(teacher)
	ee := []rune(expected)
	for len(ee) < len(te) {
		ee = append(ee, ' ')
	}
	return Script{Teacher: string(te), Expected: string(ee[:len(te)])}
}

// RewardFor compares the agent's actual reply at a tick against the
// script's expected reply at that tick, returning the reward character to
// send on the *next* tick's reward frame ('+', '-', or ' ' for don't-care).
func (s Script) RewardFor(tick int, actualReply rune) rune {
	expected := []rune(s.Expected)
	if tick < 0 || tick >= len(expected) {
		return ' '
	}
	want := expected[tick]
	if want == ' ' {
		return ' '
	}
	if want == actualReply {
		return '+'
	}
	return '-'
}
