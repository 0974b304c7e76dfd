package teachersim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseScript_splitsTeacherAndExpected(t *testing.T) {
	assert := assert.New(t)

	s := ParseScript("abcdefgabc|  ccefgabc")
	assert.Equal("abcdefgabc", s.Teacher)
	assert.Equal("  ccefgabc", s.Expected)
}

func Test_ParseScript_padsShortExpectedWithSpaces(t *testing.T) {
	assert := assert.New(t)

	s := ParseScript("abc|x")
	assert.Equal("abc", s.Teacher)
	assert.Equal("x  ", s.Expected)
}

func Test_ParseScript_noDelimiterMeansNeverScores(t *testing.T) {
	assert := assert.New(t)

	s := ParseScript("abc")
	assert.Equal("abc", s.Teacher)
	assert.Equal("   ", s.Expected)
}

func Test_Script_RewardFor_matchesAndMismatches(t *testing.T) {
	assert := assert.New(t)

	s := Script{Teacher: "abcdefgabc", Expected: "  ccefgabc"}
	assert.Equal(rune(' '), s.RewardFor(0, 'a'), "a space in Expected never scores")
	assert.Equal(rune('-'), s.RewardFor(2, 'x'), "mismatched reply scores a loss")
	assert.Equal(rune('+'), s.RewardFor(2, 'c'), "matching reply scores a win")
}

func Test_Script_RewardFor_outOfRangeTickIsDontCare(t *testing.T) {
	assert := assert.New(t)

	s := Script{Teacher: "ab", Expected: "  "}
	assert.Equal(rune(' '), s.RewardFor(-1, 'a'))
	assert.Equal(rune(' '), s.RewardFor(5, 'a'))
}
