package learner

import "github.com/dekarrin/rezi"

// RuleCounts is a diagnostic snapshot of how many rules each family holds,
// taken for --debug-snapshot output. It is never read back in; parrotd has
// no persistence path, so
// this only needs to encode, not decode.
type RuleCounts struct {
	Mapping     int
	CharGeneric int
	WordGeneric int
	GenericSize int
	MathRules   int
	Alphabet    int
	SuccessLog  int
}

// Snapshot captures the current rule counts for a Brain.
func Snapshot(b *Brain) RuleCounts {
	return RuleCounts{
		Mapping:     len(b.Mapping.rules),
		CharGeneric: len(b.CharGeneric.Rules()),
		WordGeneric: len(b.WordGeneric.Rules()),
		GenericSize: len(b.GenericSize.order),
		MathRules:   len(b.MathRules.Rules()),
		Alphabet:    len(b.alphabet),
		SuccessLog:  b.SuccessLogLen(),
	}
}

// Encode renders a snapshot as a rezi binary blob suitable for writing to
// the --debug-snapshot file.
func Encode(rc RuleCounts) []byte {
	return rezi.EncBinary(rc)
}
