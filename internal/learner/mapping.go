package learner

import "github.com/dekarrin/parrot/internal/util"

// mappingRule is the exact (input, output, failedOutputs) record of a
// single learned mapping rule.
type mappingRule struct {
	Input         string
	Output        string
	FailedOutputs util.Set[string]
}

// MappingStore is the exact-match rule family. It keeps one
// rule per distinct input seen this task, plus a frequency multiset of
// every output currently recorded across all rules and the task-wide
// UniformValue.
type MappingStore struct {
	rules map[string]*mappingRule
	freq  map[string]int

	// UniformValue is non-empty exactly when every successful pair so far
	// has shared the same output.
	UniformValue string
	uniformSet   bool
}

// NewMappingStore returns an empty mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		rules: make(map[string]*mappingRule),
		freq:  make(map[string]int),
	}
}

func (m *MappingStore) ruleFor(input string) *mappingRule {
	r, ok := m.rules[input]
	if !ok {
		r = &mappingRule{Input: input, FailedOutputs: util.NewSet[string]()}
		m.rules[input] = r
	}
	return r
}

func (m *MappingStore) incFreq(output string) {
	if output == "" {
		return
	}
	m.freq[output]++
}

func (m *MappingStore) decFreq(output string) {
	if output == "" {
		return
	}
	m.freq[output]--
	if m.freq[output] <= 0 {
		delete(m.freq, output)
	}
}

// Successful records that input produced a correct output. It overwrites
// the rule's current output (adjusting the frequency table), removes
// output from the rule's failed set, and maintains UniformValue: if it
// isn't set yet, output becomes it; if already set to something else, it
// is cleared permanently.
func (m *MappingStore) Successful(input, output string) {
	r := m.ruleFor(input)
	if r.Output != output {
		m.decFreq(r.Output)
		r.Output = output
		m.incFreq(output)
	}
	delete(r.FailedOutputs, output)

	if !m.uniformSet {
		m.UniformValue = output
		m.uniformSet = true
	} else if m.UniformValue != output {
		m.UniformValue = ""
	}
}

// Failed records that output was tried for input and rejected: the rule's
// current output is cleared, output is added to its failed set, and
// UniformValue is cleared iff it matched output.
func (m *MappingStore) Failed(input, output string) {
	r := m.ruleFor(input)
	if r.Output == output {
		m.decFreq(r.Output)
		r.Output = ""
	}
	r.FailedOutputs.Add(output)

	if m.UniformValue == output {
		m.UniformValue = ""
	}
}

// Retrieve returns the currently recorded output for input and whether one
// exists.
func (m *MappingStore) Retrieve(input string) (string, bool) {
	r, ok := m.rules[input]
	if !ok || r.Output == "" {
		return "", false
	}
	return r.Output, true
}

// HasFailed reports whether output has previously failed for input.
func (m *MappingStore) HasFailed(input, output string) bool {
	r, ok := m.rules[input]
	if !ok {
		return false
	}
	return r.FailedOutputs.Has(output)
}

// RetrieveOutputsSortedByFreq returns every output currently recorded
// across all rules, most frequent first; ties come in no defined order.
func (m *MappingStore) RetrieveOutputsSortedByFreq() []string {
	type kv struct {
		k string
		v int
	}
	var all []kv
	for k, v := range m.freq {
		all = append(all, kv{k, v})
	}
	// simple insertion sort: descending by count, small N expected. The
	// order among outputs with equal counts follows map iteration and is
	// not defined.
	for i := 1; i < len(all); i++ {
		j := i
		for j > 0 && all[j].v > all[j-1].v {
			all[j], all[j-1] = all[j-1], all[j]
			j--
		}
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.k
	}
	return out
}

// DistinctOutputsObserved returns the number of distinct outputs that have
// ever been recorded as the current output of some rule, summed with the
// distinct failed outputs across all rules - the invariant an end-to-end
// check verifies against FailedOutputs.size sums.
func (m *MappingStore) DistinctOutputsObserved() int {
	seen := util.NewSet[string]()
	for k := range m.freq {
		seen.Add(k)
	}
	for _, r := range m.rules {
		for o := range r.FailedOutputs {
			seen.Add(o)
		}
	}
	return seen.Len()
}
