package query

// Package query implements the search, diff and mode operations over a
// loaded record store. Every function here is pure.

import (
	"sort"
	"strings"

	"genedata/internal/codec"
	"genedata/internal/store"
)

// Match is one search hit.
type Match struct {
	Organism string
	Protein  string
}

// Search decodes encodedPattern and returns every record whose sequence
// contains it, in store order. The pattern is not validated. ok is false
// when nothing matched.
func Search(st *store.Store, encodedPattern string) (matches []Match, ok bool) {
	pattern := codec.Decode(encodedPattern)
	for _, r := range st.Records() {
		if strings.Contains(r.Sequence, pattern) {
			matches = append(matches, Match{Organism: r.Organism, Protein: r.Protein})
		}
	}
	return matches, len(matches) > 0
}

// DiffResult holds either a distance or the names that could not be found.
type DiffResult struct {
	Count   int
	Missing []string
}

// Diff compares the first records named nameA and nameB position by
// position. When either is unknown, Missing lists the unknown names in
// argument order and Count is zero.
func Diff(st *store.Store, nameA, nameB string) DiffResult {
	a, okA := st.Find(nameA)
	b, okB := st.Find(nameB)
	if !okA || !okB {
		var missing []string
		if !okA {
			missing = append(missing, nameA)
		}
		if !okB {
			missing = append(missing, nameB)
		}
		return DiffResult{Missing: missing}
	}
	return DiffResult{Count: Distance(a.Sequence, b.Sequence)}
}

// Distance counts mismatching positions between a and b. Positions past the
// end of the shorter sequence always count as mismatches, so
// Distance("AC", "ACDE") is 2. There is no alignment.
func Distance(a, b string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	diff := 0
	for i := 0; i < n; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			diff++
		}
	}
	return diff
}

// ModeStatus tells which variant a ModeResult holds.
type ModeStatus int

const (
	ModeFound ModeStatus = iota
	ModeMissing
	ModeEmpty
)

// ModeResult is the most frequent symbol of one record's sequence.
type ModeResult struct {
	Symbol byte
	Count  int
	Status ModeStatus
}

// Mode finds the most frequent symbol in the first record named name.
func Mode(st *store.Store, name string) ModeResult {
	r, ok := st.Find(name)
	if !ok {
		return ModeResult{Status: ModeMissing}
	}
	if r.Sequence == "" {
		return ModeResult{Status: ModeEmpty}
	}
	sym, n := MostFrequent(r.Sequence)
	return ModeResult{Symbol: sym, Count: n, Status: ModeFound}
}

// MostFrequent returns the symbol with the highest count in seq; ties go to
// the smallest byte value. It returns (0, 0) for an empty seq.
func MostFrequent(seq string) (byte, int) {
	var counts [256]int
	for i := 0; i < len(seq); i++ {
		counts[seq[i]]++
	}
	var best byte
	bestN := 0
	for c := 0; c < len(counts); c++ {
		if counts[c] > bestN {
			best, bestN = byte(c), counts[c]
		}
	}
	return best, bestN
}

// SymbolCount is one row of a sequence composition.
type SymbolCount struct {
	Symbol byte
	Count  int
}

// Composition counts every distinct symbol of seq, most frequent first and
// by symbol within equal counts. Its first row agrees with MostFrequent.
func Composition(seq string) []SymbolCount {
	counts := make(map[byte]int)
	for i := 0; i < len(seq); i++ {
		counts[seq[i]]++
	}
	out := make([]SymbolCount, 0, len(counts))
	for sym, n := range counts {
		out = append(out, SymbolCount{Symbol: sym, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
