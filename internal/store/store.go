package store

// Package store loads the tab-separated protein records file and keeps the
// validated records in file order.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"genedata/internal/codec"
)

// MaxLineSize bounds a single input line. Sequences files and command
// scripts share it so any loaded sequence can also be searched for verbatim.
const MaxLineSize = 16 * 1024 * 1024

// ErrTooFewFields marks a line without protein, organism and sequence columns.
var ErrTooFewFields = errors.New("line has fewer than 3 columns")

// Record is one validated protein entry. Sequence is already decoded.
type Record struct {
	Protein  string
	Organism string
	Sequence string
}

// Skip describes an input line that was dropped during Load.
type Skip struct {
	Line   int
	Text   string
	Reason error
}

// Store is an ordered, read-only collection of records.
type Store struct {
	records []Record
}

// New builds a store from records in the given order.
func New(records ...Record) *Store {
	return &Store{records: append([]Record(nil), records...)}
}

// Load reads protein<TAB>organism<TAB>encoded_sequence lines from r.
// Malformed lines are reported as skips and never abort the load; the error
// is only set when reading r fails.
func Load(r io.Reader) (*Store, []Skip, error) {
	st := &Store{}
	var skips []Skip
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			skips = append(skips, Skip{Line: lineNo, Text: line, Reason: err})
			continue
		}
		st.records = append(st.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return st, skips, fmt.Errorf("reading records: %w", err)
	}
	return st, skips, nil
}

func parseLine(line string) (Record, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Record{}, ErrTooFewFields
	}
	if strings.TrimSpace(parts[2]) == "" {
		return Record{}, codec.ErrEmptySequence
	}
	seq := codec.Decode(parts[2])
	if err := codec.Check(seq); err != nil {
		return Record{}, fmt.Errorf("sequence %q: %w", seq, err)
	}
	return Record{Protein: parts[0], Organism: parts[1], Sequence: seq}, nil
}

// Find returns the first record whose protein name equals protein.
// Duplicate names are allowed in the input; earlier lines win.
func (s *Store) Find(protein string) (Record, bool) {
	for _, r := range s.records {
		if r.Protein == protein {
			return r, true
		}
	}
	return Record{}, false
}

// Records returns the records in load order. Callers must not modify it.
func (s *Store) Records() []Record { return s.records }

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }
