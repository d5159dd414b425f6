package fasta

// Package fasta reads and writes the FASTA files used to export decoded
// protein records.

import (
	"bufio"
	"io"
	"strings"

	"genedata/internal/store"
)

// FastaRecord represents a single FASTA record (header and sequence).
type FastaRecord struct {
	Header   string
	Sequence string
}

// ParseFasta reads FASTA records from r and returns a slice of FastaRecord.
// Lines beginning with '>' denote headers; sequence lines are concatenated.
func ParseFasta(r io.Reader) []FastaRecord {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), store.MaxLineSize)
	var records []FastaRecord
	var current FastaRecord
	var seq strings.Builder
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			if current.Header != "" {
				current.Sequence = seq.String()
				records = append(records, current)
			}
			current = FastaRecord{Header: line[1:]}
			seq.Reset()
		} else {
			seq.WriteString(line)
		}
	}
	if current.Header != "" {
		current.Sequence = seq.String()
		records = append(records, current)
	}
	return records
}

// FromStore converts loaded protein records to FASTA records with a
// "protein organism" header.
func FromStore(st *store.Store) []FastaRecord {
	out := make([]FastaRecord, 0, st.Len())
	for _, r := range st.Records() {
		out = append(out, FastaRecord{Header: r.Protein + " " + r.Organism, Sequence: r.Sequence})
	}
	return out
}

// WriteFasta writes records one per entry, sequence on a single line.
func WriteFasta(w io.Writer, records []FastaRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		bw.WriteString(">")
		bw.WriteString(r.Header)
		bw.WriteString("\n")
		bw.WriteString(r.Sequence)
		bw.WriteString("\n")
	}
	return bw.Flush()
}
