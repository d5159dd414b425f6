package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"genedata/internal/config"
	"genedata/internal/input"
	"genedata/internal/store"

	"github.com/charmbracelet/log"
)

func TestTimestampWriterKeepsPartialLines(t *testing.T) {
	var out bytes.Buffer
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tw := &timestampWriter{w: &out, now: func() time.Time { return fixed }}
	_, _ = tw.Write([]byte("first li"))
	if out.Len() != 0 {
		t.Fatalf("expected nothing flushed before newline, got %q", out.String())
	}
	_, _ = tw.Write([]byte("ne\nsecond\n"))
	want := "2024-01-02T03:04:05Z first line\n2024-01-02T03:04:05Z second\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, ok := parseLevel("WARNING"); !ok || lvl != log.WarnLevel {
		t.Fatalf("expected warn, got %v (ok=%v)", lvl, ok)
	}
	if lvl, ok := parseLevel("loud"); ok || lvl != log.InfoLevel {
		t.Fatalf("expected info fallback, got %v (ok=%v)", lvl, ok)
	}
}

func TestRunWritesTranscript(t *testing.T) {
	dir := t.TempDir()
	seqs := filepath.Join(dir, "sequences.0.txt")
	cmds := filepath.Join(dir, "commands.0.txt")
	out := filepath.Join(dir, "genedata.txt")
	fa := filepath.Join(dir, "records.fasta")
	if err := os.WriteFile(seqs, []byte("P1\tOrg1\t3A2B\nP2\tOrg2\tAAACC\nbad line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cmds, []byte("search\t2A\n\nmode\tP2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.SequencesFile = seqs
	cfg.CommandsFile = cmds
	cfg.OutputFile = out
	cfg.FastaExport = fa

	var logs bytes.Buffer
	logger := newLogger(&logs, 0)
	if err := run(cfg, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	sep := strings.Repeat("-", 40)
	want := strings.Join([]string{
		"Artsiom Lisouski", "Genetic search",
		"", sep, "001\tsearch\t2A", "Org2\tP2",
		"", sep, "002\tmode\tP2", "amino-acid occurs: A 3",
	}, "\n") + "\n"
	if string(got) != want {
		t.Fatalf("unexpected transcript:\n%s\nwant:\n%s", got, want)
	}

	// P1 decodes to AAABB, which has B and is dropped
	if !strings.Contains(logs.String(), "skipping record") {
		t.Fatalf("expected skip warnings in log, got %q", logs.String())
	}

	exported, err := os.ReadFile(fa)
	if err != nil {
		t.Fatal(err)
	}
	if string(exported) != ">P2 Org2\nAAACC\n" {
		t.Fatalf("unexpected fasta export %q", exported)
	}
}

func TestRunMissingSequences(t *testing.T) {
	cfg := config.Defaults()
	cfg.SequencesFile = filepath.Join(t.TempDir(), "absent.txt")
	if err := run(cfg, newLogger(&bytes.Buffer{}, 0)); err == nil {
		t.Fatalf("expected error for missing sequences file")
	}
}

type failingCloser struct{ io.Writer }

func (failingCloser) Close() error { return errors.New("disk full") }

func TestRunReportsTranscriptCloseError(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SequencesFile = filepath.Join(dir, "seqs.txt")
	cfg.CommandsFile = filepath.Join(dir, "cmds.txt")
	cfg.OutputFile = filepath.Join(dir, "out.txt")
	_ = os.WriteFile(cfg.SequencesFile, []byte("P1\tOrg1\tAC\n"), 0o644)
	_ = os.WriteFile(cfg.CommandsFile, []byte("mode\tP1\n"), 0o644)

	var sink bytes.Buffer
	createOutput = func(string) (io.WriteCloser, error) { return failingCloser{&sink}, nil }
	defer func() { createOutput = input.Create }()

	err := run(cfg, newLogger(&bytes.Buffer{}, 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected close error to surface, got %v", err)
	}
	if !strings.Contains(sink.String(), "amino-acid occurs: A 1") {
		t.Fatalf("expected transcript written before close, got %q", sink.String())
	}
}

func TestVerifyFastaDetectsTruncatedExport(t *testing.T) {
	st := store.New(
		store.Record{Protein: "P1", Organism: "Org1", Sequence: "AC"},
		store.Record{Protein: "P2", Organism: "Org2", Sequence: "WY"},
	)
	path := filepath.Join(t.TempDir(), "records.fasta.gz")
	if err := exportFasta(path, st); err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if err := verifyFasta(path, st); err != nil {
		t.Fatalf("expected export to read back cleanly, got %v", err)
	}

	short := filepath.Join(t.TempDir(), "short.fasta")
	_ = os.WriteFile(short, []byte(">P1 Org1\nAC\n"), 0o644)
	if err := verifyFasta(short, st); err == nil {
		t.Fatalf("expected missing record to be reported")
	}
}
