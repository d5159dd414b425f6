package dispatch

// Package dispatch turns command script lines into numbered transcript
// entries. It parses each line, runs the matching query and formats the
// result.

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"genedata/internal/query"
	"genedata/internal/store"
)

const (
	CmdSearch = "search"
	CmdDiff   = "diff"
	CmdMode   = "mode"
)

// separator opens every transcript entry.
var separator = strings.Repeat("-", 40)

var lower = cases.Lower(language.Und)

// Instruction is one parsed command line.
type Instruction struct {
	Name string
	Args []string
	// Line is the trimmed input, echoed in the transcript header.
	Line string
}

// Parse trims line, splits it on tabs and lower-cases the command keyword.
func Parse(line string) Instruction {
	clean := strings.TrimSpace(line)
	parts := strings.Split(clean, "\t")
	return Instruction{
		Name: lower.String(strings.TrimSpace(parts[0])),
		Args: parts[1:],
		Line: clean,
	}
}

// Dispatcher owns the instruction counter and writes transcript entries.
type Dispatcher struct {
	store   *store.Store
	out     io.Writer
	counter int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStart sets the number given to the first dispatched line (default 1).
func WithStart(n int) Option {
	return func(d *Dispatcher) { d.counter = n }
}

// New returns a dispatcher that queries st and writes to w.
func New(st *store.Store, w io.Writer, opts ...Option) *Dispatcher {
	d := &Dispatcher{store: st, out: w, counter: 1}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Counter returns the number the next dispatched line will get.
func (d *Dispatcher) Counter() int { return d.counter }

// Dispatch executes one command line and writes its transcript entry. The
// counter advances once per call, even for invalid commands. The returned
// error comes only from the writer.
func (d *Dispatcher) Dispatch(line string) error {
	ins := Parse(line)
	defer func() { d.counter++ }()

	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "%03d\t%s\n", d.counter, ins.Line)
	for _, l := range d.execute(ins) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(d.out, b.String())
	return err
}

// Run dispatches every non-blank line of r in order and returns how many
// lines were dispatched.
func (d *Dispatcher) Run(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), store.MaxLineSize)
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := d.Dispatch(line); err != nil {
			return n, fmt.Errorf("writing transcript entry %d: %w", d.counter-1, err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("reading commands: %w", err)
	}
	return n, nil
}

func (d *Dispatcher) execute(ins Instruction) []string {
	switch {
	case ins.Name == CmdSearch && len(ins.Args) >= 1:
		return formatSearch(query.Search(d.store, ins.Args[0]))
	case ins.Name == CmdDiff && len(ins.Args) >= 2:
		return []string{formatDiff(query.Diff(d.store, ins.Args[0], ins.Args[1]))}
	case ins.Name == CmdMode && len(ins.Args) >= 1:
		return []string{formatMode(ins.Args[0], query.Mode(d.store, ins.Args[0]))}
	default:
		return []string{"Invalid command"}
	}
}

func formatSearch(matches []query.Match, ok bool) []string {
	if !ok {
		return []string{"NOT FOUND"}
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Organism + "\t" + m.Protein
	}
	return out
}

func formatDiff(r query.DiffResult) string {
	if len(r.Missing) > 0 {
		return "amino-acids difference: MISSING: " + strings.Join(r.Missing, " ")
	}
	return fmt.Sprintf("amino-acids difference: %d", r.Count)
}

func formatMode(name string, r query.ModeResult) string {
	switch r.Status {
	case query.ModeMissing:
		return "amino-acid occurs: MISSING: " + name
	case query.ModeEmpty:
		return "amino-acid occurs: ? 0"
	default:
		return fmt.Sprintf("amino-acid occurs: %c %d", r.Symbol, r.Count)
	}
}
