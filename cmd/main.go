package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"genedata/internal/config"
	"genedata/internal/dispatch"
	"genedata/internal/fasta"
	"genedata/internal/input"
	"genedata/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
	now func() time.Time
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	now := t.now
	if now == nil {
		now = time.Now
	}
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next Write
			t.buf.Reset()
			t.buf.WriteString(line)
			break
		}
		ts := now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// parseLevel maps a config log_level to a charm log level. ok is false for
// unknown names, which fall back to info.
func parseLevel(s string) (lvl log.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}

func newLogger(w io.Writer, fd uintptr) *log.Logger {
	tw := &timestampWriter{w: w}
	logger := log.New(&terminalWriter{w: tw, fd: fd})
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))
	styles.Keys["reason"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	styles.Keys["line"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	logger.SetStyles(styles)
	return logger
}

// loadStore reads the sequences file and logs every dropped line.
func loadStore(path string, logger *log.Logger) (*store.Store, error) {
	rc, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	st, skips, err := store.Load(rc)
	for _, s := range skips {
		logger.Warn("skipping record", "line", s.Line, "reason", s.Reason, "text", s.Text)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("loaded records", "path", path, "records", st.Len(), "skipped", len(skips))
	return st, nil
}

// run loads the records, writes the banner and the transcript of every
// command to cfg.OutputFile and optionally exports the records as FASTA.
func run(cfg *config.Config, logger *log.Logger) error {
	st, err := loadStore(cfg.SequencesFile, logger)
	if err != nil {
		return fmt.Errorf("load sequences: %w", err)
	}

	out, err := createOutput(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	start := time.Now()
	n, err := writeTranscript(out, cfg, st)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if input.IsBrokenPipe(err) {
		logger.Debug("output closed early", "dispatched", n)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("commands executed", "path", cfg.CommandsFile, "commands", n, "duration_ms", time.Since(start).Milliseconds())

	if cfg.FastaExport != "" {
		if err := exportFasta(cfg.FastaExport, st); err != nil {
			return fmt.Errorf("fasta export: %w", err)
		}
		if cfg.FastaExport != "-" {
			if err := verifyFasta(cfg.FastaExport, st); err != nil {
				return fmt.Errorf("fasta export: %w", err)
			}
		}
		logger.Info("wrote fasta export", "path", cfg.FastaExport, "records", st.Len())
	}
	return nil
}

// createOutput opens the transcript sink; tests may replace it.
var createOutput = input.Create

// writeTranscript writes the banner and one entry per command to w.
func writeTranscript(w io.Writer, cfg *config.Config, st *store.Store) (int, error) {
	bw := bufio.NewWriter(w)
	for _, l := range cfg.Banner {
		fmt.Fprintln(bw, l)
	}

	cmds, err := input.Open(cfg.CommandsFile)
	if err != nil {
		return 0, fmt.Errorf("open commands: %w", err)
	}
	defer cmds.Close()

	n, err := dispatch.New(st, bw).Run(cmds)
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func exportFasta(path string, st *store.Store) error {
	w, err := input.Create(path)
	if err != nil {
		return err
	}
	if err := fasta.WriteFasta(w, fasta.FromStore(st)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// verifyFasta reads an export back and checks it holds every record of st.
func verifyFasta(path string, st *store.Store) error {
	rc, err := input.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	back := fasta.ParseFasta(rc)
	if len(back) != st.Len() {
		return fmt.Errorf("%s: read back %d records, wrote %d", path, len(back), st.Len())
	}
	for i, r := range st.Records() {
		if back[i].Sequence != r.Sequence {
			return fmt.Errorf("%s: record %d (%s) differs after read back", path, i+1, r.Protein)
		}
	}
	return nil
}

func main() {
	// CLI flags
	seqFlag := flag.String("sequences", "", "sequences file (protein<TAB>organism<TAB>rle sequence; '-' for stdin, .gz ok)")
	cmdFlag := flag.String("commands", "", "command script (search/diff/mode lines; .gz ok)")
	outFlag := flag.String("out", "", "transcript output file ('-' for stdout)")
	configFlag := flag.String("config", "", "path to config file (.json, .yaml or .toml; optional)")
	fastaFlag := flag.String("fasta", "", "also export decoded records as FASTA to this path")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("genedata", version)
		return
	}

	cfg, cfgErr := config.LoadConfig(*configFlag)
	if cfgErr != nil {
		cfg = config.Defaults()
	}

	// merge CLI flags into config (flags override config when provided)
	if *seqFlag != "" {
		cfg.SequencesFile = *seqFlag
	}
	if *cmdFlag != "" {
		cfg.CommandsFile = *cmdFlag
	}
	if *outFlag != "" {
		cfg.OutputFile = *outFlag
	}
	if *fastaFlag != "" {
		cfg.FastaExport = *fastaFlag
	}

	// configure logger output
	var loggerOut io.Writer = os.Stderr
	var logFileHandle *os.File
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			loggerOut = io.MultiWriter(os.Stderr, f)
			logFileHandle = f
			defer func() { _ = logFileHandle.Close() }()
		}
	}
	logger := newLogger(loggerOut, os.Stderr.Fd())

	// apply log level from flags/config (flags override config)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		lvl, ok := parseLevel(cfg.LogLevel)
		logger.SetLevel(lvl)
		if !ok {
			logger.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
		}
	}
	if cfgErr != nil {
		logger.Warn("config file unreadable, using defaults", "err", cfgErr)
	}

	logger.Debug("loaded config", "sequences_file", cfg.SequencesFile, "commands_file", cfg.CommandsFile, "output_file", cfg.OutputFile, "fasta_export", cfg.FastaExport, "log_file", cfg.LogFile, "log_level", cfg.LogLevel)
	if cfg.LogFile != "" && logFileHandle == nil {
		logger.Warn("log_file specified but could not be opened; logging to stderr only", "path", cfg.LogFile)
	}

	if !input.Exists(cfg.SequencesFile) || !input.Exists(cfg.CommandsFile) {
		logger.Fatal("input files not found", "sequences", cfg.SequencesFile, "commands", cfg.CommandsFile)
	}
	logger.Info("starting genedata", "sequences", cfg.SequencesFile, "commands", cfg.CommandsFile, "output", cfg.OutputFile)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run failed", "err", err)
	}

	var done io.Writer = os.Stdout
	if cfg.OutputFile == "-" {
		done = os.Stderr
	}
	color.New(color.FgGreen, color.Bold).Fprintf(done, "Done. Results written to '%s'\n", cfg.OutputFile)
}
