package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/charmbracelet/log"

	"github.com/yashmgupta/gentext/internal/config"
	"github.com/yashmgupta/gentext/internal/genbank"
	"github.com/yashmgupta/gentext/internal/ncbi"
	"github.com/yashmgupta/gentext/internal/report"
	"github.com/yashmgupta/gentext/internal/stats"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

var (
	app        = kingpin.New("gentext", "Generate manuscript-style summaries of GenBank sequence records.")
	configFlag = app.Flag("config", "path to config.json (optional)").String()
	verbose    = app.Flag("verbose", "enable verbose (debug) logging").Bool()

	summarizeApp   = app.Command("summarize", "summarize one or more GenBank files.")
	summarizeFiles = summarizeApp.Arg("file", "GenBank file (.gb/.gbk)").Required().Strings()
	summarizeOut   = summarizeApp.Flag("out", "write the combined output to a file instead of stdout").String()

	statsApp  = app.Command("stats", "report gene span and gap statistics for a GenBank file.")
	statsFile = statsApp.Arg("file", "GenBank file").Required().String()

	fetchApp = app.Command("fetch", "fetch a nucleotide accession from NCBI and summarize it.")
	fetchAcc = fetchApp.Arg("accession", "nucleotide accession").Required().String()

	versionApp = app.Command("version", "print version and exit.")
)

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	total := n
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			break
		}
		ts := time.Now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return total, err
		}
	}
	return total, nil
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

func newLogger(cfg *config.Config, verbose bool) *log.Logger {
	var loggerOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			loggerOut = io.MultiWriter(os.Stderr, f)
		}
	}
	// If stderr is a terminal-like device, force colors for libraries that honor FORCE_COLOR.
	if fi, err := os.Stderr.Stat(); err == nil {
		if fi.Mode()&os.ModeCharDevice != 0 {
			_ = os.Setenv("FORCE_COLOR", "1")
		}
	}
	tw := &timestampWriter{w: loggerOut}
	termW := &terminalWriter{w: tw, fd: os.Stderr.Fd()}
	logger := log.New(termW)

	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
		logger.Warn("unknown log_level in config.json, defaulting to info", "provided", cfg.LogLevel)
	}
	return logger
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gentext: bad config:", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, *verbose)

	if cfg.NcbiCachePath != "" {
		if abs, aerr := filepath.Abs(cfg.NcbiCachePath); aerr == nil {
			ncbi.SetCacheFilePath(abs)
		} else {
			ncbi.SetCacheFilePath(cfg.NcbiCachePath)
		}
		defer ncbi.FlushCache()
	}
	if cfg.NcbiApiKey != "" {
		os.Setenv("NCBI_API_KEY", cfg.NcbiApiKey)
		logger.Debug("ncbi api key set from config (value not logged)")
	}
	if cfg.NcbiCacheTTLSecs > 0 {
		ncbi.SetCacheTTLSeconds(cfg.NcbiCacheTTLSecs)
	}

	switch command {
	case summarizeApp.FullCommand():
		runSummarize(logger, *summarizeFiles, pick(*summarizeOut, cfg.OutputPath))
	case statsApp.FullCommand():
		runStats(logger, *statsFile)
	case fetchApp.FullCommand():
		runFetch(logger, *fetchAcc)
	case versionApp.FullCommand():
		fmt.Println("gentext", version)
	}
}

func pick(flag, fromConfig string) string {
	if flag != "" {
		return flag
	}
	return fromConfig
}

func runSummarize(logger *log.Logger, paths []string, outPath string) {
	var outputs []string
	for _, path := range paths {
		records, err := genbank.ParseFile(path)
		if err != nil {
			logger.Fatal("failed to parse input", "path", path, "err", err)
		}
		logger.Debug("parsed genbank file", "path", path, "records", len(records))
		text, err := report.Summarize(records)
		if err != nil {
			logger.Fatal("failed to summarize", "path", path, "err", err)
		}
		outputs = append(outputs, text)
	}
	combined := strings.Join(outputs, "\n\n"+report.Separator+"\n\n") + "\n"

	if outPath == "" {
		fmt.Print(combined)
		return
	}
	if err := os.WriteFile(outPath, []byte(combined), 0o644); err != nil {
		logger.Fatal("failed to write output", "path", outPath, "err", err)
	}
	logger.Info("wrote summary", "path", outPath, "files", len(paths))
}

func runStats(logger *log.Logger, path string) {
	records, err := genbank.ParseFile(path)
	if err != nil {
		logger.Fatal("failed to parse input", "path", path, "err", err)
	}
	if len(records) == 0 {
		logger.Fatal("no records found", "path", path)
	}
	summaries := make([]stats.Summary, len(records))
	for i, rec := range records {
		summaries[i] = stats.Describe(rec)
	}
	fmt.Print(stats.Render(summaries))
}

func runFetch(logger *log.Logger, accession string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger.Info("fetching from ncbi", "accession", accession)
	text, err := ncbi.Fetch(ctx, accession)
	if err != nil {
		logger.Fatal("ncbi fetch failed", "accession", accession, "err", err)
	}
	records, err := genbank.Parse(strings.NewReader(text))
	if err != nil {
		logger.Fatal("failed to parse fetched record", "accession", accession, "err", err)
	}
	out, err := report.Summarize(records)
	if err != nil {
		logger.Fatal("failed to summarize", "accession", accession, "err", err)
	}
	fmt.Println(out)
}
