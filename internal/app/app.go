// Package app implements the tree-lint-ts command line.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/fileutil"
	"github.com/evanrichards/tree-lint-ts/internal/lint"
	"github.com/evanrichards/tree-lint-ts/internal/logging"
	"github.com/evanrichards/tree-lint-ts/internal/processor"
	"github.com/evanrichards/tree-lint-ts/internal/rules"
)

// ErrCheckFailed is returned by --check when problems remain
var ErrCheckFailed = errors.New("problems found")

var (
	defaultExtensions = []string{".ts", ".tsx", ".mts", ".cts"}
	formats           = []string{"text", "json"}
)

// Options holds the command line flags
type Options struct {
	Check      bool
	Write      bool
	Recursive  bool
	Verbose    bool
	Extensions []string
	Exclude    []string
	Rules      []string
	Workers    int
	MaxPasses  int
	ConfigPath string
	Format     string
	Log        *logging.Config
}

// RegisterFlags adds the command flags to flags
func (o *Options) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.Check, "check", false, "Exit 1 when any problem remains")
	flags.BoolVar(&o.Write, "write", false, "Write fixes to files (default: dry-run)")
	flags.BoolVar(&o.Recursive, "recursive", true, "Process directories recursively")
	flags.BoolVar(&o.Verbose, "verbose", false, "Show detailed output")
	flags.StringSliceVar(&o.Extensions, "extensions", defaultExtensions, "File extensions to process")
	flags.StringArrayVar(&o.Exclude, "exclude", nil, "Glob of paths to skip, relative to each directory argument (repeatable)")
	flags.StringArrayVar(&o.Rules, "rule", nil, "Only run the named rule (repeatable)")
	flags.IntVar(&o.Workers, "workers", 0, "Number of parallel workers (0 = number of CPUs)")
	flags.IntVar(&o.MaxPasses, "max-passes", config.DefaultMaxPasses, "Maximum fix passes per file")
	flags.StringVar(&o.ConfigPath, "config", "", fmt.Sprintf("Config file (default %s when present)", config.DefaultFileName))
	flags.StringVar(&o.Format, "format", "text", "Output format, one of: text, json")
	o.Log.RegisterFlags(flags)
}

// RegisterCompletions registers shell completions for the enumerated flags
func (o *Options) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering format completion: %w", err)
	}

	err = cmd.RegisterFlagCompletionFunc("rule",
		cobra.FixedCompletions(rules.Registry().Names(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering rule completion: %w", err)
	}

	return o.Log.RegisterCompletions(cmd)
}

// NewCommand builds the root command
func NewCommand() *cobra.Command {
	opts := &Options{Log: logging.NewConfig()}

	cmd := &cobra.Command{
		Use:   "tree-lint-ts [flags] <path> [path ...]",
		Short: "Lint and fix TypeScript sources",
		Long: `tree-lint-ts checks TypeScript and JavaScript sources. It keeps containers
annotated with @sort in order, forbids configured text patterns and flags
empty block comments. Fixes are reported by default and written with --write.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	opts.RegisterFlags(cmd.Flags())
	if err := opts.RegisterCompletions(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

// Run executes the command and exits non-zero on error
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *Options, args []string) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("unknown output format %q", opts.Format)
	}

	logger, err := opts.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	file, err := config.Discover(opts.ConfigPath)
	if err != nil {
		return err
	}
	mergeConfig(cmd.Flags(), opts, file)

	if err := fileutil.ValidatePatterns(opts.Exclude); err != nil {
		return err
	}

	configs, err := rules.Configure(file, opts.Rules)
	if err != nil {
		return err
	}
	linter, err := lint.NewLinter(logger, configs...)
	if err != nil {
		return err
	}

	files, err := fileutil.Collect(args, fileutil.Options{
		Extensions: opts.Extensions,
		Exclude:    opts.Exclude,
		Recursive:  opts.Recursive,
	})
	if err != nil {
		return err
	}
	logger.Debug("collected files", "count", len(files), "rules", linter.Rules())

	out := newPrinter(cmd.OutOrStdout(), opts)
	if len(files) == 0 {
		if opts.Verbose {
			out.println("No matching files found")
		}
		return out.flush()
	}
	if opts.Verbose {
		out.printf("Found %d file(s)\n", len(files))
	}

	results, errs := processFilesParallel(cmd.Context(), files, opts, processor.Config{
		Linter:    linter,
		Logger:    logger,
		Write:     opts.Write,
		MaxPasses: opts.MaxPasses,
	})

	st := out.report(results)
	for _, err := range errs {
		logger.Error("processing failed", "err", err)
	}
	st.errorFiles = len(errs)
	if opts.Verbose && st.totalFiles > 1 {
		out.summary(st)
	}
	if err := out.flush(); err != nil {
		return err
	}

	if len(errs) > 0 {
		return errs[0]
	}
	if opts.Check && st.diagnostics > 0 {
		return fmt.Errorf("%w: %d in %d file(s)", ErrCheckFailed, st.diagnostics, st.filesWithProblems)
	}
	return nil
}

// mergeConfig fills options the user did not set on the command line from
// the config file
func mergeConfig(flags *pflag.FlagSet, opts *Options, file *config.File) {
	if !flags.Changed("extensions") && len(file.Extensions) > 0 {
		opts.Extensions = file.Extensions
	}
	if !flags.Changed("max-passes") && file.MaxPasses > 0 {
		opts.MaxPasses = file.MaxPasses
	}
	opts.Exclude = append(append([]string(nil), file.Exclude...), opts.Exclude...)
}

type fileResult struct {
	result processor.Result
	err    error
}

func processFilesParallel(ctx context.Context, files []string, opts *Options, cfg processor.Config) ([]processor.Result, []error) {
	// Set up worker pool
	workerCount := opts.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	// Channels for work distribution
	fileChan := make(chan string, len(files))
	resultChan := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileChan {
				if err := ctx.Err(); err != nil {
					resultChan <- fileResult{err: fmt.Errorf("%s: %w", file, err)}
					continue
				}
				result, err := processor.ProcessFile(ctx, file, cfg)
				if err != nil {
					err = fmt.Errorf("%s: %w", file, err)
				}
				resultChan <- fileResult{result: result, err: err}
			}
		}()
	}

	for _, file := range files {
		fileChan <- file
	}
	close(fileChan)

	wg.Wait()
	close(resultChan)

	var results []processor.Result
	var errs []error
	for r := range resultChan {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		results = append(results, r.result)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return results, errs
}

type stats struct {
	totalFiles        int
	filesWithProblems int
	filesChanged      int
	errorFiles        int
	diagnostics       int
	fixes             int
}

type jsonResult struct {
	Path         string            `json:"path"`
	Changed      bool              `json:"changed"`
	FixesApplied int               `json:"fixesApplied"`
	Passes       int               `json:"passes"`
	Diagnostics  []lint.Diagnostic `json:"diagnostics"`
}

// printer writes results to stdout, with decorative symbols only when
// stdout is a terminal
type printer struct {
	w        io.Writer
	opts     *Options
	decorate bool
	json     []jsonResult
	err      error
}

func newPrinter(w io.Writer, opts *Options) *printer {
	return &printer{w: w, opts: opts, decorate: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil && p.opts.Format == "text" {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

func (p *printer) mark(ok bool) string {
	if !p.decorate {
		return ""
	}
	if ok {
		return "✓ "
	}
	return "✗ "
}

func (p *printer) report(results []processor.Result) stats {
	st := stats{totalFiles: len(results)}

	for _, r := range results {
		st.diagnostics += len(r.Diagnostics)
		st.fixes += r.FixesApplied
		if len(r.Diagnostics) > 0 {
			st.filesWithProblems++
		}
		if r.Changed {
			st.filesChanged++
		}

		if p.opts.Format == "json" {
			diags := r.Diagnostics
			if diags == nil {
				diags = []lint.Diagnostic{}
			}
			p.json = append(p.json, jsonResult{
				Path:         r.Path,
				Changed:      r.Changed,
				FixesApplied: r.FixesApplied,
				Passes:       r.Passes,
				Diagnostics:  diags,
			})
			continue
		}

		for _, d := range r.Diagnostics {
			p.println(d.String())
		}
		switch {
		case r.Changed && p.opts.Write:
			p.printf("%sFixed %s (%d fixes)\n", p.mark(true), r.Path, r.FixesApplied)
		case r.Changed:
			p.printf("Would fix %s (%d fixes)\n", r.Path, r.FixesApplied)
		case p.opts.Verbose && len(r.Diagnostics) == 0:
			p.printf("%sNo problems %s\n", p.mark(true), r.Path)
		}
	}
	return st
}

func (p *printer) summary(st stats) {
	p.println("\n─────────────────────────────────────")
	p.printf("Total files:    %d\n", st.totalFiles+st.errorFiles)
	p.printf("No problems:    %d\n", st.totalFiles-st.filesWithProblems)
	if st.filesWithProblems > 0 {
		p.printf("With problems:  %d %s\n", st.filesWithProblems, p.mark(false))
	}
	p.printf("Problems:       %d\n", st.diagnostics)
	if p.opts.Write {
		p.printf("Fixed:          %d (%d fixes)\n", st.filesChanged, st.fixes)
	} else {
		p.printf("Would fix:      %d (%d fixes)\n", st.filesChanged, st.fixes)
	}
	if st.errorFiles > 0 {
		p.printf("Errors:         %d\n", st.errorFiles)
	}
}

func (p *printer) flush() error {
	if p.err != nil {
		return fmt.Errorf("writing output: %w", p.err)
	}
	if p.opts.Format != "json" {
		return nil
	}

	results := p.json
	if results == nil {
		results = []jsonResult{}
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
