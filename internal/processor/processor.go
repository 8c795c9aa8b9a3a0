package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/log/v2"

	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/lint"
	"github.com/evanrichards/tree-lint-ts/internal/parser"
	"github.com/evanrichards/tree-lint-ts/internal/reconstruction"
)

// Config holds the configuration for processing a file
type Config struct {
	Linter    *lint.Linter
	Logger    *log.Logger
	Write     bool
	MaxPasses int
}

// Result contains the result of processing a file
type Result struct {
	Path string
	// Changed reports whether fixes changed the content, written or not
	Changed bool
	// Diagnostics are the problems found in the original content, or the
	// ones left after fixing when the file was written
	Diagnostics  []lint.Diagnostic
	FixesApplied int
	Passes       int
	Content      []byte
}

// ProcessFile reads, lints and fixes a file, writing it back when requested
func ProcessFile(ctx context.Context, path string, cfg Config) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("reading file: %w", err)
	}

	result, err := ProcessContent(ctx, path, content, cfg)
	if err != nil {
		return result, err
	}

	if cfg.Write && result.Changed {
		info, err := os.Stat(path)
		if err != nil {
			return result, fmt.Errorf("getting file info: %w", err)
		}
		if err := os.WriteFile(path, result.Content, info.Mode()); err != nil {
			return result, fmt.Errorf("writing file: %w", err)
		}
	}

	return result, nil
}

// ProcessContent lints content and runs the fix loop until no fix applies
// or MaxPasses is reached. Each pass re-parses the fixed content.
func ProcessContent(ctx context.Context, path string, content []byte, cfg Config) (Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxPasses := cfg.MaxPasses
	if maxPasses <= 0 {
		maxPasses = config.DefaultMaxPasses
	}

	start := time.Now()
	result := Result{Path: path, Content: content}

	diags, err := lintContent(ctx, cfg.Linter, path, content)
	if err != nil {
		return result, err
	}
	result.Diagnostics = diags

	if !cfg.Linter.Fixable() {
		logger.Debug("processed file", "path", path, "diagnostics", len(diags), "elapsed", time.Since(start))
		return result, nil
	}

	current := content
	remaining := diags
	for result.Passes < maxPasses {
		fixes := fixesOf(remaining)
		if len(fixes) == 0 {
			break
		}

		applied := reconstruction.Apply(current, fixes)
		if applied.Applied == 0 {
			break
		}
		result.Passes++
		result.FixesApplied += applied.Applied
		logger.Debug("applied fixes",
			"path", path,
			"pass", result.Passes,
			"applied", applied.Applied,
			"skipped", applied.Skipped)

		current = applied.Content
		if remaining, err = lintContent(ctx, cfg.Linter, path, current); err != nil {
			return result, fmt.Errorf("pass %d: %w", result.Passes, err)
		}
	}

	if len(fixesOf(remaining)) > 0 {
		logger.Warn("fixes did not converge", "path", path, "passes", result.Passes)
	}

	result.Content = current
	result.Changed = !bytes.Equal(content, current)
	if cfg.Write {
		result.Diagnostics = remaining
	}

	logger.Debug("processed file",
		"path", path,
		"diagnostics", len(diags),
		"fixes", result.FixesApplied,
		"passes", result.Passes,
		"elapsed", time.Since(start))
	return result, nil
}

func lintContent(ctx context.Context, linter *lint.Linter, path string, content []byte) ([]lint.Diagnostic, error) {
	file, err := parser.ParseFile(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}
	defer file.Close()

	diags, err := linter.Lint(file)
	if err != nil {
		return nil, fmt.Errorf("linting file: %w", err)
	}
	return diags, nil
}

func fixesOf(diags []lint.Diagnostic) []*lint.Fix {
	var fixes []*lint.Fix
	for _, d := range diags {
		if d.Fix != nil {
			fixes = append(fixes, d.Fix)
		}
	}
	return fixes
}
