package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options select which files FindFiles returns
type Options struct {
	Extensions []string
	// Exclude holds slash-separated globs matched against paths relative to
	// the walked root. "**" matches any number of directories.
	Exclude   []string
	Recursive bool
}

// HasValidExtension checks if a file has one of the valid extensions
func HasValidExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed exclude glob
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Excluded reports whether rel, a slash-separated relative path, matches
// one of patterns
func Excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// FindFiles walks root for files with the given extensions. Hidden
// directories, node_modules and excluded paths are skipped.
func FindFiles(root string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == root {
				return nil
			}
			baseName := d.Name()
			if strings.HasPrefix(baseName, ".") || baseName == "node_modules" {
				return filepath.SkipDir
			}
			if !opts.Recursive || Excluded(rel, opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if HasValidExtension(p, opts.Extensions) && !Excluded(rel, opts.Exclude) {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// Collect expands args, each a file or directory, into the files to process.
// A file named explicitly must carry a valid extension.
func Collect(args []string, opts Options) ([]string, error) {
	var files []string
	seen := map[string]bool{}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access path %s: %w", arg, err)
		}

		var found []string
		if info.IsDir() {
			found, err = FindFiles(arg, opts)
			if err != nil {
				return nil, fmt.Errorf("error finding files: %w", err)
			}
		} else {
			if !HasValidExtension(arg, opts.Extensions) {
				return nil, fmt.Errorf("file %s does not have a valid extension", arg)
			}
			found = []string{arg}
		}

		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}
