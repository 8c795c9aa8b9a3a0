package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/evanrichards/tree-lint-ts/internal/lint"
	"github.com/evanrichards/tree-lint-ts/internal/parser"

	sitter "github.com/smacker/go-tree-sitter"
)

// ForbidPatternEverywhereName is the name of the ForbidPatternEverywhere rule
const ForbidPatternEverywhereName = "forbid-pattern-everywhere"

const msgDisallowedPattern = "disallowedPattern"

// matchTimeout bounds a single pattern search over one file
const matchTimeout = 5 * time.Second

// ErrInvalidPattern is returned for patterns that do not compile
var ErrInvalidPattern = errors.New("invalid pattern")

// ForbidPatternEverywhere reports every match of the configured patterns
// anywhere in the source: identifiers, strings and comments alike
type ForbidPatternEverywhere struct{}

func (ForbidPatternEverywhere) Meta() lint.Meta {
	return lint.Meta{
		Name:        ForbidPatternEverywhereName,
		Description: "disallow specified patterns everywhere (in identifiers, strings, etc.)",
		Type:        lint.TypeLayout,
		Messages: map[string]string{
			msgDisallowedPattern: "Text matches the following disallowed pattern: {{pattern}}",
		},
		Schema: lint.ObjectSchema(map[string]*jsonschema.Schema{
			"patterns": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "regular expressions, either bare or as /source/flags",
			},
		}),
	}
}

func (ForbidPatternEverywhere) Create(ctx *lint.Context) (lint.Listeners, error) {
	patterns, err := patternsOption(ctx.Options)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return lint.Listeners{}, nil
	}

	return lint.Listeners{
		"program": func(*sitter.Node) {
			text := string(ctx.File.Content)
			for _, p := range patterns {
				err := p.each(text, func(start, end int) {
					loc := parser.Location{
						Start: ctx.File.Position(ctx.File.ByteOffset(start)),
						End:   ctx.File.Position(ctx.File.ByteOffset(end)),
					}
					ctx.Report(lint.Descriptor{
						Location:  &loc,
						MessageID: msgDisallowedPattern,
						Data:      map[string]string{"pattern": p.String()},
					})
				})
				if err != nil {
					ctx.Logger.Warn("pattern search aborted", "path", ctx.File.Path, "pattern", p.String(), "err", err)
				}
			}
		},
	}, nil
}

func patternsOption(options map[string]any) ([]*Pattern, error) {
	raw, _ := options["patterns"].([]any)
	patterns := make([]*Pattern, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not a string", ErrInvalidPattern, v)
		}
		p, err := CompilePattern(s)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Pattern is a JavaScript style regular expression. Matching is always
// global.
type Pattern struct {
	Source string
	Flags  string
	re     *regexp2.Regexp
}

// jsFlagOrder is the order JavaScript prints flags in
const jsFlagOrder = "dgimsuvy"

// splitLiteral splits "/source/flags" when everything after the last slash
// is a JavaScript flag. Any other text is a bare source.
func splitLiteral(pattern string) (source, flags string, literal bool) {
	if len(pattern) < 2 || pattern[0] != '/' {
		return pattern, "", false
	}
	i := strings.LastIndexByte(pattern, '/')
	if i == 0 {
		return pattern, "", false
	}
	for _, f := range pattern[i+1:] {
		if !strings.ContainsRune(jsFlagOrder, f) {
			return pattern, "", false
		}
	}
	return pattern[1:i], pattern[i+1:], true
}

// escapeSlashes escapes the bare slashes of a source the way a JavaScript
// RegExp prints its source
func escapeSlashes(source string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range source {
		if r == '/' && !escaped {
			sb.WriteByte('\\')
		}
		escaped = r == '\\' && !escaped
		sb.WriteRune(r)
	}
	return sb.String()
}

// CompilePattern compiles "source" or "/source/flags" with ECMAScript
// semantics
func CompilePattern(pattern string) (*Pattern, error) {
	source, flags, literal := splitLiteral(pattern)

	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	seen := map[rune]bool{'g': true}
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'v':
			opts |= regexp2.Unicode
		}
		seen[f] = true
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPattern, pattern, err)
	}
	re.MatchTimeout = matchTimeout

	var ordered strings.Builder
	for _, f := range jsFlagOrder {
		if seen[f] {
			ordered.WriteRune(f)
		}
	}

	display := source
	if !literal {
		display = escapeSlashes(source)
	}
	return &Pattern{Source: display, Flags: ordered.String(), re: re}, nil
}

// String renders the pattern as a JavaScript regex literal
func (p *Pattern) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// each calls fn with the rune offsets [start, end) of every match
func (p *Pattern) each(text string, fn func(start, end int)) error {
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		fn(m.Index, m.Index+m.Length)
		m, err = p.re.FindNextMatch(m)
	}
	return err
}
