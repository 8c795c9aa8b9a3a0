package parser

import (
	"regexp"
	"strings"
)

// OptionSet holds the colon-delimited option tokens that follow a marker
type OptionSet map[string]struct{}

// Has reports whether opt was given
func (s OptionSet) Has(opt string) bool {
	_, ok := s[opt]
	return ok
}

// AnnotationMap maps the 1-based line on which an annotated comment ends to
// its decoded options
type AnnotationMap[T any] map[int]T

// AnnotationScanner finds a marker such as "@sort:keys:reverse" inside
// comments. A marker must start its line, optionally behind the gutter
// asterisk of a block comment; free text may follow the options.
type AnnotationScanner struct {
	marker string
	re     *regexp.Regexp
}

// NewAnnotationScanner compiles a scanner for marker
func NewAnnotationScanner(marker string) *AnnotationScanner {
	return &AnnotationScanner{
		marker: marker,
		re:     regexp.MustCompile(`^\s*(?:\*\s*)?(` + regexp.QuoteMeta(marker) + `(?::[\w-]+)*)`),
	}
}

// Marker returns the marker token
func (s *AnnotationScanner) Marker() string {
	return s.marker
}

// Match returns the options of the first line in value carrying the marker
func (s *AnnotationScanner) Match(value string) (OptionSet, bool) {
	for _, line := range strings.Split(value, "\n") {
		m := s.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		opts := OptionSet{}
		for _, tok := range strings.Split(m[1], ":")[1:] {
			opts[tok] = struct{}{}
		}
		return opts, true
	}
	return nil, false
}

// ScanAnnotations decodes every annotated comment with decode
func ScanAnnotations[T any](s *AnnotationScanner, comments []Comment, decode func(OptionSet) T) AnnotationMap[T] {
	annotations := AnnotationMap[T]{}
	for _, c := range comments {
		if opts, ok := s.Match(c.Value); ok {
			annotations[c.Location.End.Line] = decode(opts)
		}
	}
	return annotations
}
