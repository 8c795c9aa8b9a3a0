package common

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders keys the way a reader expects: case-insensitive
// collation with numeric runs compared by value, then uppercase before
// lowercase. A Comparator is not safe for concurrent use.
type Comparator struct {
	collator *collate.Collator
}

// NewComparator creates a comparator for the root locale
func NewComparator() *Comparator {
	return &Comparator{
		collator: collate.New(language.Und, collate.IgnoreCase, collate.Numeric),
	}
}

// Compare returns -1, 0 or 1. Unsortable keys order after sortable ones in
// either direction, and reverse only flips the order among sortable keys.
func (c *Comparator) Compare(a, b Key, reverse bool) int {
	switch {
	case !a.Sortable && !b.Sortable:
		return 0
	case !a.Sortable:
		return 1
	case !b.Sortable:
		return -1
	}

	res := c.CompareKeys(a.Text, b.Text)
	if reverse {
		res = -res
	}
	return res
}

// CompareKeys compares two canonical strings
func (c *Comparator) CompareKeys(a, b string) int {
	if res := c.collator.CompareString(a, b); res != 0 {
		return res
	}
	return upperFirst(a, b)
}

// upperFirst breaks ties between strings the collator considers equal. At
// the first differing rune an uppercase letter wins over its lowercase form.
func upperFirst(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			switch {
			case unicode.IsUpper(ra) && !unicode.IsUpper(rb):
				return -1
			case unicode.IsUpper(rb) && !unicode.IsUpper(ra):
				return 1
			case ra < rb:
				return -1
			default:
				return 1
			}
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
