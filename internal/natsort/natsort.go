// Package natsort orders names so that embedded numbers compare by value.
//
// Plain lexical sorting puts "file10.md" before "file2.md". Compare splits
// each name into alternating runs of digits and non-digits and compares the
// runs pairwise: two digit runs compare as integers, anything else compares
// as plain strings.
package natsort

import (
	"slices"
	"strings"
)

// CompareFunc orders two names. It returns a negative number when a sorts
// before b, zero when they are equivalent and a positive number otherwise.
type CompareFunc func(a, b string) int

// Compare is the natural-order comparator.
//
// Digit runs are compared by numeric value without converting to an integer
// type, so runs longer than any machine word still order correctly. Leading
// zeros do not affect the value ("007" equals "7"). When every compared
// token is equal, the name with fewer tokens sorts first.
func Compare(a, b string) int {
	ta := tokenize(a)
	tb := tokenize(b)

	for i := 0; i < len(ta) && i < len(tb); i++ {
		x, y := ta[i], tb[i]
		var c int
		if isDigits(x) && isDigits(y) {
			c = compareNumeric(x, y)
		} else {
			c = strings.Compare(x, y)
		}
		if c != 0 {
			return c
		}
	}

	return len(ta) - len(tb)
}

// Lexical is plain byte-wise string ordering.
func Lexical(a, b string) int {
	return strings.Compare(a, b)
}

// Sort orders names in place with cmp, or with Compare when cmp is nil.
// The sort is stable: names the comparator treats as equal keep their
// original relative order.
func Sort(names []string, cmp CompareFunc) {
	if cmp == nil {
		cmp = Compare
	}
	slices.SortStableFunc(names, cmp)
}

// Sorted returns an ordered copy of names, leaving the input untouched.
func Sorted(names []string, cmp CompareFunc) []string {
	out := slices.Clone(names)
	Sort(out, cmp)
	return out
}

// tokenize splits s into maximal runs of ASCII digits and non-digits.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string
	start := 0
	digit := isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if d := isDigit(s[i]); d != digit {
			tokens = append(tokens, s[start:i])
			start = i
			digit = d
		}
	}
	return append(tokens, s[start:])
}

// compareNumeric compares two digit runs by value.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	return s != "" && isDigit(s[0])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
