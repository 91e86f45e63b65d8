package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedVersion = errors.New("malformed version")

const wildcard = "*"

// Version is a dotted version such as "1.20.1". A trailing "*" makes it generic:
// it then accepts any further components.
type Version struct {
	numbers []int
	generic bool
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func Parse(text string) (Version, error) {
	parts := strings.Split(text, ".")

	var v Version
	for i, part := range parts {
		if part == wildcard {
			if i != len(parts)-1 {
				return Version{}, fmt.Errorf("%w: %q: wildcard must be the last component", ErrMalformedVersion, text)
			}
			v.generic = true
			break
		}

		if !isDigits(part) {
			return Version{}, fmt.Errorf("%w: %q: invalid component %q", ErrMalformedVersion, text, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformedVersion, text, err)
		}
		v.numbers = append(v.numbers, n)
	}

	return v, nil
}

func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) Generic() bool {
	return v.generic
}

func (v Version) Components() []int {
	return append([]int(nil), v.numbers...)
}

func (v Version) String() string {
	parts := make([]string, 0, len(v.numbers)+1)
	for _, n := range v.numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	if v.generic {
		parts = append(parts, wildcard)
	}
	return strings.Join(parts, ".")
}

// Compare compares the components a and b have in common. Missing components are
// never treated as zero, so "1.2" and "1.2.5" compare as 0.
func Compare(a, b Version) int {
	for i := 0; i < min(len(a.numbers), len(b.numbers)); i++ {
		switch {
		case a.numbers[i] < b.numbers[i]:
			return -1
		case a.numbers[i] > b.numbers[i]:
			return 1
		}
	}
	return 0
}

func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

func (v Version) Greater(o Version) bool {
	return Compare(v, o) > 0
}

func (v Version) Equal(o Version) bool {
	if v.generic != o.generic || len(v.numbers) != len(o.numbers) {
		return false
	}
	for i := range v.numbers {
		if v.numbers[i] != o.numbers[i] {
			return false
		}
	}
	return true
}

// Contains reports whether candidate matches v used as a bound. A non-generic bound
// only matches a candidate with the exact same components; a generic one matches any
// candidate starting with its components.
func (v Version) Contains(candidate Version) bool {
	cl, vl := len(candidate.numbers), len(v.numbers)
	if cl < vl || (!v.generic && cl != vl) {
		return false
	}
	for i := 0; i < vl; i++ {
		if v.numbers[i] != candidate.numbers[i] {
			return false
		}
	}
	return true
}
