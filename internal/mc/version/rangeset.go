package version

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedRangeExpression = errors.New("malformed range expression")

type Range struct {
	Low  Version
	High Version
}

func (r Range) Contains(candidate Version) bool {
	return r.Low.Contains(candidate) ||
		r.High.Contains(candidate) ||
		(candidate.Greater(r.Low) && candidate.Less(r.High))
}

// RangeSet is a list of ranges written as "1.8-1.12.2,1.16.*". Ranges may overlap;
// they are tried in the order they were written.
type RangeSet struct {
	expr   string
	ranges []Range
}

func ParseRangeSet(expr string) (RangeSet, error) {
	set := RangeSet{expr: expr}

	for _, part := range strings.Split(expr, ",") {
		edges := strings.Split(part, "-")
		if len(edges) > 2 {
			return RangeSet{}, fmt.Errorf("%w: %q: invalid range syntax for %q", ErrMalformedRangeExpression, expr, part)
		}

		low, err := Parse(strings.TrimSpace(edges[0]))
		if err != nil {
			return RangeSet{}, fmt.Errorf("%w: %q: %w", ErrMalformedRangeExpression, expr, err)
		}
		high := low
		if len(edges) == 2 {
			high, err = Parse(strings.TrimSpace(edges[1]))
			if err != nil {
				return RangeSet{}, fmt.Errorf("%w: %q: %w", ErrMalformedRangeExpression, expr, err)
			}
		}

		set.ranges = append(set.ranges, Range{Low: low, High: high})
	}

	return set, nil
}

func (s RangeSet) Has(candidate Version) bool {
	for _, r := range s.ranges {
		if r.Contains(candidate) {
			return true
		}
	}
	return false
}

func (s RangeSet) Ranges() []Range {
	return append([]Range(nil), s.ranges...)
}

func (s RangeSet) String() string {
	return s.expr
}
