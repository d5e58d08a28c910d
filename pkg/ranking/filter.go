package ranking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultConfidenceThreshold = 5.0
	DefaultRelativeRatio       = 0.7
	DefaultSpecificTermMinLen  = 4
)

// FilterOptions tunes the two post-ranking filters.
type FilterOptions struct {
	ConfidenceThreshold float64
	RelativeRatio       float64
	SpecificTermMinLen  int
	GenericTerms        []string
}

func DefaultFilterOptions(genericTerms []string) FilterOptions {
	return FilterOptions{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		RelativeRatio:       DefaultRelativeRatio,
		SpecificTermMinLen:  DefaultSpecificTermMinLen,
		GenericTerms:        genericTerms,
	}
}

// FilterRelative drops candidates below ratio*top when the top score exceeds
// threshold. Input must be sorted descending. Below the threshold the slice is
// returned unchanged.
func FilterRelative(scored []Scored, threshold, ratio float64) []Scored {
	if len(scored) == 0 {
		return scored
	}
	best := scored[0].Total
	if best <= threshold {
		return scored
	}
	cut := best * ratio
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Total >= cut {
			out = append(out, s)
		}
	}
	return out
}

// SpecificTerm picks the first keyword of the top candidate that occurs in the
// compacted query, is longer than minLen runes and is not generic.
func SpecificTerm(top Candidate, rawQuery string, minLen int, genericTerms []string) (string, bool) {
	query := compact(rawQuery)
	generic := make(map[string]struct{}, len(genericTerms))
	for _, g := range genericTerms {
		generic[compact(g)] = struct{}{}
	}

	for _, kw := range top.Keywords {
		k := compact(kw)
		if k == "" || utf8.RuneCountInString(k) <= minLen {
			continue
		}
		if _, skip := generic[k]; skip {
			continue
		}
		if strings.Contains(query, k) {
			return k, true
		}
	}
	return "", false
}

// NarrowBySpecificTerm keeps only candidates whose keywords or title contain
// the specific term of the top candidate. The result may be empty.
func NarrowBySpecificTerm(scored []Scored, rawQuery string, minLen int, genericTerms []string) []Scored {
	if len(scored) == 0 {
		return scored
	}
	term, ok := SpecificTerm(scored[0].Candidate, rawQuery, minLen, genericTerms)
	if !ok {
		return scored
	}

	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if mentions(s.Candidate, term) {
			out = append(out, s)
		}
	}
	return out
}

// PostFilter applies FilterRelative then NarrowBySpecificTerm.
func PostFilter(scored []Scored, rawQuery string, opts FilterOptions) []Scored {
	filtered := FilterRelative(scored, opts.ConfidenceThreshold, opts.RelativeRatio)
	return NarrowBySpecificTerm(filtered, rawQuery, opts.SpecificTermMinLen, opts.GenericTerms)
}

func mentions(c Candidate, term string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(compact(kw), term) {
			return true
		}
	}
	return strings.Contains(compact(c.Title), term)
}

// compact lower-cases s and removes all whitespace.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
}
