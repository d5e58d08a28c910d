package textnorm

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Lexicon is the per-turn word data used by normalization. It is built once at
// the start of a turn and never mutated afterwards.
type Lexicon struct {
	stopwords map[string]struct{}
	synonyms  map[string]string

	longestFirst  []string // refinement order
	shortestFirst []string // fallback segmentation order
}

// NewLexicon builds a lexicon from raw stopword and synonym data. Stopwords are
// lower-cased and trimmed; synonym keys are matched lower-cased.
func NewLexicon(stopwords []string, synonyms map[string]string) *Lexicon {
	set := make(map[string]struct{}, len(stopwords))
	for _, sw := range stopwords {
		sw = strings.ToLower(strings.TrimSpace(sw))
		if sw == "" {
			continue
		}
		set[sw] = struct{}{}
	}

	syn := make(map[string]string, len(synonyms))
	for in, target := range synonyms {
		in = strings.ToLower(strings.TrimSpace(in))
		target = strings.ToLower(strings.TrimSpace(target))
		if in == "" || target == "" {
			continue
		}
		syn[in] = target
	}

	words := make([]string, 0, len(set))
	for sw := range set {
		words = append(words, sw)
	}

	longest := append([]string(nil), words...)
	sort.Slice(longest, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(longest[i]), utf8.RuneCountInString(longest[j])
		if li != lj {
			return li > lj
		}
		return longest[i] < longest[j]
	})

	shortest := append([]string(nil), words...)
	sort.Slice(shortest, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(shortest[i]), utf8.RuneCountInString(shortest[j])
		if li != lj {
			return li < lj
		}
		return shortest[i] < shortest[j]
	})

	return &Lexicon{
		stopwords:     set,
		synonyms:      syn,
		longestFirst:  longest,
		shortestFirst: shortest,
	}
}

// EmptyLexicon has no stopwords and no synonyms.
func EmptyLexicon() *Lexicon {
	return NewLexicon(nil, nil)
}

func (l *Lexicon) IsStopword(word string) bool {
	_, ok := l.stopwords[word]
	return ok
}

// Canonical returns the synonym target for word, or word itself.
func (l *Lexicon) Canonical(word string) string {
	key := strings.ToLower(strings.TrimSpace(word))
	if target, ok := l.synonyms[key]; ok {
		return target
	}
	return word
}

func (l *Lexicon) StopwordCount() int {
	return len(l.stopwords)
}

// stopwordsUpTo returns stopwords with at most n runes, shortest first.
func (l *Lexicon) stopwordsUpTo(n int) []string {
	out := make([]string, 0)
	for _, sw := range l.shortestFirst {
		if utf8.RuneCountInString(sw) > n {
			break
		}
		out = append(out, sw)
	}
	return out
}
