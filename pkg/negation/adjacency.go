package negation

import (
	"sort"
	"strings"
)

// maxLookahead is how many raw words past a trigger are searched for the
// negated content word.
const maxLookahead = 3

// Pair links a negation word to the keyword it negates.
type Pair struct {
	NegationWord string
	Keyword      string
}

// PairAnalyzer finds negation/keyword pairs in one message.
type PairAnalyzer interface {
	Analyze(rawTokens, normalized, negationWords []string) []Pair
}

// AdjacencyAnalyzer pairs each trigger with the first content token that
// follows it in the raw message. InlinePatterns widen the trigger list beyond
// the known negation words, so its pairs must be checked by the caller.
type AdjacencyAnalyzer struct {
	InlinePatterns []string
}

func (a AdjacencyAnalyzer) Analyze(rawTokens, normalized, negationWords []string) []Pair {
	triggers := longestFirst(append(append([]string(nil), negationWords...), a.InlinePatterns...))
	if len(triggers) == 0 || len(rawTokens) == 0 {
		return nil
	}

	isTrigger := make(map[string]struct{}, len(triggers))
	for _, t := range triggers {
		isTrigger[t] = struct{}{}
	}

	pairs := make([]Pair, 0)
	for i := 0; i < len(rawTokens); {
		trigger, rest, next := matchTrigger(rawTokens, i, triggers)
		if trigger == "" {
			i++
			continue
		}

		// A trigger glued to the following word only counts when that remainder
		// holds a content token, so "no" inside "north" pairs with nothing.
		keyword := ""
		if rest != "" {
			keyword = firstContent(rest, normalized, isTrigger)
		}
		for j := next; keyword == "" && rest == "" && j < len(rawTokens) && j < next+maxLookahead; j++ {
			keyword = firstContent(rawTokens[j], normalized, isTrigger)
		}

		if keyword != "" {
			pairs = append(pairs, Pair{NegationWord: trigger, Keyword: keyword})
		}
		i = next
	}
	return pairs
}

// matchTrigger checks whether a (possibly multi-word) trigger starts at
// rawTokens[i]. The trigger's last word only has to prefix its raw token, so
// "ไม่เอาหอพัก" matches "ไม่เอา" with rest "หอพัก".
func matchTrigger(rawTokens []string, i int, triggers []string) (trigger, rest string, next int) {
	for _, t := range triggers {
		words := strings.Fields(t)
		n := len(words)
		if n == 0 || i+n > len(rawTokens) {
			continue
		}

		matched := true
		for k := 0; k < n-1; k++ {
			if rawTokens[i+k] != words[k] {
				matched = false
				break
			}
		}
		last := rawTokens[i+n-1]
		if !matched || !strings.HasPrefix(last, words[n-1]) {
			continue
		}
		return t, last[len(words[n-1]):], i + n
	}
	return "", "", i + 1
}

// firstContent returns the normalized token appearing earliest in segment.
func firstContent(segment string, normalized []string, isTrigger map[string]struct{}) string {
	best, bestIdx := "", -1
	for _, tok := range normalized {
		if tok == "" {
			continue
		}
		if _, skip := isTrigger[tok]; skip {
			continue
		}
		idx := strings.Index(segment, tok)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx || (idx == bestIdx && len(tok) > len(best)) {
			best, bestIdx = tok, idx
		}
	}
	return best
}

func longestFirst(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := runeLen(out[i]), runeLen(out[j])
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}
