package ranking

import "strings"

// SimilarityMap holds pairwise semantic similarity scores in [0,1]. A pair may
// be stored in one direction only, so lookups check both.
type SimilarityMap map[string]map[string]float64

// NewSimilarityMap builds a map from stored pairs. Words are lower-cased and
// trimmed; a repeated pair keeps the higher score.
func NewSimilarityMap(pairs []SimilarityPair) SimilarityMap {
	m := make(SimilarityMap, len(pairs))
	for _, p := range pairs {
		a := strings.ToLower(strings.TrimSpace(p.Word1))
		b := strings.ToLower(strings.TrimSpace(p.Word2))
		if a == "" || b == "" {
			continue
		}
		inner, ok := m[a]
		if !ok {
			inner = make(map[string]float64)
			m[a] = inner
		}
		if cur, seen := inner[b]; !seen || p.Score > cur {
			inner[b] = p.Score
		}
	}
	return m
}

type SimilarityPair struct {
	Word1 string
	Word2 string
	Score float64
}

// Lookup returns the larger of sim(a,b) and sim(b,a), or 0 when neither is stored.
func (m SimilarityMap) Lookup(a, b string) float64 {
	if a == "" || b == "" || m == nil {
		return 0
	}
	score := m[a][b]
	if rev := m[b][a]; rev > score {
		score = rev
	}
	return score
}

func (m SimilarityMap) Len() int {
	n := 0
	for _, inner := range m {
		n += len(inner)
	}
	return n
}

// Jaccard is |A∩B| / |A∪B| over the token sets, and 0 when both are empty.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for x := range setA {
		if _, ok := setB[x]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Overlap counts the query tokens present in target.
func Overlap(query, target []string) float64 {
	set := toSet(target)
	n := 0
	for _, q := range query {
		if _, ok := set[q]; ok {
			n++
		}
	}
	return float64(n)
}

// SemanticOverlap sums, over query tokens, the best similarity to any target token.
func SemanticOverlap(query, target []string, sim SimilarityMap) float64 {
	if len(sim) == 0 {
		return 0
	}
	total := 0.0
	for _, q := range query {
		best := 0.0
		for _, t := range target {
			if s := sim.Lookup(q, t); s > best {
				best = s
			}
		}
		total += best
	}
	return total
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
