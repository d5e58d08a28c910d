package negation

import (
	"strings"
)

// MinKeywordRunes is the shortest rejected keyword worth blocking.
const MinKeywordRunes = 2

// DomainRule tags a rejected keyword with a coarse topic when it contains any
// of the substrings.
type DomainRule struct {
	Tag        string
	Substrings []string
}

// Finding is the outcome of negation detection for one turn. A triggered
// finding with no keywords and no domains means "acknowledge the rejection,
// but there is nothing to block".
type Finding struct {
	Triggered   bool
	TriggerWord string
	Keywords    []string
	Domains     []string
}

func (f Finding) Actionable() bool {
	return f.Triggered && (len(f.Keywords) > 0 || len(f.Domains) > 0)
}

type Detector struct {
	analyzer PairAnalyzer
	rules    []DomainRule
}

func NewDetector(analyzer PairAnalyzer, rules []DomainRule) *Detector {
	if analyzer == nil {
		analyzer = AdjacencyAnalyzer{}
	}
	return &Detector{
		analyzer: analyzer,
		rules:    rules,
	}
}

// Detect runs the surface scan and the structural analysis and merges them.
func (d *Detector) Detect(rawText string, rawTokens, normalized, negationWords []string) Finding {
	words := longestFirst(negationWords)
	if len(words) == 0 {
		return Finding{}
	}

	known := make(map[string]struct{}, len(words))
	for _, w := range words {
		known[w] = struct{}{}
	}

	var finding Finding
	keywords := make([]string, 0, 2)
	domains := make([]string, 0, 1)

	// Surface scan: the longest trigger present wins, the word after it is the keyword.
	lower := strings.ToLower(rawText)
	for _, w := range words {
		idx := strings.Index(lower, w)
		if idx < 0 {
			continue
		}
		finding.Triggered = true
		finding.TriggerWord = w

		after := strings.TrimSpace(lower[idx+len(w):])
		if kw := firstWord(after); runeLen(kw) >= MinKeywordRunes {
			keywords = append(keywords, kw)
			domains = append(domains, d.Classify(kw)...)
		}
		break
	}

	// Structural analysis: only pairs whose negation word is a known one count.
	for _, p := range d.analyzer.Analyze(rawTokens, normalized, words) {
		neg := strings.ToLower(strings.TrimSpace(p.NegationWord))
		if _, ok := known[neg]; !ok {
			continue
		}
		finding.Triggered = true
		if finding.TriggerWord == "" {
			finding.TriggerWord = neg
		}

		kw := strings.ToLower(strings.TrimSpace(p.Keyword))
		if runeLen(kw) >= MinKeywordRunes {
			keywords = append(keywords, kw)
		}
		domains = append(domains, d.Classify(kw)...)
	}

	finding.Keywords = dedupe(keywords)
	finding.Domains = dedupe(domains)
	return finding
}

// Classify returns every domain tag whose substrings occur in keyword.
func (d *Detector) Classify(keyword string) []string {
	tags := make([]string, 0)
	if keyword == "" {
		return tags
	}
	for _, rule := range d.rules {
		for _, sub := range rule.Substrings {
			if sub != "" && strings.Contains(keyword, sub) {
				tags = append(tags, rule.Tag)
				break
			}
		}
	}
	return tags
}

// ParseDomainRules reads "tag:sub1|sub2;tag2:sub3".
func ParseDomainRules(raw string) []DomainRule {
	rules := make([]DomainRule, 0)
	for _, chunk := range strings.Split(raw, ";") {
		tag, subs, ok := strings.Cut(chunk, ":")
		tag = strings.ToLower(strings.TrimSpace(tag))
		if !ok || tag == "" {
			continue
		}
		rule := DomainRule{Tag: tag}
		for _, s := range strings.Split(subs, "|") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				rule.Substrings = append(rule.Substrings, s)
			}
		}
		if len(rule.Substrings) > 0 {
			rules = append(rules, rule)
		}
	}
	return rules
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
