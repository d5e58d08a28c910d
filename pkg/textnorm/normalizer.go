package textnorm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"pcru-chatbot-be/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// MaxRefineIterations bounds the refinement queue on pathological input.
	MaxRefineIterations = 1000

	initialCutMaxRunes = 4
	prefixStripMaxRunes = 2
)

// Normalizer turns free text into content tokens.
type Normalizer struct {
	tokenizer Tokenizer
	logger    logger.ILogger
	fallbacks prometheus.Counter
}

type Option func(*Normalizer)

// WithFallbackCounter counts turns that used local segmentation.
func WithFallbackCounter(c prometheus.Counter) Option {
	return func(n *Normalizer) {
		n.fallbacks = c
	}
}

// NewNormalizer creates a normalizer. tokenizer may be nil, in which case local
// segmentation is always used.
func NewNormalizer(tokenizer Tokenizer, log logger.ILogger, opts ...Option) *Normalizer {
	n := &Normalizer{
		tokenizer: tokenizer,
		logger:    log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize never fails. On an internal fault it degrades to the trimmed raw
// text as a single token.
func (n *Normalizer) Normalize(ctx context.Context, text string, lex *Lexicon) (tokens []string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("NORMALIZER", "Normalization failed, using raw text", map[string]interface{}{
				"error": fmt.Sprint(r),
			})
			tokens = rawFallback(text)
		}
	}()

	if lex == nil {
		lex = EmptyLexicon()
	}

	separated := Clean(text)
	if strings.TrimSpace(separated) == "" {
		return []string{}
	}

	if n.tokenizer != nil {
		if external := n.tokenizer.Tokenize(ctx, separated); len(external) > 0 {
			return canonicalize(refine(external, lex), lex)
		}
	}

	if n.fallbacks != nil {
		n.fallbacks.Inc()
	}
	return canonicalize(refine(segmentLocally(separated, lex), lex), lex)
}

func rawFallback(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{}
	}
	return []string{trimmed}
}

// segmentLocally cuts on short stopwords, splits on whitespace and strips one
// short stopword prefix per token.
func segmentLocally(separated string, lex *Lexicon) []string {
	segmented := separated
	for _, sw := range lex.stopwordsUpTo(initialCutMaxRunes) {
		segmented = strings.ReplaceAll(segmented, sw, " ")
	}

	prefixes := lex.stopwordsUpTo(prefixStripMaxRunes)

	tokens := make([]string, 0)
	for _, tok := range strings.Fields(segmented) {
		if lex.IsStopword(tok) {
			continue
		}
		stripped := tok
		for _, sw := range prefixes {
			if strings.HasPrefix(stripped, sw) && utf8.RuneCountInString(stripped) > utf8.RuneCountInString(sw) {
				stripped = stripped[len(sw):]
				break
			}
		}
		if stripped != "" && !lex.IsStopword(stripped) {
			tokens = append(tokens, stripped)
		}
	}
	return tokens
}

// refine drops stopwords, splits tokens that contain a stopword (longest
// stopword first) and deduplicates, preserving first-seen order.
func refine(tokens []string, lex *Lexicon) []string {
	result := make([]string, 0, len(tokens))
	queue := append([]string(nil), tokens...)
	seen := make(map[string]struct{}, len(tokens))

	for iterations := 0; len(queue) > 0; iterations++ {
		if iterations > MaxRefineIterations {
			break
		}

		tok := strings.TrimSpace(queue[0])
		queue = queue[1:]

		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}

		if lex.IsStopword(tok) {
			continue
		}

		split := false
		for _, sw := range lex.longestFirst {
			if tok == sw || !strings.Contains(tok, sw) {
				continue
			}
			parts := make([]string, 0, 2)
			for _, p := range strings.Split(tok, sw) {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			queue = append(parts, queue...)
			split = true
			break
		}

		if !split {
			result = append(result, tok)
		}
	}
	return result
}

func canonicalize(tokens []string, lex *Lexicon) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = lex.Canonical(tok)
	}
	return out
}
