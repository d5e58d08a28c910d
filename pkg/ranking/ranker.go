package ranking

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/pkg/textnorm"

	"github.com/panjf2000/ants/v2"
)

// Component weights.
const (
	WeightKeywordOverlap  = 2.0
	WeightSemanticKeyword = 2.5
	WeightSemanticBody    = 1.0
	WeightSemanticTitle   = 2.0
	WeightBodySimilarity  = 1.0
	WeightTitleSimilarity = 2.0
)

const DefaultPoolSize = 8

// Candidate is one knowledge-base record as seen by the ranker.
type Candidate struct {
	ID       uint
	Title    string
	Body     string
	Keywords []string
}

type Components struct {
	KeywordOverlap  float64 `json:"keywordOverlap"`
	SemanticKeyword float64 `json:"semanticKeyword"`
	SemanticBody    float64 `json:"semanticBody"`
	SemanticTitle   float64 `json:"semanticTitle"`
	BodySimilarity  float64 `json:"bodySimilarity"`
	TitleSimilarity float64 `json:"titleSimilarity"`
}

func (c Components) Sum() float64 {
	return c.KeywordOverlap + c.SemanticKeyword + c.SemanticBody +
		c.SemanticTitle + c.BodySimilarity + c.TitleSimilarity
}

type Scored struct {
	Candidate  Candidate
	Total      float64
	Components Components
}

// TokenNormalizer is the part of textnorm.Normalizer the ranker needs.
type TokenNormalizer interface {
	Normalize(ctx context.Context, text string, lex *textnorm.Lexicon) []string
}

// Ranker scores candidates against a normalized query. Candidate text is
// normalized on a bounded worker pool since each candidate may cost several
// tokenizer round trips.
type Ranker struct {
	normalizer TokenNormalizer
	pool       *ants.Pool
	logger     logger.ILogger
}

func NewRanker(normalizer TokenNormalizer, poolSize int, log logger.ILogger) (*Ranker, error) {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Ranker{
		normalizer: normalizer,
		pool:       pool,
		logger:     log,
	}, nil
}

func (r *Ranker) Release() {
	r.pool.Release()
}

// Rank scores every candidate and returns them ordered by total score,
// highest first. Ties keep the input order.
func (r *Ranker) Rank(ctx context.Context, query []string, candidates []Candidate, lex *textnorm.Lexicon, sim SimilarityMap) []Scored {
	results := make([]Scored, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = r.score(ctx, query, candidates[i], lex, sim)
		}
		if err := r.pool.Submit(task); err != nil {
			r.logger.Warn("RANKER", "Pool rejected task, scoring inline", map[string]interface{}{
				"candidate_id": candidates[i].ID,
				"error":        err.Error(),
			})
			task()
		}
	}
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Total > results[b].Total
	})
	return results
}

func (r *Ranker) score(ctx context.Context, query []string, c Candidate, lex *textnorm.Lexicon, sim SimilarityMap) Scored {
	kwTokens := r.normalizer.Normalize(ctx, strings.Join(c.Keywords, " "), lex)
	bodyTokens := r.normalizer.Normalize(ctx, c.Body, lex)
	titleTokens := r.normalizer.Normalize(ctx, c.Title, lex)

	comp := Components{
		KeywordOverlap:  Overlap(query, kwTokens) * WeightKeywordOverlap,
		SemanticKeyword: SemanticOverlap(query, kwTokens, sim) * WeightSemanticKeyword,
		SemanticBody:    SemanticOverlap(query, bodyTokens, sim) * WeightSemanticBody,
		SemanticTitle:   SemanticOverlap(query, titleTokens, sim) * WeightSemanticTitle,
		BodySimilarity:  Jaccard(query, bodyTokens) * WeightBodySimilarity,
		TitleSimilarity: Jaccard(query, titleTokens) * WeightTitleSimilarity,
	}
	return Scored{
		Candidate:  c,
		Total:      comp.Sum(),
		Components: comp,
	}
}
