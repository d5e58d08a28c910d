package service

import (
	"context"
	"sync"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/metrics"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/repository/unitofwork"
	"pcru-chatbot-be/pkg/ranking"
	"pcru-chatbot-be/pkg/textnorm"

	"golang.org/x/sync/errgroup"
)

// turnLexicon is the word data of one turn. It is loaded fresh at the start of
// every turn and passed down explicitly.
type turnLexicon struct {
	words         *textnorm.Lexicon
	similarity    ranking.SimilarityMap
	negationWords []string
}

type lexiconLoader struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// load reads every lexicon source concurrently. A failing source is logged and
// treated as empty; load itself never fails.
func (l *lexiconLoader) load(ctx context.Context) *turnLexicon {
	repo := l.uowFactory.NewUnitOfWork(ctx).LexiconRepository()

	var (
		mu            sync.Mutex
		stopwords     []string
		synonyms      map[string]string
		pairs         []*entity.SemanticPair
		negationWords []string
	)

	degrade := func(source string, err error) {
		metrics.LexiconLoadFailures.WithLabelValues(source).Inc()
		l.logger.Warn("LEXICON", "Lexicon source unavailable, using empty data", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		words, err := repo.Stopwords(egCtx)
		if err != nil {
			degrade("stopwords", err)
			return nil
		}
		mu.Lock()
		stopwords = words
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		m, err := repo.Synonyms(egCtx)
		if err != nil {
			degrade("synonyms", err)
			return nil
		}
		mu.Lock()
		synonyms = m
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		p, err := repo.SemanticPairs(egCtx)
		if err != nil {
			degrade("semantic", err)
			return nil
		}
		mu.Lock()
		pairs = p
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		words, err := repo.NegationWords(egCtx)
		if err != nil {
			degrade("negation", err)
			return nil
		}
		mu.Lock()
		negationWords = words
		mu.Unlock()
		return nil
	})

	_ = eg.Wait()

	simPairs := make([]ranking.SimilarityPair, 0, len(pairs))
	for _, p := range pairs {
		if p == nil {
			continue
		}
		simPairs = append(simPairs, ranking.SimilarityPair{Word1: p.Word1, Word2: p.Word2, Score: p.Score})
	}

	lex := &turnLexicon{
		words:         textnorm.NewLexicon(stopwords, synonyms),
		similarity:    ranking.NewSimilarityMap(simPairs),
		negationWords: negationWords,
	}
	l.logger.Debug("LEXICON", "Lexicon loaded", map[string]interface{}{
		"stopwords":      lex.words.StopwordCount(),
		"synonyms":       len(synonyms),
		"semantic_words": lex.similarity.Len(),
		"negation_words": len(negationWords),
	})
	return lex
}
