package contract

import (
	"context"

	"pcru-chatbot-be/internal/entity"
)

type LexiconRepository interface {
	Stopwords(ctx context.Context) ([]string, error)
	// Synonyms maps an input word to its canonical keyword text.
	Synonyms(ctx context.Context) (map[string]string, error)
	SemanticPairs(ctx context.Context) ([]*entity.SemanticPair, error)
	NegationWords(ctx context.Context) ([]string, error)
}
