package implementation

import (
	"context"
	"strings"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/model"
	"pcru-chatbot-be/internal/repository/contract"
	"pcru-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LexiconRepositoryImpl struct {
	db *gorm.DB
}

func NewLexiconRepository(db *gorm.DB) contract.LexiconRepository {
	return &LexiconRepositoryImpl{db: db}
}

func (r *LexiconRepositoryImpl) Stopwords(ctx context.Context) ([]string, error) {
	var words []string
	if err := r.db.WithContext(ctx).Model(&model.Stopword{}).Pluck("word", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *LexiconRepositoryImpl) Synonyms(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		InputWord   string
		KeywordText string
	}
	err := r.db.WithContext(ctx).
		Table("keyword_synonyms AS s").
		Select("s.input_word, k.keyword_text").
		Joins("JOIN keywords k ON k.id = s.target_keyword_id").
		Where("s.is_active = ?", true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		in := strings.ToLower(strings.TrimSpace(row.InputWord))
		if in == "" || row.KeywordText == "" {
			continue
		}
		out[in] = strings.ToLower(strings.TrimSpace(row.KeywordText))
	}
	return out, nil
}

func (r *LexiconRepositoryImpl) SemanticPairs(ctx context.Context) ([]*entity.SemanticPair, error) {
	var models []*model.SemanticSimilarity
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.SemanticPair, 0, len(models))
	for _, m := range models {
		out = append(out, &entity.SemanticPair{Word1: m.Word1, Word2: m.Word2, Score: m.Score})
	}
	return out, nil
}

func (r *LexiconRepositoryImpl) NegationWords(ctx context.Context) ([]string, error) {
	var words []string
	query := specification.ActiveOnly{}.Apply(r.db.WithContext(ctx).Model(&model.NegativeKeyword{}))
	if err := query.Pluck("word", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}
