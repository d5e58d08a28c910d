package implementation

import (
	"context"
	"errors"
	"strings"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/mapper"
	"pcru-chatbot-be/internal/model"
	"pcru-chatbot-be/internal/repository/contract"
	"pcru-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionAnswerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionAnswerMapper
}

func NewQuestionAnswerRepository(db *gorm.DB) contract.QuestionAnswerRepository {
	return &QuestionAnswerRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionAnswerMapper(),
	}
}

func (r *QuestionAnswerRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QuestionAnswerRepositoryImpl) Create(ctx context.Context, qa *entity.QuestionAnswer) error {
	m := r.mapper.ToModel(qa)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, text := range qa.Keywords {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			kw := model.Keyword{KeywordText: text}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&kw).Error; err != nil {
				return err
			}
			if kw.Id == 0 {
				if err := tx.Where("keyword_text = ?", text).First(&kw).Error; err != nil {
					return err
				}
			}
			m.Keywords = append(m.Keywords, &kw)
		}

		if err := tx.Create(m).Error; err != nil {
			return err
		}
		qa.Id = m.Id
		return nil
	})
}

func (r *QuestionAnswerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuestionAnswer, error) {
	var m model.QuestionAnswer
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuestionAnswerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuestionAnswer, error) {
	var models []*model.QuestionAnswer
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
