package mapper

import (
	"strings"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/model"
)

type QuestionAnswerMapper struct{}

func NewQuestionAnswerMapper() *QuestionAnswerMapper {
	return &QuestionAnswerMapper{}
}

func (m *QuestionAnswerMapper) ToEntity(qa *model.QuestionAnswer) *entity.QuestionAnswer {
	if qa == nil {
		return nil
	}

	keywords := make([]string, 0, len(qa.Keywords))
	for _, k := range qa.Keywords {
		if k == nil || strings.TrimSpace(k.KeywordText) == "" {
			continue
		}
		keywords = append(keywords, k.KeywordText)
	}

	e := &entity.QuestionAnswer{
		Id:         qa.Id,
		Title:      qa.QuestionTitle,
		Text:       qa.QuestionText,
		ReviewDate: qa.ReviewDate,
		OfficerId:  qa.OfficerId,
		CategoryId: qa.CategoryId,
		Keywords:   keywords,
	}
	if qa.Category != nil {
		name := qa.Category.Name
		e.CategoryName = &name
		e.CategoryPdf = qa.Category.Pdf
	}
	return e
}

func (m *QuestionAnswerMapper) ToEntities(items []*model.QuestionAnswer) []*entity.QuestionAnswer {
	entities := make([]*entity.QuestionAnswer, len(items))
	for i, qa := range items {
		entities[i] = m.ToEntity(qa)
	}
	return entities
}

// ToModel maps the record without its associations; keywords are linked
// separately.
func (m *QuestionAnswerMapper) ToModel(qa *entity.QuestionAnswer) *model.QuestionAnswer {
	if qa == nil {
		return nil
	}
	return &model.QuestionAnswer{
		Id:            qa.Id,
		QuestionTitle: qa.Title,
		QuestionText:  qa.Text,
		ReviewDate:    qa.ReviewDate,
		OfficerId:     qa.OfficerId,
		CategoryId:    qa.CategoryId,
	}
}
