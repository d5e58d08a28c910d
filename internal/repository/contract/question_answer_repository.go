package contract

import (
	"context"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/repository/specification"
)

type QuestionAnswerRepository interface {
	// Create stores the record and links its keywords, creating missing ones.
	Create(ctx context.Context, qa *entity.QuestionAnswer) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuestionAnswer, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuestionAnswer, error)
}
