package contract

import (
	"context"

	"pcru-chatbot-be/internal/entity"
)

type ContactRepository interface {
	FindByQuestionIds(ctx context.Context, ids []uint) ([]*entity.Contact, error)
	// FindDefault returns contacts of top-level categories, used when nothing matched.
	FindDefault(ctx context.Context, limit int) ([]*entity.Contact, error)
}
