package contract

import (
	"context"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/repository/specification"
)

type CategoryRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
}

type OrganizationRepository interface {
	Summaries(ctx context.Context, specs ...specification.Specification) ([]*entity.OrganizationSummary, error)
}
