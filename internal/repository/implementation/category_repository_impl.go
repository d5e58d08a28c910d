package implementation

import (
	"context"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/mapper"
	"pcru-chatbot-be/internal/model"
	"pcru-chatbot-be/internal/repository/contract"
	"pcru-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CategoryMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCategoryMapper(),
	}
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

type OrganizationRepositoryImpl struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) contract.OrganizationRepository {
	return &OrganizationRepositoryImpl{db: db}
}

// Summaries counts officers per organization. Ordering and paging come from specs.
func (r *OrganizationRepositoryImpl) Summaries(ctx context.Context, specs ...specification.Specification) ([]*entity.OrganizationSummary, error) {
	query := r.db.WithContext(ctx).
		Table("organizations AS org").
		Select("org.id, org.name, org.description, COUNT(o.id) AS officer_count").
		Joins("LEFT JOIN officers o ON o.org_id = org.id").
		Group("org.id, org.name, org.description")
	for _, spec := range specs {
		query = spec.Apply(query)
	}

	var rows []*entity.OrganizationSummary
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
