package service

import (
	"context"
	"fmt"
	"strings"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/repository/specification"
	"pcru-chatbot-be/internal/repository/unitofwork"
)

// contactSeparator joins the contact lines of one category for the public tree.
const contactSeparator = " ||| "

type ICategoryService interface {
	PublicCategories(ctx context.Context) (*dto.PublicCategoriesResponse, error)
}

type categoryService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCategoryService(uowFactory unitofwork.RepositoryFactory) ICategoryService {
	return &categoryService{uowFactory: uowFactory}
}

func (c *categoryService) PublicCategories(ctx context.Context) (*dto.PublicCategoriesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	categories, err := uow.CategoryRepository().FindAll(ctx,
		specification.WithContacts{},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}

	out := make([]*dto.PublicCategoryDTO, 0, len(categories))
	for _, cat := range categories {
		out = append(out, &dto.PublicCategoryDTO{
			CategoriesID:       cat.Id,
			CategoriesName:     cat.Name,
			ParentCategoriesID: cat.ParentId,
			CategoriesPDF:      cat.Pdf,
			Contact:            strings.Join(cat.Contacts, contactSeparator),
		})
	}

	return &dto.PublicCategoriesResponse{
		Categories: out,
		Count:      len(out),
	}, nil
}
