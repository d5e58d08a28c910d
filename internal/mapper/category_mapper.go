package mapper

import (
	"strings"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/model"
)

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

func (m *CategoryMapper) ToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	contacts := make([]string, 0, len(c.Contacts))
	for _, cc := range c.Contacts {
		if cc == nil || strings.TrimSpace(cc.Contact) == "" {
			continue
		}
		contacts = append(contacts, cc.Contact)
	}
	return &entity.Category{
		Id:       c.Id,
		Name:     c.Name,
		ParentId: c.ParentId,
		Pdf:      c.Pdf,
		Contacts: contacts,
	}
}

func (m *CategoryMapper) ToEntities(items []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
