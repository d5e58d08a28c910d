package implementation

import (
	"context"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) contract.ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

type contactRow struct {
	OrgId        *uint
	Organization *string
	Category     *string
	Contact      string
}

// A category's contacts include those of its parent category.
func (r *ContactRepositoryImpl) FindByQuestionIds(ctx context.Context, ids []uint) ([]*entity.Contact, error) {
	if len(ids) == 0 {
		return []*entity.Contact{}, nil
	}

	var rows []contactRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT org.id AS org_id, org.name AS organization, c.name AS category, cc.contact AS contact
		FROM question_answers qa
		LEFT JOIN officers o ON qa.officer_id = o.id
		LEFT JOIN organizations org ON o.org_id = org.id
		LEFT JOIN categories c ON qa.category_id = c.id
		LEFT JOIN category_contacts cc ON (c.id = cc.category_id OR c.parent_id = cc.category_id)
		WHERE qa.id IN ?
		  AND cc.contact IS NOT NULL AND TRIM(cc.contact) <> ''
		ORDER BY org.id ASC, c.name ASC
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toContacts(rows), nil
}

func (r *ContactRepositoryImpl) FindDefault(ctx context.Context, limit int) ([]*entity.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []contactRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT NULL AS org_id, NULL AS organization, c.name AS category, cc.contact AS contact
		FROM categories c
		JOIN category_contacts cc ON cc.category_id = c.id
		WHERE c.parent_id IS NULL
		  AND TRIM(cc.contact) <> ''
		ORDER BY c.name ASC, cc.id ASC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toContacts(rows), nil
}

func toContacts(rows []contactRow) []*entity.Contact {
	out := make([]*entity.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Contact{
			Organization: row.Organization,
			Category:     row.Category,
			Contact:      row.Contact,
		})
	}
	return out
}
