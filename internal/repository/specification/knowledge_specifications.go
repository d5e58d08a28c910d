package specification

import "gorm.io/gorm"

// WithKeywords preloads the keyword list of each Q&A record.
type WithKeywords struct{}

func (s WithKeywords) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Keywords")
}

// WithCategory preloads the category of each Q&A record.
type WithCategory struct{}

func (s WithCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

// WithContacts preloads the contact lines of each category.
type WithContacts struct{}

func (s WithContacts) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Contacts", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// RootCategories keeps categories without a parent.
type RootCategories struct{}

func (s RootCategories) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IS NULL")
}

// ActiveOnly keeps rows flagged active.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
