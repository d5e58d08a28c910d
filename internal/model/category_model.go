package model

type Category struct {
	Id       uint               `gorm:"primaryKey"`
	Name     string             `gorm:"type:varchar(255);not null"`
	ParentId *uint              `gorm:"index"`
	Pdf      *string            `gorm:"type:text"`
	Contacts []*CategoryContact `gorm:"foreignKey:CategoryId"`
}

func (Category) TableName() string {
	return "categories"
}

type CategoryContact struct {
	Id         uint   `gorm:"primaryKey"`
	CategoryId uint   `gorm:"not null;index"`
	Contact    string `gorm:"type:text;not null"`
}

func (CategoryContact) TableName() string {
	return "category_contacts"
}
