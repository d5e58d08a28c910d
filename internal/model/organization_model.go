package model

type Organization struct {
	Id          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	AdminUserId *uint      `gorm:"index"`
	Officers    []*Officer `gorm:"foreignKey:OrgId"`
}

func (Organization) TableName() string {
	return "organizations"
}

type Officer struct {
	Id    uint   `gorm:"primaryKey"`
	OrgId uint   `gorm:"not null;index"`
	Name  string `gorm:"type:varchar(255);not null"`
}

func (Officer) TableName() string {
	return "officers"
}
