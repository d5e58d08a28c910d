package model

import "time"

type QuestionAnswer struct {
	Id            uint       `gorm:"primaryKey"`
	QuestionTitle string     `gorm:"type:text;not null"`
	QuestionText  string     `gorm:"type:text"`
	ReviewDate    *time.Time `gorm:"type:date"`
	OfficerId     *uint      `gorm:"index"`
	CategoryId    *uint      `gorm:"index"`
	Category      *Category  `gorm:"foreignKey:CategoryId"`
	Keywords      []*Keyword `gorm:"many2many:answer_keywords;joinForeignKey:QuestionAnswerId;joinReferences:KeywordId"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}

type Keyword struct {
	Id          uint   `gorm:"primaryKey"`
	KeywordText string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (Keyword) TableName() string {
	return "keywords"
}

type AnswerKeyword struct {
	QuestionAnswerId uint `gorm:"primaryKey"`
	KeywordId        uint `gorm:"primaryKey"`
}

func (AnswerKeyword) TableName() string {
	return "answer_keywords"
}
