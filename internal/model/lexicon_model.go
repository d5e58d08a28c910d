package model

type Stopword struct {
	Id   uint   `gorm:"primaryKey"`
	Word string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (Stopword) TableName() string {
	return "stopwords"
}

// KeywordSynonym maps a user word onto a canonical keyword.
type KeywordSynonym struct {
	Id              uint     `gorm:"primaryKey"`
	InputWord       string   `gorm:"type:varchar(255);not null;index"`
	TargetKeywordId uint     `gorm:"not null;index"`
	TargetKeyword   *Keyword `gorm:"foreignKey:TargetKeywordId"`
	IsActive        bool     `gorm:"not null;default:true"`
}

func (KeywordSynonym) TableName() string {
	return "keyword_synonyms"
}

type NegativeKeyword struct {
	Id       uint   `gorm:"primaryKey"`
	Word     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true"`
}

func (NegativeKeyword) TableName() string {
	return "negative_keywords"
}

type SemanticSimilarity struct {
	Id    uint    `gorm:"primaryKey"`
	Word1 string  `gorm:"type:varchar(255);not null;index:idx_semantic_pair"`
	Word2 string  `gorm:"type:varchar(255);not null;index:idx_semantic_pair"`
	Score float64 `gorm:"not null"`
}

func (SemanticSimilarity) TableName() string {
	return "semantic_similarities"
}
