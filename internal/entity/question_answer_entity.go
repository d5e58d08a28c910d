package entity

import "time"

// QuestionAnswer is one knowledge-base record together with its keywords and
// category label.
type QuestionAnswer struct {
	Id           uint
	Title        string
	Text         string
	ReviewDate   *time.Time
	OfficerId    *uint
	CategoryId   *uint
	CategoryName *string
	CategoryPdf  *string
	Keywords     []string
}

// Contact is a contact line attached to a category, labelled with the
// organization that owns the answer.
type Contact struct {
	Organization *string
	Category     *string
	Contact      string
}
