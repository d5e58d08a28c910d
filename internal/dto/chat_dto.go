package dto

import "strings"

// ChatRequest is the body of POST /api/chat/respond. Text is accepted as an
// alias of Message for older clients.
type ChatRequest struct {
	Message           *string `json:"message"`
	Text              *string `json:"text"`
	Id                *uint   `json:"id" validate:"omitempty,gt=0"`
	ResetConversation bool    `json:"resetConversation"`
}

// Query returns the user's message and whether the field was sent at all.
func (r *ChatRequest) Query() (string, bool) {
	switch {
	case r.Message != nil && *r.Message != "":
		return *r.Message, true
	case r.Text != nil && *r.Text != "":
		return *r.Text, true
	case r.Message != nil || r.Text != nil:
		return "", true
	}
	return "", false
}

func (r *ChatRequest) HasQuestionId() bool {
	return r.Id != nil && *r.Id > 0
}

// ResetOnly is a reset signal with nothing else to answer.
func (r *ChatRequest) ResetOnly() bool {
	if !r.ResetConversation || r.HasQuestionId() {
		return false
	}
	q, _ := r.Query()
	return strings.TrimSpace(q) == ""
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Found   *bool  `json:"found,omitempty"`
	Reset   bool   `json:"reset,omitempty"`
	Message string `json:"message,omitempty"`

	*ContactList
	*BlockedSummary
	*MatchSummary
	*AnswerDetail
}

// ContactList is attached to match and no-match answers. The key is always
// present there, empty when nobody is on file.
type ContactList struct {
	Contacts []ContactDTO `json:"contacts"`
}

// BlockedSummary is attached when a turn was answered by the exclusion logic.
type BlockedSummary struct {
	BlockedDomains         []string `json:"blockedDomains"`
	BlockedKeywords        []string `json:"blockedKeywords"`
	BlockedKeywordsDisplay []string `json:"blockedKeywordsDisplay"`
}

type MatchSummary struct {
	MultipleResults bool             `json:"multipleResults"`
	Query           string           `json:"query"`
	Alternatives    []AlternativeDTO `json:"alternatives"`
}

// AnswerDetail is the answer of a lookup by question id.
type AnswerDetail struct {
	Answer        string  `json:"answer"`
	Title         string  `json:"title"`
	QuestionId    uint    `json:"questionId"`
	Categories    *string `json:"categories"`
	CategoriesPDF *string `json:"categoriesPDF"`
}

type AlternativeDTO struct {
	Id            uint     `json:"id"`
	Title         string   `json:"title"`
	Preview       string   `json:"preview"`
	Text          string   `json:"text"`
	Score         string   `json:"score"`
	Keywords      []string `json:"keywords"`
	Categories    *string  `json:"categories"`
	CategoriesPDF *string  `json:"categoriesPDF"`
}

type ContactDTO struct {
	Organization *string `json:"organization"`
	Category     *string `json:"category"`
	Contact      string  `json:"contact"`
}

func BoolPtr(b bool) *bool {
	return &b
}
