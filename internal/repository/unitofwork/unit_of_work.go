package unitofwork

import (
	"pcru-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	QuestionAnswerRepository() contract.QuestionAnswerRepository
	ContactRepository() contract.ContactRepository
	LexiconRepository() contract.LexiconRepository
	CategoryRepository() contract.CategoryRepository
	OrganizationRepository() contract.OrganizationRepository
}
