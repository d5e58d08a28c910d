package unitofwork

import (
	"pcru-chatbot-be/internal/repository/contract"
	"pcru-chatbot-be/internal/repository/implementation"

	"gorm.io/gorm"
)

// UnitOfWorkImpl hands out repositories bound to one request's database handle.
type UnitOfWorkImpl struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) QuestionAnswerRepository() contract.QuestionAnswerRepository {
	return implementation.NewQuestionAnswerRepository(u.db)
}

func (u *UnitOfWorkImpl) ContactRepository() contract.ContactRepository {
	return implementation.NewContactRepository(u.db)
}

func (u *UnitOfWorkImpl) LexiconRepository() contract.LexiconRepository {
	return implementation.NewLexiconRepository(u.db)
}

func (u *UnitOfWorkImpl) CategoryRepository() contract.CategoryRepository {
	return implementation.NewCategoryRepository(u.db)
}

func (u *UnitOfWorkImpl) OrganizationRepository() contract.OrganizationRepository {
	return implementation.NewOrganizationRepository(u.db)
}
