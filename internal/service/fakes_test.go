package service

import (
	"context"
	"strings"
	"sync"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/repository/contract"
	"pcru-chatbot-be/internal/repository/specification"
	"pcru-chatbot-be/internal/repository/unitofwork"
	"pcru-chatbot-be/pkg/textnorm"
)

type fakeQARepo struct {
	records []*entity.QuestionAnswer
	err     error
}

func (f *fakeQARepo) Create(ctx context.Context, qa *entity.QuestionAnswer) error {
	f.records = append(f.records, qa)
	return nil
}

func (f *fakeQARepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuestionAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range specs {
		byID, ok := s.(specification.ByID)
		if !ok {
			continue
		}
		for _, r := range f.records {
			if r.Id == byID.ID {
				return r, nil
			}
		}
		return nil, nil
	}
	return nil, nil
}

func (f *fakeQARepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuestionAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeContactRepo struct {
	byQuestion  map[uint][]*entity.Contact
	defaults    []*entity.Contact
	err         error
	requestedBy []uint
}

func (f *fakeContactRepo) FindByQuestionIds(ctx context.Context, ids []uint) ([]*entity.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requestedBy = ids
	out := make([]*entity.Contact, 0)
	for _, id := range ids {
		out = append(out, f.byQuestion[id]...)
	}
	return out, nil
}

func (f *fakeContactRepo) FindDefault(ctx context.Context, limit int) ([]*entity.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.defaults) > limit {
		return f.defaults[:limit], nil
	}
	return f.defaults, nil
}

type fakeLexiconRepo struct {
	stopwords     []string
	synonyms      map[string]string
	pairs         []*entity.SemanticPair
	negationWords []string
	failSemantic  error
}

func (f *fakeLexiconRepo) Stopwords(ctx context.Context) ([]string, error) {
	return f.stopwords, nil
}

func (f *fakeLexiconRepo) Synonyms(ctx context.Context) (map[string]string, error) {
	return f.synonyms, nil
}

func (f *fakeLexiconRepo) SemanticPairs(ctx context.Context) ([]*entity.SemanticPair, error) {
	if f.failSemantic != nil {
		return nil, f.failSemantic
	}
	return f.pairs, nil
}

func (f *fakeLexiconRepo) NegationWords(ctx context.Context) ([]string, error) {
	return f.negationWords, nil
}

type fakeCategoryRepo struct {
	categories []*entity.Category
	err        error
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	return f.categories, f.err
}

type fakeOrganizationRepo struct {
	summaries []*entity.OrganizationSummary
	err       error
	gotSpecs  []specification.Specification
}

func (f *fakeOrganizationRepo) Summaries(ctx context.Context, specs ...specification.Specification) ([]*entity.OrganizationSummary, error) {
	f.gotSpecs = specs
	return f.summaries, f.err
}

type fakeUnitOfWork struct {
	qa       *fakeQARepo
	contacts *fakeContactRepo
	lexicon  *fakeLexiconRepo
	category *fakeCategoryRepo
	orgs     *fakeOrganizationRepo
}

func (u *fakeUnitOfWork) QuestionAnswerRepository() contract.QuestionAnswerRepository { return u.qa }
func (u *fakeUnitOfWork) ContactRepository() contract.ContactRepository { return u.contacts }
func (u *fakeUnitOfWork) LexiconRepository() contract.LexiconRepository { return u.lexicon }
func (u *fakeUnitOfWork) CategoryRepository() contract.CategoryRepository { return u.category }
func (u *fakeUnitOfWork) OrganizationRepository() contract.OrganizationRepository { return u.orgs }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUnitOfWork{
		qa:       &fakeQARepo{},
		contacts: &fakeContactRepo{byQuestion: map[uint][]*entity.Contact{}},
		lexicon:  &fakeLexiconRepo{},
		category: &fakeCategoryRepo{},
		orgs:     &fakeOrganizationRepo{},
	}}
}

// spaceNormalizer splits on whitespace and drops stopwords, which is enough
// to drive ranking deterministically without a tokenizer.
type spaceNormalizer struct{}

func (spaceNormalizer) Normalize(ctx context.Context, text string, lex *textnorm.Lexicon) []string {
	out := make([]string, 0)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		if lex != nil && lex.IsStopword(f) {
			continue
		}
		if lex != nil {
			f = lex.Canonical(f)
		}
		out = append(out, f)
	}
	return out
}

type recordingPublisher struct {
	mu    sync.Mutex
	turns []*dto.ChatTurnEvent
}

func (r *recordingPublisher) PublishTurn(ctx context.Context, turn *dto.ChatTurnEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, turn)
	return nil
}

func (r *recordingPublisher) last() *dto.ChatTurnEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.turns) == 0 {
		return nil
	}
	return r.turns[len(r.turns)-1]
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint { return &u }
