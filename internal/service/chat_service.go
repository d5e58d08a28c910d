package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/metrics"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/repository/specification"
	"pcru-chatbot-be/internal/repository/unitofwork"
	"pcru-chatbot-be/pkg/exclusion"
	"pcru-chatbot-be/pkg/negation"
	"pcru-chatbot-be/pkg/ranking"
	"pcru-chatbot-be/pkg/textnorm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	previewMaxRunes = 200

	msgNotUnderstood    = "ขออภัย ไม่เข้าใจคำถาม"
	msgNoMatch          = "ไม่พบข้อมูลที่ตรงกัน"
	msgKnowledgeEmpty   = "ฐานข้อมูลยังไม่พร้อม"
	msgRejectedFallback = "หัวข้อที่คุณปฏิเสธ"
)

type IChatService interface {
	Respond(ctx context.Context, sc *exclusion.SessionContext, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

// CandidateRanker scores knowledge-base records against a query.
type CandidateRanker interface {
	Rank(ctx context.Context, query []string, candidates []ranking.Candidate, lex *textnorm.Lexicon, sim ranking.SimilarityMap) []ranking.Scored
}

type ChatOptions struct {
	BotPronoun          string
	AlternativesLimit   int
	DefaultContactLimit int
	Filter              ranking.FilterOptions
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	lexicon    *lexiconLoader
	normalizer ranking.TokenNormalizer
	detector   *negation.Detector
	store      *exclusion.Store
	ranker     CandidateRanker
	publisher  IPublisherService
	logger     logger.ILogger
	tracer     trace.Tracer
	opts       ChatOptions
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	normalizer ranking.TokenNormalizer,
	detector *negation.Detector,
	store *exclusion.Store,
	ranker CandidateRanker,
	publisher IPublisherService,
	log logger.ILogger,
	opts ChatOptions,
) IChatService {
	if opts.AlternativesLimit <= 0 {
		opts.AlternativesLimit = 3
	}
	if opts.BotPronoun == "" {
		opts.BotPronoun = "หนู"
	}
	return &chatService{
		uowFactory: uowFactory,
		lexicon:    &lexiconLoader{uowFactory: uowFactory, logger: log},
		normalizer: normalizer,
		detector:   detector,
		store:      store,
		ranker:     ranker,
		publisher:  publisher,
		logger:     log,
		tracer:     otel.Tracer("pcru-chatbot/chat"),
		opts:       opts,
	}
}

// Respond runs one chat turn. Only malformed input, an unknown question id and
// datastore failures are returned as errors; every other outcome is a
// response.
func (s *chatService) Respond(ctx context.Context, sc *exclusion.SessionContext, req *dto.ChatRequest) (resp *dto.ChatResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "ChatService.Respond")
	defer span.End()

	if sc == nil {
		sc = &exclusion.SessionContext{SessionKey: exclusion.AnonymousSessionKey}
	}

	turn := &dto.ChatTurnEvent{
		EventId:    uuid.NewString(),
		SessionKey: sc.SessionKey,
		OccurredAt: time.Now(),
	}
	defer func() {
		if err != nil {
			turn.Outcome = metrics.OutcomeError
			span.RecordError(err)
		}
		s.emitTurn(ctx, turn)
	}()

	if req.ResetConversation {
		s.store.Clear(ctx, sc)
		if req.ResetOnly() {
			turn.Outcome = metrics.OutcomeReset
			return &dto.ChatResponse{Success: true, Reset: true}, nil
		}
	}

	if req.HasQuestionId() {
		turn.Outcome = metrics.OutcomeLookup
		return s.lookup(ctx, *req.Id)
	}

	message, ok := req.Query()
	if !ok {
		return nil, ErrInvalidPayload
	}
	turn.Query = message

	lex := s.lexicon.load(ctx)

	_, normSpan := s.tracer.Start(ctx, "ChatService.Normalize")
	tokens := s.normalizer.Normalize(ctx, message, lex.words)
	normSpan.SetAttributes(attribute.Int("tokens", len(tokens)))
	normSpan.End()
	turn.TokenCount = len(tokens)

	if len(tokens) == 0 {
		turn.Outcome = metrics.OutcomeEmptyQuery
		return s.noMatch(ctx, msgNotUnderstood)
	}

	state := s.store.Load(ctx, sc)
	if blocked, hit := exclusion.MatchBlocked(message, state.BlockedKeywords); hit {
		turn.Outcome = metrics.OutcomeAlreadyBlocked
		turn.BlockedKeywords = []string{blocked}
		return &dto.ChatResponse{
			Success: true,
			Found:   dto.BoolPtr(false),
			Message: fmt.Sprintf("%sได้ปิดเรื่อง \"%s\" ไว้แล้วค่ะ", s.opts.BotPronoun, blocked),
			BlockedSummary: &dto.BlockedSummary{
				BlockedDomains:         nonNil(state.BlockedDomains),
				BlockedKeywords:        nonNil(state.BlockedKeywords),
				BlockedKeywordsDisplay: []string{blocked},
			},
		}, nil
	}

	finding := s.detector.Detect(message, negation.SimpleTokenize(message), tokens, lex.negationWords)
	if finding.Actionable() {
		turn.Outcome = metrics.OutcomeNegation
		return s.acknowledgeRejection(ctx, sc, finding, turn), nil
	}
	if finding.Triggered {
		s.logger.Debug("CHAT", "Negation trigger without a topic to block", map[string]interface{}{
			"session_key": sc.SessionKey,
			"trigger":     finding.TriggerWord,
		})
	}

	return s.rankAndRespond(ctx, message, tokens, lex, turn)
}

func (s *chatService) lookup(ctx context.Context, id uint) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	qa, err := uow.QuestionAnswerRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.WithCategory{},
	)
	if err != nil {
		s.logger.Error("CHAT", "Failed to load question", map[string]interface{}{"question_id": id, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}
	if qa == nil {
		return nil, ErrQuestionNotFound
	}

	return &dto.ChatResponse{
		Success: true,
		Found:   dto.BoolPtr(true),
		AnswerDetail: &dto.AnswerDetail{
			Answer:        qa.Text,
			Title:         qa.Title,
			QuestionId:    qa.Id,
			Categories:    qa.CategoryName,
			CategoriesPDF: qa.CategoryPdf,
		},
	}, nil
}

func (s *chatService) acknowledgeRejection(ctx context.Context, sc *exclusion.SessionContext, finding negation.Finding, turn *dto.ChatTurnEvent) *dto.ChatResponse {
	if len(finding.Keywords) > 0 {
		s.store.PersistKeywords(ctx, sc, finding.Keywords)
	}
	if len(finding.Domains) > 0 {
		s.store.PersistDomains(ctx, sc, finding.Domains)
	}
	state := s.store.Load(ctx, sc)

	turn.BlockedKeywords = finding.Keywords
	turn.BlockedDomains = finding.Domains

	names := msgRejectedFallback
	if len(finding.Keywords) > 0 {
		names = strings.Join(finding.Keywords, ", ")
	}

	s.logger.Info("CHAT", "Topic rejected by user", map[string]interface{}{
		"session_key": sc.SessionKey,
		"trigger":     finding.TriggerWord,
		"keywords":    finding.Keywords,
		"domains":     finding.Domains,
	})

	return &dto.ChatResponse{
		Success: true,
		Found:   dto.BoolPtr(false),
		Message: fmt.Sprintf("รับทราบค่ะ จะไม่แนะนำ %s แล้วนะคะ", names),
		BlockedSummary: &dto.BlockedSummary{
			BlockedDomains:         nonNil(state.BlockedDomains),
			BlockedKeywords:        nonNil(state.BlockedKeywords),
			BlockedKeywordsDisplay: nonNil(finding.Keywords),
		},
	}
}

func (s *chatService) rankAndRespond(ctx context.Context, message string, tokens []string, lex *turnLexicon, turn *dto.ChatTurnEvent) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Records are fetched on every turn so edits show up immediately.
	qas, err := uow.QuestionAnswerRepository().FindAll(ctx,
		specification.WithKeywords{},
		specification.WithCategory{},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		s.logger.Error("CHAT", "Failed to load knowledge base", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}
	if len(qas) == 0 {
		turn.Outcome = metrics.OutcomeNoMatch
		return s.noMatch(ctx, msgKnowledgeEmpty)
	}

	byId := make(map[uint]*entity.QuestionAnswer, len(qas))
	candidates := make([]ranking.Candidate, 0, len(qas))
	for _, qa := range qas {
		byId[qa.Id] = qa
		candidates = append(candidates, ranking.Candidate{
			ID:       qa.Id,
			Title:    qa.Title,
			Body:     qa.Text,
			Keywords: qa.Keywords,
		})
	}

	rankCtx, rankSpan := s.tracer.Start(ctx, "ChatService.Rank")
	started := time.Now()
	ranked := s.ranker.Rank(rankCtx, tokens, candidates, lex.words, lex.similarity)
	filtered := ranking.PostFilter(ranked, message, s.opts.Filter)
	metrics.RankDuration.Observe(time.Since(started).Seconds())
	metrics.RankedCandidates.Observe(float64(len(filtered)))
	rankSpan.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("survivors", len(filtered)),
	)
	rankSpan.End()

	if len(filtered) == 0 {
		turn.Outcome = metrics.OutcomeNoMatch
		return s.noMatch(ctx, msgNoMatch)
	}

	top := filtered
	if len(top) > s.opts.AlternativesLimit {
		top = top[:s.opts.AlternativesLimit]
	}

	ids := make([]uint, 0, len(top))
	alternatives := make([]dto.AlternativeDTO, 0, len(top))
	for _, sc := range top {
		qa := byId[sc.Candidate.ID]
		ids = append(ids, qa.Id)
		alternatives = append(alternatives, dto.AlternativeDTO{
			Id:            qa.Id,
			Title:         qa.Title,
			Preview:       preview(qa.Text),
			Text:          qa.Text,
			Score:         fmt.Sprintf("%.2f", sc.Total),
			Keywords:      nonNil(qa.Keywords),
			Categories:    qa.CategoryName,
			CategoriesPDF: qa.CategoryPdf,
		})
	}

	contacts, err := uow.ContactRepository().FindByQuestionIds(ctx, ids)
	if err != nil {
		s.logger.Error("CHAT", "Failed to load contacts", map[string]interface{}{"question_ids": ids, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}

	turn.Outcome = metrics.OutcomeMatch
	turn.TopQuestionIds = ids
	turn.TopScore = top[0].Total

	return &dto.ChatResponse{
		Success:     true,
		Found:       dto.BoolPtr(true),
		Message:     fmt.Sprintf("✨ พบ %d คำถามที่ใกล้เคียง", len(top)),
		ContactList: &dto.ContactList{Contacts: toContactDTOs(contacts)},
		MatchSummary: &dto.MatchSummary{
			MultipleResults: len(top) > 1,
			Query:           message,
			Alternatives:    alternatives,
		},
	}, nil
}

func (s *chatService) noMatch(ctx context.Context, message string) (*dto.ChatResponse, error) {
	contacts, err := s.uowFactory.NewUnitOfWork(ctx).ContactRepository().FindDefault(ctx, s.opts.DefaultContactLimit)
	if err != nil {
		s.logger.Error("CHAT", "Failed to load default contacts", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDatastore, err)
	}
	return &dto.ChatResponse{
		Success:     true,
		Found:       dto.BoolPtr(false),
		Message:     message,
		ContactList: &dto.ContactList{Contacts: toContactDTOs(contacts)},
	}, nil
}

func (s *chatService) emitTurn(ctx context.Context, turn *dto.ChatTurnEvent) {
	if turn.Outcome == "" {
		return
	}
	turn.DurationMs = time.Since(turn.OccurredAt).Milliseconds()
	metrics.ChatTurns.WithLabelValues(turn.Outcome).Inc()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTurn(ctx, turn); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("CHAT", "Failed to publish chat turn", map[string]interface{}{
			"event_id": turn.EventId,
			"error":    err.Error(),
		})
	}
}

func toContactDTOs(contacts []*entity.Contact) []dto.ContactDTO {
	out := make([]dto.ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, dto.ContactDTO{
			Organization: c.Organization,
			Category:     c.Category,
			Contact:      c.Contact,
		})
	}
	return out
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewMaxRunes {
		return text
	}
	return string([]rune(text)[:previewMaxRunes])
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
