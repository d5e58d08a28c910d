package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/metrics"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/repository/memory"
	"pcru-chatbot-be/pkg/exclusion"
	"pcru-chatbot-be/pkg/negation"
	"pcru-chatbot-be/pkg/ranking"
	"pcru-chatbot-be/pkg/textnorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	factory   *fakeFactory
	publisher *recordingPublisher
	service   IChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	return newChatFixtureWith(t, spaceNormalizer{})
}

// seedStopwords mirrors the stopwords installed by cmd/seed.
var seedStopwords = []string{"ยังไง", "อย่างไร", "ครับ", "ค่ะ", "คะ", "ที่", "ของ", "และ", "หรือ", "บ้าง"}

// newLocalSegmentationFixture runs the real normalizer with no tokenizer service.
func newLocalSegmentationFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := newChatFixtureWith(t, textnorm.NewNormalizer(nil, logger.NewNopLogger()))
	f.factory.uow.lexicon.stopwords = seedStopwords
	f.factory.uow.lexicon.negationWords = []string{"ไม่", "ไม่เอา", "ไม่ต้องการ", "ไม่ใช่", "ไม่สนใจ"}
	return f
}

func newChatFixtureWith(t *testing.T, normalizer ranking.TokenNormalizer) *chatFixture {
	t.Helper()

	log := logger.NewNopLogger()
	factory := newFakeFactory()
	factory.uow.lexicon.negationWords = []string{"ไม่เอา", "ไม่"}
	factory.uow.contacts.defaults = []*entity.Contact{
		{Category: strPtr("ทั่วไป"), Contact: "056-717-100"},
	}

	ranker, err := ranking.NewRanker(normalizer, 2, log)
	require.NoError(t, err)
	t.Cleanup(ranker.Release)

	publisher := &recordingPublisher{}
	svc := NewChatService(
		factory,
		normalizer,
		negation.NewDetector(negation.AdjacencyAnalyzer{}, negation.ParseDomainRules("dorm:หอ;admissions:รับสมัคร|สมัคร")),
		exclusion.NewStore(memory.NewExclusionRepository(time.Hour), log),
		ranker,
		publisher,
		log,
		ChatOptions{
			BotPronoun:          "หนู",
			AlternativesLimit:   3,
			DefaultContactLimit: 10,
			Filter:              ranking.DefaultFilterOptions([]string{"ข้อมูล", "ติดต่อ"}),
		},
	)

	return &chatFixture{factory: factory, publisher: publisher, service: svc}
}

func (f *chatFixture) seedKnowledgeBase() {
	f.factory.uow.qa.records = []*entity.QuestionAnswer{
		{
			Id:           1,
			Title:        "สมัครเรียน ทำอย่างไร",
			Text:         "สมัครเรียน ผ่าน ระบบ ออนไลน์ ของ มหาวิทยาลัย",
			CategoryName: strPtr("รับสมัคร"),
			CategoryPdf:  strPtr("admission.pdf"),
			Keywords:     []string{"สมัครเรียน"},
		},
		{
			Id:       2,
			Title:    "หอพัก นักศึกษา",
			Text:     "หอพัก ใน มหาวิทยาลัย มี สอง แห่ง",
			Keywords: []string{"หอพัก"},
		},
	}
	f.factory.uow.contacts.byQuestion[1] = []*entity.Contact{
		{Organization: strPtr("งานรับสมัคร"), Category: strPtr("รับสมัคร"), Contact: "056-717-111"},
	}
}

func chatMsg(s string) *dto.ChatRequest {
	return &dto.ChatRequest{Message: &s}
}

func newSession() *exclusion.SessionContext {
	return &exclusion.SessionContext{SessionKey: "sess-1"}
}

func TestRespond_ResetOnly(t *testing.T) {
	f := newChatFixture(t)
	sc := &exclusion.SessionContext{SessionKey: "sess-1", BlockedKeywords: []string{"หอพัก"}, BlockedDomains: []string{"dorm"}}

	resp, err := f.service.Respond(context.Background(), sc, &dto.ChatRequest{ResetConversation: true})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Reset)
	assert.Empty(t, sc.BlockedKeywords)
	assert.Empty(t, sc.BlockedDomains)
	assert.Equal(t, metrics.OutcomeReset, f.publisher.last().Outcome)
}

func TestRespond_ResetThenAnswers(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	sc := &exclusion.SessionContext{SessionKey: "sess-1", BlockedKeywords: []string{"สมัครเรียน"}}

	req := chatMsg("สมัครเรียน")
	req.ResetConversation = true
	resp, err := f.service.Respond(context.Background(), sc, req)

	require.NoError(t, err)
	require.NotNil(t, resp.Found)
	assert.True(t, *resp.Found, "cleared keyword no longer short-circuits")
	assert.False(t, resp.Reset)
}

func TestRespond_LookupById(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()

	resp, err := f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{Id: uintPtr(1)})

	require.NoError(t, err)
	require.NotNil(t, resp.AnswerDetail)
	assert.True(t, *resp.Found)
	assert.Equal(t, uint(1), resp.QuestionId)
	assert.Equal(t, "สมัครเรียน ทำอย่างไร", resp.Title)
	assert.Equal(t, "รับสมัคร", *resp.Categories)
	assert.Equal(t, "admission.pdf", *resp.CategoriesPDF)
}

func TestRespond_LookupErrors(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{Id: uintPtr(99)})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	f.factory.uow.qa.err = errors.New("connection refused")
	_, err = f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{Id: uintPtr(1)})
	assert.ErrorIs(t, err, ErrDatastore)
	assert.Equal(t, metrics.OutcomeError, f.publisher.last().Outcome)
}

func TestRespond_MissingMessage(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{})

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestRespond_EmptyMessageFallsBackToDefaultContacts(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("   "))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, msgNotUnderstood, resp.Message)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "056-717-100", resp.Contacts[0].Contact)
	assert.Nil(t, resp.MatchSummary)
}

func TestRespond_NegationBlocksTopicThenShortCircuits(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	sc := newSession()

	resp, err := f.service.Respond(context.Background(), sc, chatMsg("ไม่เอา หอพัก"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, "รับทราบค่ะ จะไม่แนะนำ หอพัก แล้วนะคะ", resp.Message)
	require.NotNil(t, resp.BlockedSummary)
	assert.Equal(t, []string{"หอพัก"}, resp.BlockedKeywords)
	assert.Equal(t, []string{"dorm"}, resp.BlockedDomains)
	assert.Equal(t, []string{"หอพัก"}, sc.BlockedKeywords)
	assert.Equal(t, []string{"dorm"}, sc.BlockedDomains)
	assert.Equal(t, metrics.OutcomeNegation, f.publisher.last().Outcome)

	resp, err = f.service.Respond(context.Background(), sc, chatMsg("หอพัก"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, `หนูได้ปิดเรื่อง "หอพัก" ไว้แล้วค่ะ`, resp.Message)
	assert.Equal(t, []string{"หอพัก"}, resp.BlockedKeywordsDisplay)
	assert.Equal(t, metrics.OutcomeAlreadyBlocked, f.publisher.last().Outcome)
}

func TestRespond_BlockSurvivesLostSessionCookie(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()

	_, err := f.service.Respond(context.Background(), newSession(), chatMsg("ไม่เอา หอพัก"))
	require.NoError(t, err)

	// Same key, empty session tier: the process tier still knows the block.
	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("หอพัก"))

	require.NoError(t, err)
	assert.True(t, strings.Contains(resp.Message, "ปิดเรื่อง"))
}

func TestRespond_TriggerWithoutTopicContinuesToRanking(t *testing.T) {
	f := newChatFixture(t)
	sc := newSession()

	resp, err := f.service.Respond(context.Background(), sc, chatMsg("ไม่เอา"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, msgKnowledgeEmpty, resp.Message)
	assert.Len(t, resp.Contacts, 1)
	assert.Empty(t, sc.BlockedKeywords)
}

func TestRespond_EmptyKnowledgeBaseFallsBackToDefaultContacts(t *testing.T) {
	f := newChatFixture(t)

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, msgKnowledgeEmpty, resp.Message)
	require.NotNil(t, resp.ContactList)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "056-717-100", resp.Contacts[0].Contact)
	assert.Equal(t, metrics.OutcomeNoMatch, f.publisher.last().Outcome)
}

func TestRespond_ContactsKeyAlwaysPresentOnAnswers(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.factory.uow.contacts.defaults = nil

	matched, err := f.service.Respond(context.Background(), newSession(), chatMsg("หอพัก"))
	require.NoError(t, err)
	require.True(t, *matched.Found)

	missed, err := f.service.Respond(context.Background(), newSession(), chatMsg("   "))
	require.NoError(t, err)

	for _, resp := range []*dto.ChatResponse{matched, missed} {
		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"contacts":[]`)
	}

	reset, err := f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{ResetConversation: true})
	require.NoError(t, err)
	body, err := json.Marshal(reset)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "contacts")
}

func TestRespond_LocalSegmentationRanksAdmissionsQuestion(t *testing.T) {
	f := newLocalSegmentationFixture(t)
	f.seedKnowledgeBase()

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียนยังไง"))

	require.NoError(t, err)
	require.True(t, *resp.Found)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, uint(1), resp.Alternatives[0].Id)
	// keyword overlap 2.0 + body jaccard 1/5 + title jaccard 1/2*2
	assert.Equal(t, "3.20", resp.Alternatives[0].Score)
	assert.Equal(t, "สมัครเรียนยังไง", resp.Query)
}

func TestRespond_LocalSegmentationBlocksGluedDormRejection(t *testing.T) {
	f := newLocalSegmentationFixture(t)
	f.seedKnowledgeBase()
	sc := newSession()

	resp, err := f.service.Respond(context.Background(), sc, chatMsg("ไม่เอาหอพัก"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	require.NotNil(t, resp.BlockedSummary)
	assert.Equal(t, []string{"หอพัก"}, resp.BlockedKeywords)
	assert.Equal(t, []string{"dorm"}, resp.BlockedDomains)
	assert.Equal(t, []string{"dorm"}, sc.BlockedDomains)

	resp, err = f.service.Respond(context.Background(), sc, chatMsg("หอพัก"))

	require.NoError(t, err)
	assert.Equal(t, `หนูได้ปิดเรื่อง "หอพัก" ไว้แล้วค่ะ`, resp.Message)
}

func TestRespond_MatchReturnsAlternativesAndContacts(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	require.NoError(t, err)
	assert.True(t, *resp.Found)
	require.NotNil(t, resp.MatchSummary)
	assert.Equal(t, "สมัครเรียน", resp.Query)
	require.Len(t, resp.Alternatives, 1, "specific term narrows away the dorm record")
	assert.False(t, resp.MultipleResults)
	assert.Equal(t, "✨ พบ 1 คำถามที่ใกล้เคียง", resp.Message)

	alt := resp.Alternatives[0]
	assert.Equal(t, uint(1), alt.Id)
	assert.Equal(t, "admission.pdf", *alt.CategoriesPDF)
	// overlap 1*2 + body jaccard 1/6 + title jaccard 1/2*2
	assert.Equal(t, "3.17", alt.Score)

	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "งานรับสมัคร", *resp.Contacts[0].Organization)
	assert.Equal(t, []uint{1}, f.factory.uow.contacts.requestedBy)

	turn := f.publisher.last()
	assert.Equal(t, metrics.OutcomeMatch, turn.Outcome)
	assert.Equal(t, []uint{1}, turn.TopQuestionIds)
}

func TestRespond_TextAliasAccepted(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	text := "สมัครเรียน"

	resp, err := f.service.Respond(context.Background(), newSession(), &dto.ChatRequest{Text: &text})

	require.NoError(t, err)
	assert.True(t, *resp.Found)
}

func TestRespond_ZeroScoresStillRank(t *testing.T) {
	f := newChatFixture(t)
	f.factory.uow.qa.records = []*entity.QuestionAnswer{
		{Id: 3, Title: "ทุนการศึกษา", Text: "ทุน เรียน ดี", Keywords: []string{"ทุนการศึกษา"}},
	}

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("กีฬา"))

	require.NoError(t, err)
	assert.True(t, *resp.Found)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, "0.00", resp.Alternatives[0].Score)
}

type emptyRanker struct{}

func (emptyRanker) Rank(ctx context.Context, query []string, candidates []ranking.Candidate, lex *textnorm.Lexicon, sim ranking.SimilarityMap) []ranking.Scored {
	return nil
}

func TestRespond_NoSurvivorsFallsBackToDefaultContacts(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.service.(*chatService).ranker = emptyRanker{}

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	require.NoError(t, err)
	assert.False(t, *resp.Found)
	assert.Equal(t, msgNoMatch, resp.Message)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, metrics.OutcomeNoMatch, f.publisher.last().Outcome)
}

func TestRespond_KnowledgeBaseUnavailable(t *testing.T) {
	f := newChatFixture(t)
	f.factory.uow.qa.err = errors.New("dial tcp: timeout")

	_, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	assert.ErrorIs(t, err, ErrDatastore)
}

func TestRespond_ContactLookupFailureIsDatastoreError(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.factory.uow.contacts.err = errors.New("broken pipe")

	_, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	assert.ErrorIs(t, err, ErrDatastore)
}

func TestRespond_SemanticLoadFailureDegrades(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.factory.uow.lexicon.failSemantic = errors.New("relation does not exist")

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("สมัครเรียน"))

	require.NoError(t, err)
	assert.True(t, *resp.Found)
}

func TestRespond_SynonymCanonicalizesQuery(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.factory.uow.lexicon.synonyms = map[string]string{"ลงทะเบียนเรียน": "สมัครเรียน"}

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("ลงทะเบียนเรียน"))

	require.NoError(t, err)
	require.True(t, *resp.Found)
	assert.Equal(t, uint(1), resp.Alternatives[0].Id)
}

func TestRespond_SemanticPairsRankRelatedRecord(t *testing.T) {
	f := newChatFixture(t)
	f.seedKnowledgeBase()
	f.factory.uow.lexicon.pairs = []*entity.SemanticPair{{Word1: "หอพัก", Word2: "ที่พัก", Score: 0.9}}

	resp, err := f.service.Respond(context.Background(), newSession(), chatMsg("ที่พัก"))

	require.NoError(t, err)
	require.True(t, *resp.Found)
	assert.Equal(t, uint(2), resp.Alternatives[0].Id)
	// 0.9 against keyword, body and title: 2.25 + 0.9 + 1.8
	assert.Equal(t, "4.95", resp.Alternatives[0].Score)
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("ก", 250)

	assert.Equal(t, "สั้น", preview("สั้น"))
	assert.Equal(t, 200, len([]rune(preview(long))))
}
