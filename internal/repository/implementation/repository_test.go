package implementation

import (
	"context"
	"errors"
	"testing"

	"pcru-chatbot-be/internal/repository/specification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestLexiconRepository_Stopwords(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT "word" FROM "stopwords"`).
		WillReturnRows(sqlmock.NewRows([]string{"word"}).AddRow("ครับ").AddRow("ยังไง"))

	words, err := NewLexiconRepository(db).Stopwords(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ครับ", "ยังไง"}, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLexiconRepository_SynonymsLowerCasedAndActiveOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT s.input_word, k.keyword_text FROM keyword_synonyms AS s JOIN keywords k ON k.id = s.target_keyword_id WHERE s.is_active = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"input_word", "keyword_text"}).
			AddRow(" Scholarship ", "ทุนการศึกษา").
			AddRow("", "ignored").
			AddRow("ลงทะเบียนเรียน", "สมัครเรียน"))

	synonyms, err := NewLexiconRepository(db).Synonyms(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"scholarship":    "ทุนการศึกษา",
		"ลงทะเบียนเรียน": "สมัครเรียน",
	}, synonyms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLexiconRepository_NegationWords(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT "word" FROM "negative_keywords" WHERE is_active = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"word"}).AddRow("ไม่เอา"))

	words, err := NewLexiconRepository(db).NegationWords(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ไม่เอา"}, words)
}

func TestLexiconRepository_SemanticPairsError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM "semantic_similarities"`).WillReturnError(errors.New("relation does not exist"))

	_, err := NewLexiconRepository(db).SemanticPairs(context.Background())

	assert.Error(t, err)
}

func TestContactRepository_FindByQuestionIds(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM question_answers qa`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"org_id", "organization", "category", "contact"}).
			AddRow(1, "กองบริการการศึกษา", "รับสมัคร", "056-717-100"))

	contacts, err := NewContactRepository(db).FindByQuestionIds(context.Background(), []uint{1, 2})

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "กองบริการการศึกษา", *contacts[0].Organization)
	assert.Equal(t, "056-717-100", contacts[0].Contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_NoIdsSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)

	contacts, err := NewContactRepository(db).FindByQuestionIds(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindDefaultLimit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`WHERE c.parent_id IS NULL`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"org_id", "organization", "category", "contact"}).
			AddRow(nil, nil, "ทั่วไป", "056-717-100"))

	contacts, err := NewContactRepository(db).FindDefault(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Nil(t, contacts[0].Organization)
	assert.Equal(t, "ทั่วไป", *contacts[0].Category)
}

func TestOrganizationRepository_SummariesOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`COUNT\(o.id\) AS officer_count .* ORDER BY org.name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "officer_count"}).
			AddRow(1, "กองบริการการศึกษา", "ทะเบียน", 3))

	rows, err := NewOrganizationRepository(db).Summaries(context.Background(), specification.OrderBy{Field: "org.name"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].OfficerCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepository_SummariesPaged(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`GROUP BY org.id, org.name, org.description ORDER BY org.name DESC LIMIT .* OFFSET`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "officer_count"}))

	rows, err := NewOrganizationRepository(db).Summaries(context.Background(),
		specification.OrderBy{Field: "org.name", Desc: true},
		specification.Pagination{Limit: 10, Offset: 20},
	)

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionAnswerRepository_FindOneMissingIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "question_answers" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	qa, err := NewQuestionAnswerRepository(db).FindOne(context.Background(), specification.ByID{ID: 42})

	require.NoError(t, err)
	assert.Nil(t, qa)
}

func TestQuestionAnswerRepository_FindAllWithKeywords(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM "question_answers" ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question_title", "question_text"}).
			AddRow(1, "สมัครเรียน", "กรอกใบสมัคร"))
	mock.ExpectQuery(`FROM "answer_keywords"`).
		WillReturnRows(sqlmock.NewRows([]string{"question_answer_id", "keyword_id"}).AddRow(1, 7))
	mock.ExpectQuery(`FROM "keywords"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "keyword_text"}).AddRow(7, "สมัครเรียน"))

	items, err := NewQuestionAnswerRepository(db).FindAll(context.Background(),
		specification.WithKeywords{},
		specification.OrderBy{Field: "id"},
	)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"สมัครเรียน"}, items[0].Keywords)
	assert.NoError(t, mock.ExpectationsWereMet())
}
