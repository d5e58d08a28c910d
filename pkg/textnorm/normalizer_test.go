package textnorm

import (
	"context"
	"strings"
	"testing"

	"pcru-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeTokenizer struct {
	tokens []string
	calls  int
}

func (f *fakeTokenizer) Tokenize(ctx context.Context, text string) []string {
	f.calls++
	return f.tokens
}

type panickingTokenizer struct{}

func (panickingTokenizer) Tokenize(ctx context.Context, text string) []string {
	panic("segmenter exploded")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower and trim", in: "  Hello World  ", want: "hello world"},
		{name: "punctuation becomes space", in: "fee,price", want: "fee price"},
		{name: "letter digit boundary", in: "Room3", want: "room 3"},
		{name: "digit letter boundary", in: "abc123def", want: "abc 123 def"},
		{name: "thai with digit", in: "ห้อง3", want: "ห้อง 3"},
		{name: "symbols", in: "a+b=c", want: "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestNormalize_LocalFallback(t *testing.T) {
	n := NewNormalizer(nil, logger.NewNopLogger())

	tests := []struct {
		name      string
		text      string
		stopwords []string
		synonyms  map[string]string
		want      []string
	}{
		{
			name:      "stopwords removed",
			text:      "How to apply the scholarship",
			stopwords: []string{"how", "to", "the"},
			want:      []string{"apply", "scholarship"},
		},
		{
			name:      "thai long stopword split by refinement",
			text:      "สมัครเรียนยังไง",
			stopwords: []string{"ยังไง"},
			want:      []string{"สมัครเรียน"},
		},
		{
			name:      "short stopword prefix stripped once",
			text:      "xyfee",
			stopwords: []string{"xy"},
			want:      []string{"fee"},
		},
		{
			name: "duplicates removed",
			text: "fee fee FEE",
			want: []string{"fee"},
		},
		{
			name:     "synonyms canonicalized",
			text:     "dormitory fee",
			synonyms: map[string]string{"Dormitory": "dorm"},
			want:     []string{"dorm", "fee"},
		},
		{
			name:      "only stopwords",
			text:      "the",
			stopwords: []string{"the"},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexicon(tt.stopwords, tt.synonyms)
			got := n.Normalize(context.Background(), tt.text, lex)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_UsesExternalTokenizer(t *testing.T) {
	tok := &fakeTokenizer{tokens: []string{"สมัคร", "เรียน", "ยังไง"}}
	n := NewNormalizer(tok, logger.NewNopLogger())
	lex := NewLexicon([]string{"ยังไง"}, nil)

	got := n.Normalize(context.Background(), "สมัครเรียนยังไง", lex)

	assert.Equal(t, 1, tok.calls)
	assert.Equal(t, []string{"สมัคร", "เรียน"}, got)
}

func TestNormalize_RefinesExternalTokensOnStopwords(t *testing.T) {
	tok := &fakeTokenizer{tokens: []string{"หอพักและค่าเทอม"}}
	n := NewNormalizer(tok, logger.NewNopLogger())
	lex := NewLexicon([]string{"และ"}, nil)

	got := n.Normalize(context.Background(), "หอพักและค่าเทอม", lex)

	assert.Equal(t, []string{"หอพัก", "ค่าเทอม"}, got)
}

func TestNormalize_EmptyTokenizerResultFallsBack(t *testing.T) {
	tok := &fakeTokenizer{tokens: nil}
	n := NewNormalizer(tok, logger.NewNopLogger())

	got := n.Normalize(context.Background(), "tuition fee", EmptyLexicon())

	assert.Equal(t, 1, tok.calls)
	assert.Equal(t, []string{"tuition", "fee"}, got)
}

func TestNormalize_EmptyInput(t *testing.T) {
	tok := &fakeTokenizer{tokens: []string{"x"}}
	n := NewNormalizer(tok, logger.NewNopLogger())

	for _, in := range []string{"", "   ", "\t\n", "?!"} {
		assert.Empty(t, n.Normalize(context.Background(), in, nil), "input %q", in)
	}
	assert.Equal(t, 0, tok.calls)
}

func TestNormalize_DegradesToRawTextOnPanic(t *testing.T) {
	n := NewNormalizer(panickingTokenizer{}, logger.NewNopLogger())

	got := n.Normalize(context.Background(), "  Dorm Fee?  ", EmptyLexicon())

	assert.Equal(t, []string{"Dorm Fee?"}, got)
}

func TestNormalize_TerminatesOnPathologicalInput(t *testing.T) {
	n := NewNormalizer(nil, logger.NewNopLogger())
	lex := NewLexicon([]string{"a", "ab", "ba", "aba"}, nil)

	text := strings.Repeat("abx", 2000)
	got := n.Normalize(context.Background(), text, lex)

	assert.NotNil(t, got)
	assert.LessOrEqual(t, len(got), MaxRefineIterations)
}

func TestNormalize_NonStopwordInputYieldsTokens(t *testing.T) {
	n := NewNormalizer(nil, logger.NewNopLogger())
	lex := NewLexicon([]string{"ค่ะ", "please"}, nil)

	for _, in := range []string{"ค่าเทอม", "tuition please", "ห้อง3"} {
		assert.NotEmpty(t, n.Normalize(context.Background(), in, lex), "input %q", in)
	}
}

func TestNewLexicon_CleansInput(t *testing.T) {
	lex := NewLexicon([]string{" ค่ะ", "ค่ะ", "", "THE"}, map[string]string{" หอใน ": "หอพัก", "x": " "})

	assert.Equal(t, 2, lex.StopwordCount())
	assert.True(t, lex.IsStopword("the"))
	assert.Equal(t, "หอพัก", lex.Canonical("หอใน"))
	assert.Equal(t, "x", lex.Canonical("x"))
}

func TestNormalize_GluedNegationStaysOneTokenWithoutTokenizer(t *testing.T) {
	n := NewNormalizer(nil, logger.NewNopLogger())
	lex := NewLexicon([]string{"ยังไง", "อย่างไร", "ครับ", "ค่ะ", "คะ", "ที่", "ของ", "และ", "หรือ", "บ้าง"}, nil)

	assert.Equal(t, []string{"ไม่เอาหอพัก"}, n.Normalize(context.Background(), "ไม่เอาหอพัก", lex))
	assert.Equal(t, []string{"สมัครเรียน"}, n.Normalize(context.Background(), "สมัครเรียนยังไง", lex))
}
