package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeReset          = "reset"
	OutcomeLookup         = "lookup"
	OutcomeEmptyQuery     = "empty_query"
	OutcomeAlreadyBlocked = "already_blocked"
	OutcomeNegation       = "negation"
	OutcomeNoMatch        = "no_match"
	OutcomeMatch          = "match"
	OutcomeError          = "error"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns by outcome",
		},
		[]string{"outcome"},
	)

	TokenizerFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_tokenizer_fallbacks_total",
			Help: "Normalizations that used local segmentation instead of the tokenizer service",
		},
	)

	LexiconLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_lexicon_load_failures_total",
			Help: "Lexicon sources that failed to load and were treated as empty",
		},
		[]string{"source"},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_rank_duration_seconds",
			Help:    "Time spent ranking the knowledge base for one turn",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_ranked_candidates",
			Help:    "Candidates left after post-filtering",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
		},
	)
)
