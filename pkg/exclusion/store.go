package exclusion

import (
	"context"
	"strings"
	"time"

	"pcru-chatbot-be/internal/pkg/logger"
)

// AnonymousSessionKey is used when a request carries neither a session id nor
// a client address.
const AnonymousSessionKey = "anonymous"

// SessionContext is the client-visible half of a session's exclusion state.
// The HTTP layer hydrates it from the session before a turn and writes it back
// afterwards.
type SessionContext struct {
	SessionKey      string
	BlockedKeywords []string
	BlockedDomains  []string
}

// State is one session's entry in the process-wide tier.
type State struct {
	SessionKey      string    `json:"sessionKey"`
	BlockedKeywords []string  `json:"blockedKeywords"`
	BlockedDomains  []string  `json:"blockedDomains"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProcessCache is the process-wide tier, keyed by session key. Get returns a
// nil state and no error when the key is unknown.
type ProcessCache interface {
	Get(ctx context.Context, sessionKey string) (*State, error)
	Union(ctx context.Context, sessionKey string, keywords, domains []string, at time.Time) error
	Delete(ctx context.Context, sessionKey string) error
}

// Store keeps the session tier and the process tier consistent. The session
// tier is authoritative; the process tier aggregates across requests that
// arrive without the session cookie.
type Store struct {
	cache  ProcessCache
	logger logger.ILogger
	now    func() time.Time
}

func NewStore(cache ProcessCache, log logger.ILogger) *Store {
	return &Store{
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// Load returns the blocked state for the session: the session tier merged
// with whatever the process tier holds for the same key.
func (s *Store) Load(ctx context.Context, sc *SessionContext) State {
	state := State{SessionKey: sessionKey(sc)}
	if sc != nil {
		state.BlockedKeywords = union(nil, sc.BlockedKeywords)
		state.BlockedDomains = union(nil, sc.BlockedDomains)
	}

	if s.cache == nil {
		return state
	}
	cached, err := s.cache.Get(ctx, state.SessionKey)
	if err != nil {
		s.logger.Warn("EXCLUSION", "Process tier read failed, using session tier only", map[string]interface{}{
			"session_key": state.SessionKey,
			"error":       err.Error(),
		})
		return state
	}
	if cached != nil {
		state.BlockedKeywords = union(state.BlockedKeywords, cached.BlockedKeywords)
		state.BlockedDomains = union(state.BlockedDomains, cached.BlockedDomains)
		state.UpdatedAt = cached.UpdatedAt
	}
	return state
}

// PersistKeywords adds keywords to both tiers. Existing entries are never
// removed, so repeating a keyword leaves the set unchanged.
func (s *Store) PersistKeywords(ctx context.Context, sc *SessionContext, keywords []string) {
	if sc == nil || len(keywords) == 0 {
		return
	}
	sc.BlockedKeywords = union(sc.BlockedKeywords, keywords)
	s.writeThrough(ctx, sc, sc.BlockedKeywords, nil)
}

// PersistDomains adds domain tags to both tiers.
func (s *Store) PersistDomains(ctx context.Context, sc *SessionContext, domains []string) {
	if sc == nil || len(domains) == 0 {
		return
	}
	sc.BlockedDomains = union(sc.BlockedDomains, domains)
	s.writeThrough(ctx, sc, nil, sc.BlockedDomains)
}

// Clear empties the session's blocked keywords and domains in both tiers.
// Other sessions are untouched.
func (s *Store) Clear(ctx context.Context, sc *SessionContext) {
	if sc == nil {
		return
	}
	sc.BlockedKeywords = []string{}
	sc.BlockedDomains = []string{}

	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sessionKey(sc)); err != nil {
		s.logger.Warn("EXCLUSION", "Process tier clear failed", map[string]interface{}{
			"session_key": sessionKey(sc),
			"error":       err.Error(),
		})
	}
}

// MatchBlocked reports the blocked keyword equal to the whole message, compared
// lower-cased and trimmed. Substrings never match.
func MatchBlocked(message string, blocked []string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "", false
	}
	for _, kw := range blocked {
		if msg == strings.ToLower(strings.TrimSpace(kw)) {
			return kw, true
		}
	}
	return "", false
}

func (s *Store) writeThrough(ctx context.Context, sc *SessionContext, keywords, domains []string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Union(ctx, sessionKey(sc), keywords, domains, s.now()); err != nil {
		s.logger.Warn("EXCLUSION", "Process tier write failed", map[string]interface{}{
			"session_key": sessionKey(sc),
			"error":       err.Error(),
		})
	}
}

func sessionKey(sc *SessionContext) string {
	if sc == nil || strings.TrimSpace(sc.SessionKey) == "" {
		return AnonymousSessionKey
	}
	return sc.SessionKey
}

// union appends the lower-cased, trimmed items of add that base lacks,
// keeping first-seen order.
func union(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, it := range list {
			it = strings.ToLower(strings.TrimSpace(it))
			if it == "" {
				continue
			}
			if _, dup := seen[it]; dup {
				continue
			}
			seen[it] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
