package memory

import (
	"context"
	"sync"
	"time"

	"pcru-chatbot-be/pkg/exclusion"

	"github.com/patrickmn/go-cache"
)

// ExclusionRepository is the in-process exclusion tier. Entries expire with
// the session they belong to.
type ExclusionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewExclusionRepository(ttl time.Duration) *ExclusionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ExclusionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *ExclusionRepository) Get(_ context.Context, sessionKey string) (*exclusion.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionKey)
	if !found {
		return nil, nil
	}
	st := x.(*exclusion.State)
	return &exclusion.State{
		SessionKey:      st.SessionKey,
		BlockedKeywords: append([]string(nil), st.BlockedKeywords...),
		BlockedDomains:  append([]string(nil), st.BlockedDomains...),
		UpdatedAt:       st.UpdatedAt,
	}, nil
}

func (r *ExclusionRepository) Union(_ context.Context, sessionKey string, keywords, domains []string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := &exclusion.State{SessionKey: sessionKey}
	if x, found := r.cache.Get(sessionKey); found {
		st = x.(*exclusion.State)
	}
	st.BlockedKeywords = appendMissing(st.BlockedKeywords, keywords)
	st.BlockedDomains = appendMissing(st.BlockedDomains, domains)
	st.UpdatedAt = at

	r.cache.Set(sessionKey, st, cache.DefaultExpiration)
	return nil
}

func (r *ExclusionRepository) Delete(_ context.Context, sessionKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionKey)
	return nil
}

func (r *ExclusionRepository) ItemCount() int {
	return r.cache.ItemCount()
}

func appendMissing(dst, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, d := range dst {
		seen[d] = struct{}{}
	}
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}
