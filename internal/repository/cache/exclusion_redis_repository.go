package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"pcru-chatbot-be/pkg/exclusion"

	"github.com/redis/go-redis/v9"
)

// ExclusionRedisRepository keeps the exclusion tier in Redis sets so that
// several API instances share it. Each session owns three keys under prefix.
type ExclusionRedisRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewExclusionRedisRepository(client *redis.Client, prefix string, ttl time.Duration) *ExclusionRedisRepository {
	if prefix == "" {
		prefix = "pcru:exclusion"
	}
	return &ExclusionRedisRepository{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *ExclusionRedisRepository) keywordsKey(sessionKey string) string {
	return fmt.Sprintf("%s:%s:keywords", r.prefix, sessionKey)
}

func (r *ExclusionRedisRepository) domainsKey(sessionKey string) string {
	return fmt.Sprintf("%s:%s:domains", r.prefix, sessionKey)
}

func (r *ExclusionRedisRepository) updatedKey(sessionKey string) string {
	return fmt.Sprintf("%s:%s:updated_at", r.prefix, sessionKey)
}

func (r *ExclusionRedisRepository) Get(ctx context.Context, sessionKey string) (*exclusion.State, error) {
	var kwCmd, domCmd *redis.StringSliceCmd
	var atCmd *redis.StringCmd
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		kwCmd = p.SMembers(ctx, r.keywordsKey(sessionKey))
		domCmd = p.SMembers(ctx, r.domainsKey(sessionKey))
		atCmd = p.Get(ctx, r.updatedKey(sessionKey))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis exclusion get: %w", err)
	}

	keywords := kwCmd.Val()
	domains := domCmd.Val()
	if len(keywords) == 0 && len(domains) == 0 {
		return nil, nil
	}
	sort.Strings(keywords)
	sort.Strings(domains)

	st := &exclusion.State{
		SessionKey:      sessionKey,
		BlockedKeywords: keywords,
		BlockedDomains:  domains,
	}
	if ms, err := atCmd.Int64(); err == nil {
		st.UpdatedAt = time.UnixMilli(ms)
	}
	return st, nil
}

func (r *ExclusionRedisRepository) Union(ctx context.Context, sessionKey string, keywords, domains []string, at time.Time) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(keywords) > 0 {
			p.SAdd(ctx, r.keywordsKey(sessionKey), toArgs(keywords)...)
		}
		if len(domains) > 0 {
			p.SAdd(ctx, r.domainsKey(sessionKey), toArgs(domains)...)
		}
		p.Set(ctx, r.updatedKey(sessionKey), at.UnixMilli(), r.ttl)
		if r.ttl > 0 {
			p.Expire(ctx, r.keywordsKey(sessionKey), r.ttl)
			p.Expire(ctx, r.domainsKey(sessionKey), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis exclusion union: %w", err)
	}
	return nil
}

func (r *ExclusionRedisRepository) Delete(ctx context.Context, sessionKey string) error {
	err := r.client.Del(ctx,
		r.keywordsKey(sessionKey),
		r.domainsKey(sessionKey),
		r.updatedKey(sessionKey),
	).Err()
	if err != nil {
		return fmt.Errorf("redis exclusion delete: %w", err)
	}
	return nil
}

func toArgs(items []string) []interface{} {
	args := make([]interface{}, len(items))
	for i, it := range items {
		args[i] = it
	}
	return args
}
