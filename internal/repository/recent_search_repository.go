package repository

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const recentSearchesKey = "ticket-search:recent-searches"

// RecentSearchRepository stores the most recent search keywords, newest first.
type RecentSearchRepository interface {
	Push(ctx context.Context, keyword string) error
	List(ctx context.Context, limit int) ([]string, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisRecentSearchRepository struct {
	client     *redis.Client
	maxEntries int
}

// NewRedisRecentSearchRepository instantiates a Redis-backed repository.
func NewRedisRecentSearchRepository(client *redis.Client, maxEntries int) RecentSearchRepository {
	return &redisRecentSearchRepository{client: client, maxEntries: normalizeMax(maxEntries)}
}

func (r *redisRecentSearchRepository) Push(ctx context.Context, keyword string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, recentSearchesKey, 0, keyword)
		pipe.LPush(ctx, recentSearchesKey, keyword)
		pipe.LTrim(ctx, recentSearchesKey, 0, int64(r.maxEntries-1))
		return nil
	})
	return err
}

func (r *redisRecentSearchRepository) List(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > r.maxEntries {
		limit = r.maxEntries
	}
	return r.client.LRange(ctx, recentSearchesKey, 0, int64(limit-1)).Result()
}

func (r *redisRecentSearchRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, recentSearchesKey).Err()
}

func (r *redisRecentSearchRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type memoryRecentSearchRepository struct {
	mu         sync.Mutex
	entries    []string
	maxEntries int
}

// NewMemoryRecentSearchRepository keeps entries in process memory.
func NewMemoryRecentSearchRepository(maxEntries int) RecentSearchRepository {
	return &memoryRecentSearchRepository{maxEntries: normalizeMax(maxEntries)}
}

func (r *memoryRecentSearchRepository) Push(_ context.Context, keyword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]string, 0, len(r.entries)+1)
	entries = append(entries, keyword)
	for _, existing := range r.entries {
		if existing != keyword {
			entries = append(entries, existing)
		}
	}
	if len(entries) > r.maxEntries {
		entries = entries[:r.maxEntries]
	}
	r.entries = entries
	return nil
}

func (r *memoryRecentSearchRepository) List(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]string, limit)
	copy(out, r.entries[:limit])
	return out, nil
}

func (r *memoryRecentSearchRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}

func (r *memoryRecentSearchRepository) Ping(context.Context) error {
	return nil
}

func normalizeMax(n int) int {
	if n <= 0 {
		return 10
	}
	return n
}
