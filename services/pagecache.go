package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"yatube/config"

	"github.com/go-redis/redis/v8"
)

const PAGE_CACHE_PREFIX = "page_cache:"

// pageStore - бекенд кеша страниц. В проде это Redis, без него
// используем кеш в памяти процесса.
type pageStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Flush(ctx context.Context)
}

type redisPageStore struct {
	client *redis.Client
}

func (s *redisPageStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *redisPageStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.client.Set(ctx, key, value, ttl)
}

func (s *redisPageStore) Flush(ctx context.Context) {
	keys, err := s.client.Keys(ctx, PAGE_CACHE_PREFIX+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	s.client.Del(ctx, keys...)
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryPageStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func (s *memoryPageStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.data, true
}

func (s *memoryPageStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: value, expires: time.Now().Add(ttl)}
}

func (s *memoryPageStore) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
}

// PageCacheService кеширует отрендеренные страницы целиком, по ключу URL,
// с фиксированным TTL
type PageCacheService struct {
	store pageStore
	ttl   time.Duration
}

var PageCache *PageCacheService

func InitPageCache() {
	ttl := 20 * time.Second
	if config.AppConfig != nil && config.AppConfig.Cache.PageTTL > 0 {
		ttl = time.Duration(config.AppConfig.Cache.PageTTL) * time.Second
	}

	var store pageStore
	if RedisClient != nil {
		store = &redisPageStore{client: RedisClient}
	} else {
		store = &memoryPageStore{entries: make(map[string]memoryEntry)}
	}

	PageCache = &PageCacheService{store: store, ttl: ttl}
}

func cacheKey(path string) string {
	return PAGE_CACHE_PREFIX + strings.TrimSuffix(path, "/")
}

func (pc *PageCacheService) Get(ctx context.Context, path string) ([]byte, bool) {
	return pc.store.Get(ctx, cacheKey(path))
}

func (pc *PageCacheService) Set(ctx context.Context, path string, body []byte) {
	pc.store.Set(ctx, cacheKey(path), body, pc.ttl)
}

// Clear сбрасывает весь кеш страниц
func (pc *PageCacheService) Clear(ctx context.Context) {
	pc.store.Flush(ctx)
}
