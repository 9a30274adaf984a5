package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pfm-api/internal/config"
	"pfm-api/internal/dto"

	"github.com/go-redis/redis"
)

const quoteKeyPrefix = "quote:"

type memoryQuote struct {
	quote     dto.Quote
	expiresAt time.Time
}

// MemoryQuoteCache keeps quotes in process. Expired entries are dropped on read.
type MemoryQuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]memoryQuote
	now    func() time.Time
}

func NewMemoryQuoteCache() *MemoryQuoteCache {
	return &MemoryQuoteCache{
		quotes: make(map[string]memoryQuote),
		now:    time.Now,
	}
}

func (c *MemoryQuoteCache) Get(symbol string) (dto.Quote, bool) {
	c.mu.RLock()
	entry, ok := c.quotes[symbol]
	c.mu.RUnlock()
	if !ok {
		return dto.Quote{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.quotes, symbol)
		c.mu.Unlock()
		return dto.Quote{}, false
	}
	return entry.quote, true
}

func (c *MemoryQuoteCache) Set(quote dto.Quote, ttl time.Duration) {
	c.mu.Lock()
	c.quotes[quote.Symbol] = memoryQuote{quote: quote, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// RedisQuoteCache shares quotes between server instances. Redis errors are
// logged and treated as misses.
type RedisQuoteCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisQuoteCache(client *redis.Client, logger *slog.Logger) *RedisQuoteCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisQuoteCache{client: client, logger: logger}
}

func (c *RedisQuoteCache) Get(symbol string) (dto.Quote, bool) {
	raw, err := c.client.Get(quoteKeyPrefix + symbol).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quote cache read failed", "symbol", symbol, "error", err)
		}
		return dto.Quote{}, false
	}

	var quote dto.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		c.logger.Warn("discarding malformed cached quote", "symbol", symbol, "error", err)
		return dto.Quote{}, false
	}
	return quote, true
}

func (c *RedisQuoteCache) Set(quote dto.Quote, ttl time.Duration) {
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.client.Set(quoteKeyPrefix+quote.Symbol, raw, ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed", "symbol", quote.Symbol, "error", err)
	}
}

// NewQuoteCache returns a redis backed cache when an address is configured
// and reachable, otherwise the in-process cache
func NewQuoteCache(cfg config.CacheConfig, logger *slog.Logger) QuoteCacheInterface {
	if cfg.RedisAddr == "" {
		return NewMemoryQuoteCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping().Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory quote cache",
			"addr", cfg.RedisAddr,
			"error", err)
		client.Close()
		return NewMemoryQuoteCache()
	}

	logger.Info("using redis quote cache", "addr", cfg.RedisAddr)
	return NewRedisQuoteCache(client, logger)
}
