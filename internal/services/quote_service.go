package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"pfm-api/internal/config"
	"pfm-api/internal/dto"
	"pfm-api/internal/models"

	"golang.org/x/time/rate"
)

const quoteServiceName = "quote_feed"

var (
	ErrQuoteFeedUnavailable = errors.New("quote feed is unavailable")
	ErrTooManySymbols       = errors.New("too many symbols requested")
)

// MaxQuoteSymbols bounds a single quote request
const MaxQuoteSymbols = 50

// UserAgentTransport sets headers the quote feed expects on every request
type UserAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// QuoteService fetches latest prices from the market quote feed. Calls are
// rate limited, cached and guarded by a circuit breaker.
type QuoteService struct {
	config         *config.QuotesConfig
	client         *http.Client
	cache          QuoteCacheInterface
	limiter        *rate.Limiter
	circuitBreaker CircuitBreakerInterface
	auditLogger    AuditLoggerInterface
	metrics        MetricsRecorderInterface
	logger         *slog.Logger
}

func NewQuoteService(
	cfg *config.QuotesConfig,
	cache QuoteCacheInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) QuoteServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewMemoryQuoteCache()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	s := &QuoteService{
		config: cfg,
		client: &http.Client{
			Transport: &UserAgentTransport{userAgent: "pfm-api/1.0", base: http.DefaultTransport},
			Timeout:   timeout,
		},
		cache:       cache,
		limiter:     rate.NewLimiter(limit, burst),
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
	}

	breakerConfig := DefaultCircuitBreakerConfig()
	if cfg.CircuitMaxFailures > 0 {
		breakerConfig.MaxFailures = cfg.CircuitMaxFailures
	}
	if cfg.CircuitResetTimeout > 0 {
		breakerConfig.ResetTimeout = cfg.CircuitResetTimeout
	}
	breakerConfig.HalfOpenMaxSucc = 1
	s.circuitBreaker = NewCircuitBreaker(breakerConfig, s.onBreakerChange)

	return s
}

func (s *QuoteService) onBreakerChange(from, to models.CircuitBreakerState) {
	s.auditLogger.LogCircuitBreakerStateChange(context.Background(), quoteServiceName, from.String(), to.String())
	s.metrics.RecordGauge(MetricCircuitBreakerState, float64(to), map[string]string{"service": quoteServiceName})
}

// GetQuotes returns the latest price for each symbol the feed knows. Cached
// prices are served without an upstream call. Symbols without a numeric
// price are left out of the result.
func (s *QuoteService) GetQuotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	symbols = normalizeSymbols(symbols)
	prices := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}
	if len(symbols) > MaxQuoteSymbols {
		return nil, ErrTooManySymbols
	}

	var missing []string
	for _, symbol := range symbols {
		if quote, ok := s.cache.Get(symbol); ok {
			prices[symbol] = quote.Price
			s.metrics.IncrementCounter(MetricQuoteCache, map[string]string{"result": "hit"})
			continue
		}
		s.metrics.IncrementCounter(MetricQuoteCache, map[string]string{"result": "miss"})
		missing = append(missing, symbol)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	if s.circuitBreaker.IsOpen() {
		s.metrics.IncrementCounter(MetricQuoteRequest, map[string]string{"status": "rejected"})
		if len(prices) > 0 {
			s.logger.Warn("quote feed circuit open, serving cached quotes only",
				"missing", missing)
			return prices, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrQuoteFeedUnavailable, ErrCircuitBreakerOpen)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("quote rate limit wait: %w", err)
	}

	startTime := time.Now()
	fetched, err := s.fetch(ctx, missing)
	elapsed := time.Since(startTime)
	s.metrics.RecordProcessingTime(MetricQuoteDuration, elapsed)

	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.metrics.IncrementCounter(MetricQuoteRequest, map[string]string{"status": "error"})
		s.logger.Error("quote fetch failed",
			"symbols", missing,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrQuoteFeedUnavailable, err)
	}
	s.circuitBreaker.RecordSuccess()
	s.metrics.IncrementCounter(MetricQuoteRequest, map[string]string{"status": "ok"})

	now := time.Now()
	for symbol, price := range fetched {
		prices[symbol] = price
		s.cache.Set(dto.Quote{Symbol: symbol, Price: price, FetchedAt: now}, s.config.CacheTTL)
	}

	s.auditLogger.LogQuoteFetch(ctx, missing, len(fetched), elapsed.Milliseconds())
	return prices, nil
}

func (s *QuoteService) buildRequest(ctx context.Context, symbols []string) (*http.Request, error) {
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/v7/finance/quote?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (s *QuoteService) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp, body, nil
}

func (s *QuoteService) fetch(ctx context.Context, symbols []string) (map[string]float64, error) {
	req, err := s.buildRequest(ctx, symbols)
	if err != nil {
		return nil, err
	}

	resp, body, err := s.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload dto.YahooQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if payload.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote feed error %s: %s",
			payload.QuoteResponse.Error.Code, payload.QuoteResponse.Error.Description)
	}

	prices := make(map[string]float64, len(payload.QuoteResponse.Result))
	for _, q := range payload.QuoteResponse.Result {
		if q.Symbol == "" || q.RegularMarketPrice == nil {
			continue
		}
		prices[models.NormalizeSymbol(q.Symbol)] = *q.RegularMarketPrice
	}
	return prices, nil
}

// normalizeSymbols uppercases, trims and de-duplicates symbols, dropping empties
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		for _, part := range strings.Split(raw, ",") {
			symbol := models.NormalizeSymbol(part)
			if symbol == "" || seen[symbol] {
				continue
			}
			seen[symbol] = true
			out = append(out, symbol)
		}
	}
	sort.Strings(out)
	return out
}
