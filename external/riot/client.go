package riot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-ledger/internal/domain/lolmatch"
	"github.com/riskibarqy/rift-ledger/internal/platform/logging"
	"github.com/riskibarqy/rift-ledger/internal/platform/metrics"
	"github.com/riskibarqy/rift-ledger/internal/platform/resilience"
	"github.com/riskibarqy/rift-ledger/internal/usecase"
)

const (
	defaultBaseURLTemplate   = "https://{route}.api.riotgames.com"
	defaultRetryBackoff      = time.Second
	defaultRatePerSecond     = 15
	defaultRatePerTwoMinutes = 90
	maxRetryAfter            = 30 * time.Second
	maxResponseBytes         = 8 << 20
	breakerName              = "riot"
)

const (
	endpointMatchIDs = "match_ids"
	endpointMatch    = "match"
	endpointTimeline = "timeline"
	endpointAccount  = "account"
)

var errRiotTransient = crerr.New("riot transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURLTemplate   string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
	RatePerSecond     int
	RatePerTwoMinutes int
	Logger            *logging.Logger
	Metrics           *metrics.Manager
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client talks to the Riot match-v5 and account-v1 APIs. All requests share
// one rate limiter and one circuit breaker; identical in-flight GETs are
// collapsed into a single upstream call.
type Client struct {
	httpClient      *http.Client
	baseURLTemplate string
	apiKey          string
	maxRetries      int
	retryBackoff    time.Duration
	limiter         *slidingWindow
	logger          *logging.Logger
	metrics         *metrics.Manager
	breaker         *resilience.CircuitBreaker
	flight          resilience.SingleFlight[[]byte]
	flightTimeout   time.Duration
}

type flightResult struct {
	raw []byte
	err error
}

func NewClient(cfg ClientConfig) *Client {
	logger := logging.OrDefault(cfg.Logger).Named("riot")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	template := strings.TrimRight(strings.TrimSpace(cfg.BaseURLTemplate), "/")
	if template == "" {
		template = defaultBaseURLTemplate
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	perTwoMinutes := cfg.RatePerTwoMinutes
	if perTwoMinutes <= 0 {
		perTwoMinutes = defaultRatePerTwoMinutes
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker.WithDefaults())
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		cfg.Metrics.SetBreakerOpen(breakerName, to != resilience.CircuitStateClosed)
		logger.Warn("riot circuit breaker state changed", "from", from, "to", to)
	})

	// Bounds a shared call that no caller is waiting on anymore.
	flightTimeout := time.Duration(max(cfg.MaxRetries, 0)+1) * (httpClient.Timeout + maxRetryAfter)

	return &Client{
		httpClient:      httpClient,
		baseURLTemplate: template,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		maxRetries:      max(cfg.MaxRetries, 0),
		retryBackoff:    backoff,
		limiter: newSlidingWindow(
			windowLimit{Max: perSecond, Per: time.Second},
			windowLimit{Max: perTwoMinutes, Per: 2 * time.Minute},
		),
		logger:        logger,
		metrics:       cfg.Metrics,
		breaker:       breaker,
		flightTimeout: flightTimeout,
	}
}

func (c *Client) ListMatchIDs(ctx context.Context, platform, playerKey string, start, count int) ([]string, error) {
	region, ok := lolmatch.MatchRegion(platform)
	if !ok {
		return nil, fmt.Errorf("%w: unknown platform %q", usecase.ErrInvalidInput, platform)
	}

	query := url.Values{}
	query.Set("start", strconv.Itoa(max(start, 0)))
	query.Set("count", strconv.Itoa(count))
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(playerKey) + "/ids"

	var ids []string
	if err := c.doJSON(ctx, endpointMatchIDs, region, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list match ids player=%s: %w", playerKey, err)
	}
	return ids, nil
}

func (c *Client) FetchMatch(ctx context.Context, matchKey string) (usecase.ExternalMatch, error) {
	region, ok := lolmatch.MatchRegion(lolmatch.PlatformFromKey(matchKey))
	if !ok {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: match key %q has no known platform", usecase.ErrInvalidInput, matchKey)
	}

	var payload matchDTO
	if err := c.doJSON(ctx, endpointMatch, region, "/lol/match/v5/matches/"+url.PathEscape(matchKey), nil, &payload); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("fetch match %s: %w", matchKey, err)
	}
	return toExternalMatch(matchKey, payload), nil
}

func (c *Client) FetchTimeline(ctx context.Context, matchKey string) (usecase.ExternalTimeline, error) {
	region, ok := lolmatch.MatchRegion(lolmatch.PlatformFromKey(matchKey))
	if !ok {
		return usecase.ExternalTimeline{}, fmt.Errorf("%w: match key %q has no known platform", usecase.ErrInvalidInput, matchKey)
	}

	var payload timelineDTO
	path := "/lol/match/v5/matches/" + url.PathEscape(matchKey) + "/timeline"
	if err := c.doJSON(ctx, endpointTimeline, region, path, nil, &payload); err != nil {
		return usecase.ExternalTimeline{}, fmt.Errorf("fetch timeline %s: %w", matchKey, err)
	}
	return toExternalTimeline(matchKey, payload), nil
}

func (c *Client) FetchIdentity(ctx context.Context, platform, playerKey string) (usecase.ExternalIdentity, error) {
	region, ok := lolmatch.AccountRegion(platform)
	if !ok {
		return usecase.ExternalIdentity{}, fmt.Errorf("%w: unknown platform %q", usecase.ErrInvalidInput, platform)
	}

	var payload accountDTO
	path := "/riot/account/v1/accounts/by-puuid/" + url.PathEscape(playerKey)
	if err := c.doJSON(ctx, endpointAccount, region, path, nil, &payload); err != nil {
		return usecase.ExternalIdentity{}, fmt.Errorf("fetch account %s: %w", playerKey, err)
	}
	return usecase.ExternalIdentity{
		PUUID:    firstNonEmpty(payload.PUUID, playerKey),
		GameName: strings.TrimSpace(payload.GameName),
		TagLine:  strings.TrimSpace(payload.TagLine),
	}, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, route, path string, query url.Values, target any) error {
	started := time.Now()
	if err := c.breaker.Allow(); err != nil {
		c.metrics.ObserveUpstream(endpoint, "circuit_open", time.Since(started))
		c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
		return fmt.Errorf("%w: riot api is temporarily unavailable", usecase.ErrUpstreamUnavailable)
	}

	fullURL := c.buildURL(route, path, query)
	raw, err := c.sharedGet(ctx, fullURL)
	if err != nil {
		outcome := "error"
		if stderrors.Is(err, usecase.ErrNotFound) {
			outcome = "not_found"
		}
		c.metrics.ObserveUpstream(endpoint, outcome, time.Since(started))
		return err
	}
	c.metrics.ObserveUpstream(endpoint, "ok", time.Since(started))

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode riot payload: %w", err)
	}
	return nil
}

// sharedGet joins or starts the single upstream call for fullURL. The call
// runs detached from any one caller so a cancelled caller does not fail the
// others sharing it; each caller still returns as soon as its own ctx ends.
func (c *Client) sharedGet(ctx context.Context, fullURL string) ([]byte, error) {
	done := make(chan flightResult, 1)
	go func() {
		raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
			flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
			defer cancel()

			raw, reqErr := c.executeRequest(flightCtx, fullURL)
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
			return raw, reqErr
		})
		done <- flightResult{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.raw, res.err
	}
}

func (c *Client) buildURL(route, path string, query url.Values) string {
	base := strings.ReplaceAll(c.baseURLTemplate, "{route}", strings.ToLower(route))
	fullURL := base + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Riot-Token", c.apiKey)

		wait := time.Duration(attempt+1) * c.retryBackoff
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errRiotTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errRiotTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: riot status=404", usecase.ErrNotFound)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errRiotTransient, "riot status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				if retryAfter, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
					wait = retryAfter
				}
			default:
				return nil, fmt.Errorf("riot status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(errRiotTransient, "riot request failed")
	}
	c.logger.WarnContext(ctx, "riot request failed", "url", fullURL, "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrUpstreamUnavailable, lastErr)
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errRiotTransient) || stderrors.Is(err, errRiotTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func parseRetryAfter(raw string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds < 0 {
		return 0, false
	}
	return min(time.Duration(seconds)*time.Second, maxRetryAfter), true
}

func abbreviateBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > 256 {
		return text[:256] + "..."
	}
	return text
}
