package cricapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const (
	defaultBaseURL = "https://api.cricapi.com/v1"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`apikey=[^&\s"']+`)
var errCricAPITransient = crerr.New("cricapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchCurrentMatches pulls the currentMatches window. Structurally broken
// records are dropped and counted; a missing data array fails the pull.
func (c *Client) FetchCurrentMatches(ctx context.Context) (usecase.ExternalMatchBundle, error) {
	if c.apiKey == "" {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("%w: api key is empty", usecase.ErrFeedNotConfigured)
	}

	path := "/currentMatches"
	query := map[string]string{"offset": "0"}

	var envelope currentMatchesEnvelope
	raw, err := c.doJSON(ctx, path, query, &envelope)
	if err != nil {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("fetch current matches: %w", err)
	}
	if envelope.Data == nil {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("%w: currentMatches response has no data array", usecase.ErrFeedSchema)
	}

	bundle := c.buildBundle(ctx, path, *envelope.Data)
	bundle.RawPayloads = []rawfeed.Payload{buildFeedSnapshot(path, query, raw)}
	return bundle, nil
}

// FetchSeriesMatches pulls the full match list of one series.
func (c *Client) FetchSeriesMatches(ctx context.Context, seriesID string) (usecase.ExternalMatchBundle, error) {
	if c.apiKey == "" {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("%w: api key is empty", usecase.ErrFeedNotConfigured)
	}
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("%w: series id is empty", usecase.ErrInvalidInput)
	}

	path := "/series_info"
	query := map[string]string{"id": seriesID}

	var envelope seriesInfoEnvelope
	raw, err := c.doJSON(ctx, path, query, &envelope)
	if err != nil {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("fetch series matches series_id=%s: %w", seriesID, err)
	}
	if envelope.Data == nil || envelope.Data.MatchList == nil {
		return usecase.ExternalMatchBundle{}, fmt.Errorf("%w: series_info response has no matchList array", usecase.ErrFeedSchema)
	}

	bundle := c.buildBundle(ctx, path, *envelope.Data.MatchList)
	bundle.RawPayloads = []rawfeed.Payload{buildFeedSnapshot(path, query, raw)}
	return bundle, nil
}

// CircuitState reports the breaker state for health reporting.
func (c *Client) CircuitState() string {
	if !c.circuitEnabled {
		return "disabled"
	}
	return string(c.breaker.State())
}

func (c *Client) buildBundle(ctx context.Context, path string, items []upstreamMatch) usecase.ExternalMatchBundle {
	bundle := usecase.ExternalMatchBundle{
		Matches: make([]usecase.ExternalMatch, 0, len(items)),
		Total:   len(items),
	}
	for _, item := range items {
		mapped, ok := mapUpstreamMatch(item)
		if !ok {
			bundle.Dropped++
			c.logger.WarnContext(ctx, "drop malformed feed record",
				"path", path,
				"match_external_id", strings.TrimSpace(item.ID),
				"team_info_count", len(item.TeamInfo),
			)
			continue
		}
		bundle.Matches = append(bundle.Matches, mapped)
	}
	return bundle
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricapi circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("apikey", c.apiKey)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCricAPICircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode provider payload: %v", usecase.ErrFeedSchema, err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeoutError(err) {
				lastErr = fmt.Errorf("%w: %s", usecase.ErrFeedTimeout, sanitizeSensitiveText(err.Error(), c.apiKey))
			} else {
				lastErr = fmt.Errorf("%w: send request: %s", errCricAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
			}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCricAPITransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				return nil, fmt.Errorf("%w: provider status=%d body=%s", usecase.ErrFeedAuth, resp.StatusCode, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errCricAPITransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cricapi request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isCricAPICircuitFailure(err error) bool {
	return stderrors.Is(err, errCricAPITransient) || stderrors.Is(err, usecase.ErrFeedTimeout)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func isTimeoutError(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	value = apiKeyParamRegex.ReplaceAllString(value, "apikey=REDACTED")
	return value
}

func redactAPIURL(raw string) string {
	return apiKeyParamRegex.ReplaceAllString(raw, "apikey=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 240 {
		body = body[:240] + "..."
	}
	return body
}
