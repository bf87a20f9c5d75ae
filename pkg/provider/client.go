package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

// correlationHeader is the provider's support reference. Their integration
// terms require it to be surfaced on every failure and retry decision.
const correlationHeader = "X-Correlation-Id"

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	minUnavailableDelay = 2 * time.Second
)

var baseURLs = map[string]string{
	config.ProviderEnvSandbox:    "https://api-sandbox.motortradelink.co.uk",
	config.ProviderEnvProduction: "https://api.motortradelink.co.uk",
}

// Client issues authenticated requests against the listings provider with the
// provider-mandated per-status retry policy.
type Client struct {
	http       Doer
	tokens     TokenSource
	baseURL    string
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logg       *logger.Logger
}

// Option tweaks client construction, mostly for tests.
type Option func(*Client)

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) { c.http = doer }
}

// WithSleeper overrides the backoff sleeper.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// ResolveBaseURL picks the provider endpoint: an explicit override wins,
// otherwise the environment decides. Empty means the environment is unknown.
func ResolveBaseURL(cfg config.ProviderConfig) string {
	if baseURL := strings.TrimRight(cfg.BaseURL, "/"); baseURL != "" {
		return baseURL
	}
	return baseURLs[cfg.Environment()]
}

// NewClient builds a provider client from configuration. A nil token source
// is not usable; callers wire a TokenManager.
func NewClient(cfg config.ProviderConfig, tokens TokenSource, logg *logger.Logger, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}

	baseURL := ResolveBaseURL(cfg)
	if baseURL == "" {
		return nil, fmt.Errorf("no base url for provider environment %q", cfg.Env)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		http:       &http.Client{Timeout: timeout},
		tokens:     tokens,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
		logg:       logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL reports the resolved provider endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// outcome is the classified result of one HTTP exchange. The retry loop is
// driven entirely off this value so the status table stays testable on its own.
type outcome struct {
	ok         bool
	retry      bool
	invalidate bool
	delay      time.Duration
	body       []byte
	err        *Error
}

// Request performs one provider call, retrying per the status-code contract,
// and returns the raw JSON body.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		payload = encoded
	}

	var lastErr *Error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		resp, doErr := c.do(ctx, method, path, payload, token)
		if doErr != nil {
			lastErr = &Error{Kind: KindNetwork, Op: opName(method, path), Err: doErr}
			c.logRetry(ctx, attempt, 0, "", "network failure")
			if attempt+1 == c.maxRetries {
				break
			}
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, lastErr
			}
			continue
		}

		result := c.classify(resp, method, path, attempt)
		if result.ok {
			return result.body, nil
		}
		if !result.retry {
			return nil, result.err
		}

		lastErr = result.err
		if result.invalidate {
			c.tokens.Invalidate()
		}
		c.logRetry(ctx, attempt, result.err.Status, result.err.CorrelationID, string(result.err.Kind))
		// No point backing off when there is no attempt left to spend.
		if attempt+1 == c.maxRetries {
			break
		}
		if result.delay > 0 {
			if err := c.sleep(ctx, result.delay); err != nil {
				return nil, lastErr
			}
		}
	}

	if lastErr == nil {
		lastErr = &Error{Kind: KindAPI, Op: opName(method, path), Body: "retries exhausted"}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// classify applies the provider's status-code contract to one response.
func (c *Client) classify(resp *http.Response, method, path string, attempt int) outcome {
	defer resp.Body.Close()
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return outcome{
			retry: true,
			delay: c.backoff(attempt),
			err:   &Error{Kind: KindNetwork, Op: opName(method, path), Err: readErr},
		}
	}

	op := opName(method, path)
	correlationID := resp.Header.Get(correlationHeader)
	status := resp.StatusCode

	if status >= 200 && status <= 299 {
		return outcome{ok: true, body: body}
	}

	base := &Error{
		Status:        status,
		Body:          strings.TrimSpace(string(body)),
		CorrelationID: correlationID,
		Op:            op,
	}

	switch status {
	case http.StatusBadRequest:
		base.Kind = KindBadRequest
		return outcome{err: base}
	case http.StatusUnauthorized:
		base.Kind = KindAuth
		return outcome{retry: true, invalidate: true, err: base}
	case http.StatusForbidden:
		// Account or permission problem; retrying cannot help.
		base.Kind = KindForbidden
		return outcome{err: base}
	case http.StatusTooManyRequests:
		base.Kind = KindRateLimit
		return outcome{retry: true, delay: c.rateLimitDelay(resp, attempt), err: base}
	case http.StatusServiceUnavailable:
		base.Kind = KindServiceUnavailable
		delay := c.backoff(attempt)
		if delay < minUnavailableDelay {
			delay = minUnavailableDelay
		}
		return outcome{retry: true, delay: delay, err: base}
	default:
		base.Kind = KindAPI
		return outcome{err: base}
	}
}

// rateLimitDelay honors Retry-After (seconds) when present.
func (c *Client) rateLimitDelay(resp *http.Response, attempt int) time.Duration {
	if raw := strings.TrimSpace(resp.Header.Get("Retry-After")); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return c.backoff(attempt)
}

func (c *Client) backoff(attempt int) time.Duration {
	return c.baseDelay * time.Duration(attempt+1)
}

func (c *Client) logRetry(ctx context.Context, attempt, status int, correlationID, reason string) {
	if c.logg == nil {
		return
	}
	fields := map[string]any{
		"attempt": attempt + 1,
		"reason":  reason,
	}
	if status != 0 {
		fields["status"] = status
	}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	c.logg.Warn(c.logg.WithFields(ctx, fields), "provider call retrying")
}

func opName(method, path string) string {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	return method + " " + path
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decodeJSON(body []byte, target any) error {
	return json.Unmarshal(body, target)
}
