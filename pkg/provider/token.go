package provider

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Tokens are refreshed this long before their reported expiry.
const tokenExpiryBuffer = 5 * time.Minute

const authenticatePath = "/authenticate"

// Doer is the subset of http.Client the provider packages depend on.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies bearer tokens for provider calls and supports forced
// invalidation after a 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// TokenManager caches one client-credentials token and its absolute expiry.
// It is safe for concurrent use; a redundant refresh race is harmless.
type TokenManager struct {
	mu     sync.Mutex
	http   Doer
	url    string
	key    string
	secret string
	now    func() time.Time

	token  string
	expiry time.Time
}

// NewTokenManager builds a token manager exchanging credentials at baseURL.
func NewTokenManager(baseURL, key, secret string, httpClient Doer) *TokenManager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenManager{
		http:   httpClient,
		url:    strings.TrimRight(baseURL, "/") + authenticatePath,
		key:    key,
		secret: secret,
		now:    time.Now,
	}
}

// Token returns the cached token while it has more than the safety buffer of
// life left, otherwise performs a fresh client-credentials exchange.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiry.Add(-tokenExpiryBuffer)) {
		return m.token, nil
	}

	token, expiresIn, err := m.exchange(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.expiry = m.now().Add(time.Duration(expiresIn) * time.Second)
	return m.token, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiry = time.Time{}
}

func (m *TokenManager) exchange(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("key", m.key)
	form.Set("secret", m.secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &Error{Kind: KindAuth, Op: "authenticate", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", 0, &Error{Kind: KindAuth, Op: "authenticate", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &Error{Kind: KindAuth, Op: "authenticate", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The response body is kept verbatim: it is the only diagnostic the
		// provider gives for credential failures.
		return "", 0, &Error{
			Kind:          KindAuth,
			Status:        resp.StatusCode,
			Body:          strings.TrimSpace(string(body)),
			CorrelationID: resp.Header.Get(correlationHeader),
			Op:            "authenticate",
		}
	}

	var parsed TokenResponse
	if err := decodeJSON(body, &parsed); err != nil {
		return "", 0, &Error{Kind: KindAuth, Op: "authenticate", Err: err}
	}
	if parsed.AccessToken == "" {
		return "", 0, &Error{Kind: KindAuth, Status: resp.StatusCode, Body: "empty access_token", Op: "authenticate"}
	}
	return parsed.AccessToken, parsed.ExpiresIn, nil
}
