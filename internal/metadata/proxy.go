package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Envelope codes used by the book proxy.
const (
	ProxyCodeSuccess  = 0
	ProxyCodeNotFound = 404
)

const proxyISBNPath = "/book/isbn"

// ProxyClient talks to the book proxy service, which wraps a third-party
// catalogue behind a {errorCode, errorMsg, data} envelope.
type ProxyClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// ClientOptions configures a provider client.
type ClientOptions struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
	UserAgent         string
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// NewProxyClient creates a proxy client with rate limiting.
func NewProxyClient(opts ClientOptions) *ProxyClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProxyClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		rateLimiter: newLimiter(opts.RequestsPerSecond, opts.Burst),
	}
}

type proxyRequest struct {
	ISBN string `json:"isbn"`
}

type proxyEnvelope struct {
	ErrorCode int           `json:"errorCode"`
	ErrorMsg  string        `json:"errorMsg"`
	Data      *ProviderBook `json:"data"`
}

// FetchByISBN asks the proxy for the book with the given ISBN.
func (c *ProxyClient) FetchByISBN(ctx context.Context, isbn string) (*ProviderBook, error) {
	isbn = CleanISBN(isbn)
	if isbn == "" {
		return nil, ErrInvalidISBN
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(proxyRequest{ISBN: isbn})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+proxyISBNPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call book proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var envelope proxyEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if envelope.ErrorCode != ProxyCodeSuccess {
		return nil, &ProviderError{Code: envelope.ErrorCode, Message: envelope.ErrorMsg}
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, isbn)
	}

	envelope.Data.Source = "proxy"
	return envelope.Data, nil
}
