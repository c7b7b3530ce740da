package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"Mansoor88-6/nagster-console/internal/obs"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIClient talks to the Nagster backend. It is safe for concurrent use.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *obs.Metrics
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

// NewAPIClient creates a client for baseURL. limiter and metrics may be nil.
func NewAPIClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, metrics *obs.Metrics, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token attached to data requests. Empty clears it.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type request struct {
	method  string
	body    any
	headers http.Header
	query   url.Values
	noAuth  bool
}

// Option customises a single Call.
type Option func(*request)

func WithMethod(method string) Option {
	return func(r *request) { r.method = method }
}

// WithBody JSON-encodes v as the request body.
func WithBody(v any) Option {
	return func(r *request) { r.body = v }
}

// WithHeader sets a header; caller headers override the defaults.
func WithHeader(key, value string) Option {
	return func(r *request) { r.headers.Set(key, value) }
}

func WithQuery(key, value string) Option {
	return func(r *request) { r.query.Set(key, value) }
}

// WithoutAuth suppresses the Authorization header.
func WithoutAuth() Option {
	return func(r *request) { r.noAuth = true }
}

// Call performs a request against endpoint (a path such as "/overview") and
// returns the JSON body. Any failure is returned as *Error.
func (c *APIClient) Call(ctx context.Context, endpoint string, opts ...Option) (json.RawMessage, error) {
	r := &request{
		method:  http.MethodGet,
		headers: http.Header{},
		query:   url.Values{},
	}
	for _, opt := range opts {
		opt(r)
	}

	target, err := c.resolve(endpoint, r.query)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Endpoint: endpoint, Message: err.Error(), Err: err}
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Endpoint: endpoint, Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Endpoint: endpoint, Message: "failed to create request", Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if tok := c.Token(); tok != "" && !r.noAuth {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, vs := range r.headers {
		req.Header[k] = vs
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindCanceled, Endpoint: endpoint, Message: "request canceled", Err: err}
		}
	}

	done := c.metrics.Start(r.method, endpoint)
	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		if ctx.Err() != nil {
			done("canceled")
			c.logger.Debug("Request canceled",
				zap.String("endpoint", endpoint),
				zap.String("request_id", requestID),
			)
			return nil, &Error{Kind: KindCanceled, Endpoint: endpoint, Message: "request canceled", Err: ctx.Err()}
		}
		done("network")
		c.logger.Error("Request failed",
			zap.Error(err),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
		)
		return nil, &Error{Kind: KindNetwork, Endpoint: endpoint, Message: "Network error: unable to reach server", Err: err}
	}
	defer resp.Body.Close()

	done(strconv.Itoa(resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindCanceled, Endpoint: endpoint, Message: "request canceled", Err: ctx.Err()}
		}
		return nil, &Error{Kind: KindNetwork, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("Request succeeded",
			zap.String("method", r.method),
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
		)
		if len(bytes.TrimSpace(data)) == 0 {
			return json.RawMessage("null"), nil
		}
		if !json.Valid(data) {
			return nil, &Error{Kind: KindDecode, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "Invalid response from server"}
		}
		return json.RawMessage(data), nil
	}

	apiErr := c.statusError(endpoint, resp.StatusCode, data)
	c.logger.Warn("Request returned error status",
		zap.String("method", r.method),
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.String("kind", string(apiErr.Kind)),
		zap.String("request_id", requestID),
		zap.Duration("duration", duration),
	)
	return nil, apiErr
}

// Do is Call followed by decoding the body into out (which may be nil).
func (c *APIClient) Do(ctx context.Context, endpoint string, out any, opts ...Option) error {
	raw, err := c.Call(ctx, endpoint, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindDecode, Endpoint: endpoint, Message: "Invalid response from server", Err: err}
	}
	return nil
}

func (c *APIClient) resolve(endpoint string, query url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// statusError classifies a non-2xx response. The message is the generic
// "HTTP error! status: N" except on /auth endpoints, where the backend's
// detail is shown to the user.
func (c *APIClient) statusError(endpoint string, status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP error! status: %d", status)
	if isAuthEndpoint(endpoint) {
		if detail := extractDetail(body); detail != "" {
			msg = detail
		}
	}

	e := &Error{Endpoint: endpoint, StatusCode: status, Message: msg}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindAuth
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = KindBadRequest
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindHTTP
	}
	return e
}

func isAuthEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/auth/") || strings.HasPrefix(endpoint, "auth/")
}

// extractDetail pulls a human-readable "detail" out of an error body. FastAPI
// validation errors carry a list there; the first msg is used.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// HealthCheck checks if the backend is reachable.
func (c *APIClient) HealthCheck(ctx context.Context) error {
	var h struct {
		Status string `json:"status"`
	}
	if err := c.Do(ctx, "/health", &h, WithoutAuth()); err != nil {
		return err
	}
	if h.Status != "ok" {
		return &Error{Kind: KindHTTP, Endpoint: "/health", Message: fmt.Sprintf("health check returned status %q", h.Status)}
	}
	return nil
}

// IsCanceled reports whether err came from a canceled context.
func IsCanceled(err error) bool {
	return KindOf(err) == KindCanceled || errors.Is(err, context.Canceled)
}
