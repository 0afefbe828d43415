package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/felixgeelhaar/fortify/retry"
)

const maxResponseBytes = 1 << 20

type response struct {
	status int
	body   []byte
}

type envelope struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// HTTPClient talks to the taskdesk API. The session token is sent raw in
// the Authorization header, the same way the browser client does it.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	retrier retry.Retry[*response]
}

// NewHTTPClient builds a client for baseURL. attempts below 2 disables
// retries of GET requests.
func NewHTTPClient(baseURL string, timeout time.Duration, attempts int) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("server URL is empty")
	}

	c := &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}

	if attempts > 1 {
		c.retrier = retry.New[*response](retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable: func(err error) bool {
				return errors.Is(err, ErrUnavailable)
			},
		})
	}
	return c, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path, token string, in any) (*response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, failure(&response{status: resp.StatusCode, body: data})
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

// get retries while the server is unreachable.
func (c *HTTPClient) get(ctx context.Context, path, token string) (*response, error) {
	if c.retrier == nil {
		return c.send(ctx, http.MethodGet, path, token, nil)
	}
	return c.retrier.Do(ctx, func(ctx context.Context) (*response, error) {
		return c.send(ctx, http.MethodGet, path, token, nil)
	})
}

func failure(r *response) error {
	var env envelope
	_ = json.Unmarshal(r.body, &env)
	return &APIError{StatusCode: r.status, Message: env.Message, Err: sentinelForStatus(r.status)}
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	r, err := c.send(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if r.status != http.StatusCreated {
		return failure(r)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	r, err := c.send(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if r.status != http.StatusOK {
		return nil, failure(r)
	}

	var res LoginResult
	if err := json.Unmarshal(r.body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", ErrServer, err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", ErrServer)
	}
	return &res, nil
}

// Products fetches the token-gated resource. Both gate rejections (missing
// and invalid token) surface as ErrTokenRejected.
func (c *HTTPClient) Products(ctx context.Context, token string) (*Product, error) {
	r, err := c.get(ctx, "/products", token)
	if err != nil {
		return nil, err
	}
	switch r.status {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		e := failure(r).(*APIError)
		e.Err = ErrTokenRejected
		return nil, e
	default:
		return nil, failure(r)
	}

	var p Product
	if err := json.Unmarshal(r.body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode products response: %v", ErrServer, err)
	}
	return &p, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	r, err := c.get(ctx, "/health", "")
	if err != nil {
		return err
	}
	if r.status != http.StatusOK {
		return failure(r)
	}
	return nil
}
