// Package client is a Go client for the tally HTTP API. It validates
// requests before sending them, caches reads in memory and retries a failed
// call once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/tallyhq/tally/internal/request"
	"github.com/tallyhq/tally/model"
)

const (
	keyHeader       = "X-Tally-Key"
	principalHeader = "X-Tally-Principal"

	retryDelay = 200 * time.Millisecond
)

// Error is a failed call as reported by the server, or a request the client
// refused to send.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes returned by the server.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// IsCode reports whether err is an Error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func invalid(err error) error {
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidInput, Message: err.Error()}
}

type Client struct {
	baseURL    *url.URL
	caller     model.Principal
	secretKey  string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string][]byte
	gen   uint64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSecretKey sets the key sent to servers running in secure mode.
func WithSecretKey(key string) Option {
	return func(c *Client) { c.secretKey = key }
}

// New returns a client acting as caller against the server at baseURL.
func New(baseURL string, caller model.Principal, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	if caller.IsAnonymous() || caller == "" {
		return nil, errors.New("a client needs a non anonymous caller")
	}

	c := &Client{
		baseURL:    u,
		caller:     caller,
		httpClient: &http.Client{Timeout: request.DefaultTimeout},
		cache:      make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Caller is the principal every call is made as.
func (c *Client) Caller() model.Principal {
	return c.caller
}

// ClearCache drops every cached read.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string][]byte)
	c.gen++
	c.mu.Unlock()
}

// cached returns the body stored under key along with the current cache
// generation.
func (c *Client) cached(key string) ([]byte, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.cache[key]
	return body, c.gen, ok
}

// store keeps body only if the cache was not cleared since gen was read, so
// a read that raced a mutation never repopulates the cache.
func (c *Client) store(key string, gen uint64, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.cache[key] = body
}

// get reads path, serving repeated reads from the cache until the next
// successful mutation.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	body, gen, ok := c.cached(key)
	if ok {
		return decode(body, out)
	}

	body, err := c.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return err
	}
	c.store(key, gen, body)
	return decode(body, out)
}

// mutate sends a write and clears the whole cache when it succeeds.
func (c *Client) mutate(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	c.ClearCache()
	return decode(body, out)
}

// do runs one call with at most one retry. Only network failures and 5xx
// responses are retried.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var raw []byte
	if payload != nil {
		buf, err := request.ToJsonReq(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
		raw = buf.Bytes()
	}

	var body []byte
	attempt := func() error {
		var err error
		body, err = c.send(ctx, method, path, raw)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), 1), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, raw []byte) ([]byte, error) {
	var reader io.Reader
	if raw != nil {
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "building request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(principalHeader, c.caller.String())
	if c.secretKey != "" {
		req.Header.Set(keyHeader, c.secretKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s %s", method, path)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = CodeInternal
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apiErr
	}
	return nil, backoff.Permanent(apiErr)
}

func decode(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "decoding response")
}
