// SPDX-License-Identifier: MIT

// Package httpclient is a typed JSON REST client. A Client carries the
// base URL, default headers, and timeout; the package-level generic
// functions (Get, GetList, Post, Put, Patch, Delete) decode responses
// straight into caller types and surface failures as sentinel errors
// wrapped in StatusError.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	xlog "github.com/ManuGH/vrachos/log"
)

const defaultTimeout = 10 * time.Second

// Validator is implemented by response types that want semantic checks
// after decoding. A non-nil error rejects the response.
type Validator interface {
	Validate() error
}

// Client is a JSON REST client bound to one base URL.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	logger  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHeader adds a default header sent on every request. Per-request
// headers override it.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the given base URL. A trailing slash on the
// base URL is ignored.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		headers: map[string]string{},
		logger:  xlog.WithComponent("httpclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug().
		Str("base_url", c.baseURL).
		Dur("timeout", c.http.Timeout).
		Msg("http client initialised")
	return c
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	query   url.Values
	headers map[string]string
}

// RequestOption customises a single request.
type RequestOption func(*requestOptions)

// WithQuery adds a query string parameter.
func WithQuery(key, value string) RequestOption {
	return func(ro *requestOptions) {
		if ro.query == nil {
			ro.query = url.Values{}
		}
		ro.query.Add(key, value)
	}
}

// WithRequestHeader sets a header on this request only, overriding any
// default header of the same name.
func WithRequestHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		if ro.headers == nil {
			ro.headers = map[string]string{}
		}
		ro.headers[key] = value
	}
}

// do executes one request and returns the raw response body. Non-2xx
// statuses and transport failures come back as *StatusError.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, opts []RequestOption) ([]byte, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(ro.query) > 0 {
		u += "?" + ro.query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", u).
		Msg("sending request")

	res, err := c.http.Do(req)
	if err != nil {
		sentinel := ErrUnavailable
		if isTimeout(err) {
			sentinel = ErrTimeout
		}
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("url", u).
			Msg("request failed before receiving a response")
		return nil, &StatusError{Sentinel: sentinel, Method: method, URL: u, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &StatusError{
			Sentinel: ErrBadResponse,
			Method:   method,
			URL:      u,
			Status:   res.StatusCode,
			Err:      err,
		}
	}

	if res.StatusCode >= 400 {
		c.logger.Error().
			Int("status", res.StatusCode).
			Str("method", method).
			Str("url", u).
			Str("body", string(data)).
			Msg("request failed")
		return nil, &StatusError{
			Sentinel: classify(res.StatusCode),
			Method:   method,
			URL:      u,
			Status:   res.StatusCode,
			Body:     strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Get requests a single object and decodes it into T.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodGet, endpoint, nil, opts)
	if err != nil {
		return out, err
	}
	return decodeValue[T](data)
}

// GetList requests a JSON array and decodes it into a slice of T.
func GetList[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) ([]T, error) {
	data, err := c.do(ctx, http.MethodGet, endpoint, nil, opts)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", ErrBadResponse, err)
	}
	for i := range items {
		if err := checkValid(&items[i]); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrBadResponse, i, err)
		}
	}
	return items, nil
}

// Post sends body as JSON and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodPost, endpoint, body, opts)
	if err != nil {
		return out, err
	}
	return decodeValue[T](data)
}

// Put sends body as JSON and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodPut, endpoint, body, opts)
	if err != nil {
		return out, err
	}
	return decodeValue[T](data)
}

// Patch sends body as JSON and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodPatch, endpoint, body, opts)
	if err != nil {
		return out, err
	}
	return decodeValue[T](data)
}

// Delete deletes a resource and returns the response object. An empty
// response body yields {"status": "deleted"}.
func Delete(ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (map[string]any, error) {
	data, err := c.do(ctx, http.MethodDelete, endpoint, nil, opts)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{"status": "deleted"}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return out, nil
}

// decodeValue unmarshals one object and runs its Validate hook when the
// type provides one.
func decodeValue[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if err := checkValid(&out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return out, nil
}

// checkValid runs the Validate hook through either a value or pointer
// receiver.
func checkValid[T any](v *T) error {
	if impl, ok := any(v).(Validator); ok {
		return impl.Validate()
	}
	if impl, ok := any(*v).(Validator); ok {
		return impl.Validate()
	}
	return nil
}
