package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultAddr is where the daemon listens unless configured otherwise.
const DefaultAddr = "http://127.0.0.1:7455"

// ErrNotFound is returned when the daemon reports a vanished application.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the daemon.
type APIError struct {
	Status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("appshelf: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("appshelf: %d: %s", e.Status, e.Message)
}

// Is reports 404 answers as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Options tune the underlying transport.
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultOptions suit a loopback daemon.
func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: time.Second,
	}
}

// Client talks to the catalog daemon over HTTP.
type Client struct {
	resty *resty.Client
}

// New creates a client for the daemon at addr with default options.
func New(addr string) *Client {
	return NewWithOptions(addr, DefaultOptions())
}

// NewWithOptions creates a client for the daemon at addr. Connection errors
// and 5xx answers are retried with backoff, except for requests that are not
// safe to apply twice.
func NewWithOptions(addr string, opts Options) *Client {
	if addr == "" {
		addr = DefaultAddr
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = retryPolicy

	r := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(addr).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "shelfctl/1.0")

	return &Client{resty: r}
}

// Health returns the daemon's health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}

// Catalog lists applications.
func (c *Client) Catalog(ctx context.Context, q Query) ([]Entry, error) {
	params := url.Values{}
	if q.Refresh {
		params.Set("refresh", "true")
	}
	setIf(params, "search", q.Search)
	setIf(params, "category", q.Category)
	setIf(params, "sort", q.Sort)

	var out catalogResult
	if err := c.do(ctx, http.MethodGet, "/catalog", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// RecordUsage increments an application's launch count and returns it.
func (c *Client) RecordUsage(ctx context.Context, path string) (uint32, error) {
	var out usageResult
	err := c.do(withoutRetry(ctx), http.MethodPost, "/catalog/usage", nil, map[string]string{"path": path}, &out)
	return out.Count, err
}

// SetCategory assigns a category; an empty category clears it.
func (c *Client) SetCategory(ctx context.Context, path, category string) error {
	body := map[string]string{"path": path, "category": category}
	return c.do(ctx, http.MethodPut, "/catalog/category", nil, body, nil)
}

// AutoCategorize runs the classification heuristic.
func (c *Client) AutoCategorize(ctx context.Context) (AutoResult, error) {
	var out AutoResult
	err := c.do(ctx, http.MethodPost, "/catalog/auto-categorize", nil, nil, &out)
	return out, err
}

// Stats summarizes usage; top <= 0 uses the daemon's default.
func (c *Client) Stats(ctx context.Context, top int) (Stats, error) {
	params := url.Values{}
	if top > 0 {
		params.Set("top", strconv.Itoa(top))
	}
	var out Stats
	err := c.do(ctx, http.MethodGet, "/catalog/stats", params, nil, &out)
	return out, err
}

// Categories returns user categories and display order.
func (c *Client) Categories(ctx context.Context) (Categories, error) {
	var out Categories
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out)
	return out, err
}

// AddCategory registers a user category.
func (c *Client) AddCategory(ctx context.Context, name string) (Categories, error) {
	var out Categories
	err := c.do(ctx, http.MethodPost, "/categories", nil, map[string]string{"name": name}, &out)
	return out, err
}

// RemoveCategory deletes a user category.
func (c *Client) RemoveCategory(ctx context.Context, name string) (Categories, error) {
	var out Categories
	err := c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(name), nil, nil, &out)
	return out, err
}

// Config returns the persisted record as raw JSON.
func (c *Client) Config(ctx context.Context) (json.RawMessage, error) {
	var out configResult
	if err := c.do(ctx, http.MethodGet, "/config", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Config, nil
}

// SaveConfig replaces the persisted record.
func (c *Client) SaveConfig(ctx context.Context, record json.RawMessage) error {
	return c.do(ctx, http.MethodPut, "/config", nil, record, nil)
}

// Invoke sends a command envelope. Command failures are reported in the
// reply, not as an error. Envelopes are never retried, since they may
// carry a usage increment.
func (c *Client) Invoke(ctx context.Context, command string, args any) (*Reply, error) {
	var reply Reply
	resp, err := c.resty.R().
		SetContext(withoutRetry(ctx)).
		SetBody(envelope{Command: command, Args: args}).
		SetResult(&reply).
		SetError(&reply).
		Post("/invoke")
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", command, err)
	}
	if reply.Command == "" {
		return nil, &APIError{Status: resp.StatusCode(), Message: resp.String()}
	}
	return &reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	apiErr := &APIError{}
	req := c.resty.R().
		SetContext(ctx).
		SetError(apiErr)
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}

type noRetryKey struct{}

// withoutRetry marks a request as non-idempotent.
func withoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if once, _ := ctx.Value(noRetryKey{}).(bool); once {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
