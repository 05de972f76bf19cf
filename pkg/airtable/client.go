// Package airtable is a small REST client for Airtable record create and
// list operations.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Airtable REST API host.
const DefaultBaseURL = "https://api.airtable.com"

// Client defines the Airtable API operations used by this application.
type Client interface {
	// CreateRecord creates one record in a table and returns it as stored.
	CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error)
	// ListRecords fetches one page of records from a table.
	ListRecords(ctx context.Context, table string, params ListParams) (*ListResponse, error)
}

// Record is an Airtable record.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// ListParams selects a page of records.
type ListParams struct {
	FilterByFormula string
	PageSize        int
	Offset          string
}

// ListResponse is one page of a list call. Offset is empty on the last page.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type createRequest struct {
	Fields map[string]any `json:"fields"`
}

// Option configures the Airtable client.
type Option func(*restClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *restClient) {
		c.http.SetBaseURL(url)
	}
}

// WithTimeout sets the per-request transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *restClient) {
		c.http.SetTimeout(d)
	}
}

// WithRateLimit overrides the default Airtable rate limit (5 req/s per base).
// A non-positive value disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *restClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// restClient implements Client over resty.
type restClient struct {
	baseID  string
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient creates an Airtable client for one base, authenticated with a
// personal access token or API key.
func NewClient(apiKey, baseID string, opts ...Option) Client {
	hc := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	c := &restClient{
		baseID:  baseID,
		http:    hc,
		limiter: rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *restClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *restClient) request(ctx context.Context, table string) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"base":  c.baseID,
			"table": table,
		})
}

func (c *restClient) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "airtable: rate limit")
	}

	var rec Record
	resp, err := c.request(ctx, table).
		SetBody(createRequest{Fields: fields}).
		SetResult(&rec).
		Post("/v0/{base}/{table}")
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("airtable: create record in %s", table))
	}
	if resp.IsError() {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	return &rec, nil
}

func (c *restClient) ListRecords(ctx context.Context, table string, params ListParams) (*ListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "airtable: rate limit")
	}

	req := c.request(ctx, table)
	if params.FilterByFormula != "" {
		req.SetQueryParam("filterByFormula", params.FilterByFormula)
	}
	if params.PageSize > 0 {
		req.SetQueryParam("pageSize", fmt.Sprint(params.PageSize))
	}
	if params.Offset != "" {
		req.SetQueryParam("offset", params.Offset)
	}

	var page ListResponse
	resp, err := req.SetResult(&page).Get("/v0/{base}/{table}")
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("airtable: list records in %s", table))
	}
	if resp.IsError() {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	return &page, nil
}

// APIError is an error response from the Airtable API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("airtable: status %d: %s", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("airtable: status %d: %s: %s", e.StatusCode, e.Type, e.Message)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// newAPIError decodes an Airtable error body. The API returns either
// {"error":{"type":..,"message":..}} or {"error":"NOT_FOUND"}.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Type = http.StatusText(status)
		apiErr.Message = string(body)
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Message = detail.Message
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		apiErr.Type = code
		return apiErr
	}

	apiErr.Type = http.StatusText(status)
	apiErr.Message = string(envelope.Error)
	return apiErr
}
