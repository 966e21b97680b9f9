// Package client is a Go client for the homepage API with typed errors and
// retries of transient failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FlorianTh2/homepageBackend/pkg/contract"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
)

// maxErrorBody bounds how much of an error answer is read.
const maxErrorBody = 64 << 10

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API server, e.g. "https://api.example.com"
	BaseURL string

	// Token is sent as a bearer token. Empty sends anonymous requests,
	// which may only read.
	Token string

	// UserAgent header
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// Retry of transient failures
	Retry RetryConfig

	// HTTPClient overrides the HTTP client; Timeout is ignored when set
	HTTPClient *http.Client
}

// DefaultConfig returns a default configuration for the server at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "homepage-client/1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// Client talks to one homepage API server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg.Retry = cfg.Retry.normalize()

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		config:     cfg,
		logger:     logging.NewLogger("api-client"),
	}, nil
}

// WithToken returns a client that authenticates with token and otherwise
// shares c's configuration.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.config.Token = token
	return &clone
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, contract.Health, nil, nil, nil)
}

// Ready checks that the server can reach its database.
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, contract.Ready, nil, nil, nil)
}

// do sends a request and decodes a JSON answer into out. Transient
// failures are retried per the retry configuration.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		return c.attempt(ctx, method, target, payload, out)
	})
}

func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Msg("Executing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientRequests.WithLabelValues(method, "network_error").Inc()
		return &APIError{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	clientRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp)
		c.logger.Warn().
			Str("method", method).
			Str("url", target).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.ErrorClass)).
			Msg("API request error")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError builds an APIError from an error answer. Bodies that are not
// an error document fall back to the status text.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: classifyStatus(resp.StatusCode),
		Message:    resp.Status,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body contract.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.Message = body.Message
	apiErr.Classification = body.Classification
	return apiErr
}

// ListOptions filters and pages a project listing. Zero values are left
// out of the query.
type ListOptions struct {
	UserID     string
	Tag        string
	PageNumber int
	PageSize   int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.UserID != "" {
		q.Set(contract.QueryUserID, o.UserID)
	}
	if o.Tag != "" {
		q.Set(contract.QueryTag, o.Tag)
	}
	if o.PageNumber > 0 {
		q.Set(pagination.ParamPageNumber, strconv.Itoa(o.PageNumber))
	}
	if o.PageSize > 0 {
		q.Set(pagination.ParamPageSize, strconv.Itoa(o.PageSize))
	}
	return q
}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, opts ListOptions) (contract.PagedResponse[contract.ProjectResponse], error) {
	var page contract.PagedResponse[contract.ProjectResponse]
	err := c.do(ctx, http.MethodGet, contract.Projects, opts.query(), nil, &page)
	return page, err
}

// ListAllProjects walks every page of the listing selected by opts, fetching
// pages in parallel. opts.PageNumber and opts.PageSize are ignored; the page
// size comes from cfg.
func (c *Client) ListAllProjects(ctx context.Context, opts ListOptions, cfg pagination.Config) ([]contract.ProjectResponse, error) {
	fetcher := pagination.PageFetcherFunc[contract.ProjectResponse](
		func(ctx context.Context, pageNumber, pageSize int) ([]contract.ProjectResponse, int, error) {
			pageOpts := opts
			pageOpts.PageNumber = pageNumber
			pageOpts.PageSize = pageSize
			page, err := c.ListProjects(ctx, pageOpts)
			if err != nil {
				return nil, 0, err
			}
			return page.Data, page.Total, nil
		})
	return pagination.NewBatchFetcher[contract.ProjectResponse](fetcher, cfg).FetchAll(ctx)
}

// GetProject returns one project.
func (c *Client) GetProject(ctx context.Context, id string) (contract.ProjectResponse, error) {
	var resp contract.Response[contract.ProjectResponse]
	err := c.do(ctx, http.MethodGet, contract.ProjectPath(id), nil, nil, &resp)
	return resp.Data, err
}

// CreateProject creates a project owned by the token's user.
func (c *Client) CreateProject(ctx context.Context, req contract.CreateProjectRequest) (contract.ProjectResponse, error) {
	var resp contract.Response[contract.ProjectResponse]
	err := c.do(ctx, http.MethodPost, contract.Projects, nil, req, &resp)
	return resp.Data, err
}

// UpdateProject renames a project and, when req.Tags is non-nil, replaces
// its tags.
func (c *Client) UpdateProject(ctx context.Context, id string, req contract.UpdateProjectRequest) (contract.ProjectResponse, error) {
	var resp contract.Response[contract.ProjectResponse]
	err := c.do(ctx, http.MethodPut, contract.ProjectPath(id), nil, req, &resp)
	return resp.Data, err
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, contract.ProjectPath(id), nil, nil, nil)
}

// ListTags returns every registered tag ordered by name.
func (c *Client) ListTags(ctx context.Context) ([]contract.TagResponse, error) {
	var resp contract.Response[[]contract.TagResponse]
	err := c.do(ctx, http.MethodGet, contract.Tags, nil, nil, &resp)
	return resp.Data, err
}

// GetTag returns one tag.
func (c *Client) GetTag(ctx context.Context, name string) (contract.TagResponse, error) {
	var resp contract.Response[contract.TagResponse]
	err := c.do(ctx, http.MethodGet, contract.TagPath(name), nil, nil, &resp)
	return resp.Data, err
}

// CreateTag registers a tag. Registering an existing tag returns it.
func (c *Client) CreateTag(ctx context.Context, name string) (contract.TagResponse, error) {
	var resp contract.Response[contract.TagResponse]
	err := c.do(ctx, http.MethodPost, contract.Tags, nil, contract.CreateTagRequest{TagName: name}, &resp)
	return resp.Data, err
}

// DeleteTag removes a tag from every project. Deleting an unknown tag
// succeeds.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, contract.TagPath(name), nil, nil, nil)
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
