// Package client is a typed HTTP client for the liaison REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config represents the configuration for the API client
type Config struct {
	// BaseURL is the base URL of the liaison API, without the /api suffix
	BaseURL string
	// Token is the bearer session token sent with every request
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the liaison API client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// APIError is a non-2xx response. Fields is set for validation failures.
type APIError struct {
	StatusCode int                 `json:"-"`
	Message    string              `json:"error"`
	Fields     map[string][]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s (Status: %d)", e.Message, strings.Join(names, ", "), e.StatusCode)
}

// Resource is the CRUD surface of one entity, e.g. /api/clientRequests.
type Resource[T, C, U any] struct {
	c    *Client
	path string
}

// NewResource addresses the entity mounted at /api/<path>.
func NewResource[T, C, U any](c *Client, path string) *Resource[T, C, U] {
	return &Resource[T, C, U]{c: c, path: "/api/" + path}
}

func (r *Resource[T, C, U]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Resource[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	var row T
	if err := r.c.do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Resource[T, C, U]) Create(ctx context.Context, input C) (*T, error) {
	var row T
	if err := r.c.do(ctx, http.MethodPost, r.path, nil, input, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Resource[T, C, U]) Update(ctx context.Context, id string, input U) (*T, error) {
	var row T
	if err := r.c.do(ctx, http.MethodPut, r.path, url.Values{"id": {id}}, input, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Resource[T, C, U]) Delete(ctx context.Context, id string) (*T, error) {
	var row T
	if err := r.c.do(ctx, http.MethodDelete, r.path, url.Values{"id": {id}}, nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Client) Companies() *Resource[Company, NewCompany, UpdateCompany] {
	return NewResource[Company, NewCompany, UpdateCompany](c, "companies")
}

func (c *Client) Teams() *Resource[Team, NewTeam, UpdateTeam] {
	return NewResource[Team, NewTeam, UpdateTeam](c, "teams")
}

func (c *Client) ClientRequests() *Resource[ClientRequest, NewClientRequest, UpdateClientRequest] {
	return NewResource[ClientRequest, NewClientRequest, UpdateClientRequest](c, "clientRequests")
}

func (c *Client) LiaisonRequests() *Resource[LiaisonRequest, NewLiaisonRequest, UpdateLiaisonRequest] {
	return NewResource[LiaisonRequest, NewLiaisonRequest, UpdateLiaisonRequest](c, "liaisonRequests")
}

func (c *Client) SupplierResponses() *Resource[SupplierResponse, NewSupplierResponse, UpdateSupplierResponse] {
	return NewResource[SupplierResponse, NewSupplierResponse, UpdateSupplierResponse](c, "supplierResponses")
}

func (c *Client) LiaisonResponses() *Resource[LiaisonResponse, NewLiaisonResponse, UpdateLiaisonResponse] {
	return NewResource[LiaisonResponse, NewLiaisonResponse, UpdateLiaisonResponse](c, "liaisonResponses")
}

func (c *Client) UsersToCompanies() *Resource[UsersToCompany, NewUsersToCompany, UpdateUsersToCompany] {
	return NewResource[UsersToCompany, NewUsersToCompany, UpdateUsersToCompany](c, "usersToCompanies")
}

func (c *Client) UsersToTeams() *Resource[UsersToTeam, NewUsersToTeam, UpdateUsersToTeam] {
	return NewResource[UsersToTeam, NewUsersToTeam, UpdateUsersToTeam](c, "usersToTeams")
}

// JoinCompany admits the caller to a company, by email domain or passphrase.
func (c *Client) JoinCompany(ctx context.Context, companyID, passphrase string) (*UsersToCompany, error) {
	var membership UsersToCompany
	body := struct {
		Passphrase string `json:"passphrase,omitempty"`
	}{Passphrase: passphrase}

	path := "/api/companies/" + url.PathEscape(companyID) + "/join"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

// AuditLogFilter narrows GET /api/audit-logs. Zero fields are not sent.
type AuditLogFilter struct {
	Action     string
	EntityType string
	EntityID   string
	Result     *bool
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

func (f AuditLogFilter) values() url.Values {
	q := url.Values{}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if f.EntityType != "" {
		q.Set("entity_type", f.EntityType)
	}
	if f.EntityID != "" {
		q.Set("entity_id", f.EntityID)
	}
	if f.Result != nil {
		q.Set("result", strconv.FormatBool(*f.Result))
	}
	if !f.StartTime.IsZero() {
		q.Set("start_time", f.StartTime.Format(time.RFC3339))
	}
	if !f.EndTime.IsZero() {
		q.Set("end_time", f.EndTime.Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// AuditLogs returns one page of the caller's audit trail.
func (c *Client) AuditLogs(ctx context.Context, filter AuditLogFilter) (*AuditLogPage, error) {
	var page AuditLogPage
	if err := c.do(ctx, http.MethodGet, "/api/audit-logs", filter.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// do sends one request and decodes a 2xx body into resp. Anything else
// becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, req interface{}, resp interface{}) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if req != nil {
		reqBody, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	// Check for non-success status code
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			// If we can't decode the error, create a generic one
			return &APIError{
				StatusCode: httpResp.StatusCode,
				Message:    fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
			}
		}

		apiErr.StatusCode = httpResp.StatusCode
		return &apiErr
	}

	if resp == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
