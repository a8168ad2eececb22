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

	"github.com/groblegark/tollgate/internal/model"
)

// HTTPClient implements TollClient using the tollgate HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements TollClient.
var _ TollClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Gates ---

func (c *HTTPClient) CreateGate(ctx context.Context, req *CreateGateRequest) (*model.Gate, error) {
	var gate model.Gate
	if err := c.doJSON(ctx, http.MethodPost, "/v1/gates", req, &gate); err != nil {
		return nil, err
	}
	return &gate, nil
}

func (c *HTTPClient) GetGate(ctx context.Context, id uint64) (*model.Gate, error) {
	var gate model.Gate
	if err := c.doJSON(ctx, http.MethodGet, gatePath(id), nil, &gate); err != nil {
		return nil, err
	}
	return &gate, nil
}

func (c *HTTPClient) ListGates(ctx context.Context, req *ListGatesRequest) (*ListGatesResponse, error) {
	q := url.Values{}
	if req.Beneficiary != "" {
		q.Set("beneficiary", req.Beneficiary)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	path := "/v1/gates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListGatesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetCost(ctx context.Context, id uint64) (*CostResponse, error) {
	var resp CostResponse
	if err := c.doJSON(ctx, http.MethodGet, gatePath(id)+"/cost", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PassThrough(ctx context.Context, id uint64, payer string, payment uint64) (*model.Passage, error) {
	body := map[string]any{
		"payer":   payer,
		"payment": payment,
	}
	var passage model.Passage
	if err := c.doJSON(ctx, http.MethodPost, gatePath(id)+"/pass", body, &passage); err != nil {
		return nil, err
	}
	return &passage, nil
}

func (c *HTTPClient) ListPassages(ctx context.Context, id uint64, limit int) ([]*model.Passage, error) {
	path := gatePath(id) + "/passages"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var passages []*model.Passage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &passages); err != nil {
		return nil, err
	}
	return passages, nil
}

// --- Accounts ---

func (c *HTTPClient) CreateAccount(ctx context.Context, name string) (*model.Account, error) {
	body := map[string]string{"name": name}
	var account model.Account
	if err := c.doJSON(ctx, http.MethodPost, "/v1/accounts", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := c.doJSON(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	if err := c.doJSON(ctx, http.MethodGet, "/v1/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *HTTPClient) Deposit(ctx context.Context, id string, amount uint64) (*model.Account, error) {
	body := map[string]uint64{"amount": amount}
	var account model.Account
	if err := c.doJSON(ctx, http.MethodPost, "/v1/accounts/"+url.PathEscape(id)+"/deposit", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) SetFrozen(ctx context.Context, id string, frozen bool) error {
	action := "freeze"
	if !frozen {
		action = "unfreeze"
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/accounts/"+url.PathEscape(id)+"/"+action, nil, nil)
}

// --- System ---

func (c *HTTPClient) GetStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/v1/health", nil, nil)
}

func gatePath(id uint64) string {
	return "/v1/gates/" + strconv.FormatUint(id, 10)
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into out (when out is non-nil). Non-2xx responses are turned
// into errors carrying the server's error message.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
