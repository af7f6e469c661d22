// Package mem0 provides a memory.Driver backed by the Mem0 hosted memory API.
package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/callmem/pkg/memory"
)

const (
	// DefaultBaseURL is the hosted Mem0 API.
	DefaultBaseURL = "https://api.mem0.ai"

	// DefaultTimeout bounds every request to the API.
	DefaultTimeout = 5 * time.Second

	apiVersion = "v2"
)

// Config holds configuration for the Mem0 driver.
type Config struct {
	// BaseURL defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as "Authorization: Token <key>".
	APIKey string

	// OrgID and ProjectID scope every request when set.
	OrgID     string
	ProjectID string

	// Timeout defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Driver implements memory.Driver using Mem0's REST API.
type Driver struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDriver creates a new Mem0 memory driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.APIKey == "" {
		return nil, errors.New("mem0 API key is required")
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("using Mem0 memory store",
		zap.String("url", baseURL),
		zap.String("org_id", c.OrgID),
		zap.String("project_id", c.ProjectID),
	)

	return &Driver{
		config:  c,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// Add submits the document's messages for the owner. Mem0 derives its own
// memories from the messages and assigns their IDs.
func (d *Driver) Add(ctx context.Context, doc *memory.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	body := addRequest{
		Messages:  doc.Messages,
		UserID:    doc.OwnerID,
		Metadata:  doc.Metadata(),
		Version:   apiVersion,
		OrgID:     d.config.OrgID,
		ProjectID: d.config.ProjectID,
	}

	if _, err := d.do(ctx, http.MethodPost, "/v1/memories/", nil, body); err != nil {
		return fmt.Errorf("adding memory: %w", err)
	}

	d.logger.Debug("added memory",
		zap.String("user_id", doc.OwnerID),
		zap.String("type", string(doc.Kind)),
		zap.Int("message_count", len(doc.Messages)),
	)

	return nil
}

// GetAll lists every memory of the owner.
func (d *Driver) GetAll(ctx context.Context, ownerID string) ([]memory.Memory, error) {
	query := url.Values{}
	query.Set("user_id", ownerID)
	if d.config.OrgID != "" {
		query.Set("org_id", d.config.OrgID)
	}
	if d.config.ProjectID != "" {
		query.Set("project_id", d.config.ProjectID)
	}

	respBody, err := d.do(ctx, http.MethodGet, "/v1/memories/", query, nil)
	if err != nil {
		return nil, fmt.Errorf("listing memories: %w", err)
	}

	return decodeMemories(respBody)
}

// Search runs Mem0's semantic search scoped to the owner.
func (d *Driver) Search(ctx context.Context, query, ownerID string, limit int) ([]memory.Memory, error) {
	body := searchRequest{
		Query:     query,
		UserID:    ownerID,
		Limit:     limit,
		OrgID:     d.config.OrgID,
		ProjectID: d.config.ProjectID,
	}

	respBody, err := d.do(ctx, http.MethodPost, "/v1/memories/search/", nil, body)
	if err != nil {
		return nil, fmt.Errorf("searching memories: %w", err)
	}

	return decodeMemories(respBody)
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// do sends one request and returns the body of a 2xx response.
func (d *Driver) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := d.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("mem0 returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

var _ memory.Driver = (*Driver)(nil)
