// Package viewer implements the presentation client of the gateway:
// a typed HTTP client and the browsing state machine driven by the terminal UI.
package viewer

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

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// DefaultBaseURL is the gateway's API root on its default port.
const DefaultBaseURL = "http://localhost:3001/api"

// APIError is a gateway response that reports a failure.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ClientConfig holds the configuration for the gateway client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the gateway's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Connect asks the gateway to open a session.
func (c *Client) Connect(ctx context.Context, connectionString string) error {
	var resp dto.SuccessResponse
	if err := c.do(ctx, http.MethodPost, "/connect", dto.ConnectRequest{ConnectionString: connectionString}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: "Connection failed"}
	}
	return nil
}

// Disconnect asks the gateway to close its session.
func (c *Client) Disconnect(ctx context.Context) error {
	var resp dto.SuccessResponse
	return c.do(ctx, http.MethodPost, "/disconnect", nil, &resp)
}

// Databases lists databases.
func (c *Client) Databases(ctx context.Context) ([]docdb.DatabaseSummary, error) {
	var resp dto.DatabasesResponse
	if err := c.do(ctx, http.MethodGet, "/databases", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Databases, nil
}

// Collections lists the collections of a database.
func (c *Client) Collections(ctx context.Context, dbName string) ([]docdb.CollectionSummary, error) {
	var resp dto.CollectionsResponse
	if err := c.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(dbName), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Collections, nil
}

// Documents fetches one page of documents.
// A limit of 0 leaves the page size to the gateway.
func (c *Client) Documents(ctx context.Context, dbName, collectionName string, limit int64) (*dto.DocumentsResponse, error) {
	path := "/documents/" + url.PathEscape(dbName) + "/" + url.PathEscape(collectionName)
	if limit != 0 {
		path += "?limit=" + strconv.FormatInt(limit, 10)
	}

	var resp dto.DocumentsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches collection statistics.
func (c *Client) Stats(ctx context.Context, dbName, collectionName string) (*dto.StatsResponse, error) {
	path := "/stats/" + url.PathEscape(dbName) + "/" + url.PathEscape(collectionName)

	var resp dto.StatsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health reports the gateway's health.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
		apiErr.Code = envelope.Code
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	return apiErr
}
