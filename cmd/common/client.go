package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultAPIURL = "http://localhost:8100/api/v1"
	// APIURLEnv overrides the API base URL for CLI commands
	APIURLEnv = "TATA_API_URL"
)

// Client represents a common API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientFromEnv creates a new client using environment variables
func NewClientFromEnv() *Client {
	apiURL := os.Getenv(APIURLEnv)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return NewClient(apiURL)
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DoRequest performs an HTTP request with a JSON body
func (c *Client) DoRequest(method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.DoRaw(method, path, contentType, reqBody)
}

// DoRaw performs an HTTP request with a preformatted body
func (c *Client) DoRaw(method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", c.baseURL, path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// Get performs a GET request
func (c *Client) Get(path string) (*http.Response, error) {
	return c.DoRequest(http.MethodGet, path, nil)
}

// Post performs a POST request
func (c *Client) Post(path string, body interface{}) (*http.Response, error) {
	return c.DoRequest(http.MethodPost, path, body)
}

// ReadBody reads and closes the response body
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// APIError is a non-success response from the server
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// CheckResponse checks if the response status code is in the expected range
func CheckResponse(resp *http.Response, expectedStatus ...int) error {
	for _, status := range expectedStatus {
		if resp.StatusCode == status {
			return nil
		}
	}

	body, _ := ReadBody(resp)
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	var payload struct {
		Error string `json:"error"`
		Type  string `json:"type"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Type = payload.Type
		apiErr.Message = payload.Error
	}
	return apiErr
}

// decodeJSON checks the status, then decodes and closes the body
func decodeJSON(resp *http.Response, out interface{}, expectedStatus ...int) error {
	if err := CheckResponse(resp, expectedStatus...); err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
