// Package remote calls a DreamSense interpretation API over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MimeLyc/dreamsense/internal/dream"
	"github.com/MimeLyc/dreamsense/internal/service"
)

type interpretRequest struct {
	DreamText string `json:"dream_text"`
}

type interpretResponse struct {
	Data  *dream.Result `json:"data"`
	Error string        `json:"error,omitempty"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the API at baseURL, e.g. http://localhost:8000.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Interpret posts the dream to <base>/interpret and decodes the result.
func (c *Client) Interpret(ctx context.Context, dreamText string) (dream.Result, error) {
	body, err := json.Marshal(interpretRequest{DreamText: dreamText})
	if err != nil {
		return dream.Result{}, service.WrapError(err, service.ErrValidation, "failed to marshal request")
	}

	url := c.baseURL + "/interpret"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return dream.Result{}, service.WrapError(err, service.ErrConfig, "failed to create request").
			WithContext("url", url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dream.Result{}, service.WrapError(err, service.ErrNetwork, "failed to reach interpretation API").
			WithContext("url", url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return dream.Result{}, service.WrapError(err, service.ErrNetwork, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dream.Result{}, service.NewError(service.ErrAPI, fmt.Sprintf("API error: %d", resp.StatusCode)).
			WithContext("url", url).
			WithContext("status", resp.StatusCode)
	}

	var decoded interpretResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return dream.Result{}, service.WrapError(err, service.ErrParse, "failed to decode response")
	}
	if decoded.Error != "" {
		return dream.Result{}, service.NewError(service.ErrAPI, decoded.Error).WithContext("url", url)
	}
	if decoded.Data == nil || strings.TrimSpace(decoded.Data.Interpretation) == "" {
		return dream.Result{}, service.NewError(service.ErrEmptyResponse, "response has no interpretation")
	}

	result := *decoded.Data
	if result.Source == "" {
		result.Source = dream.SourceRemote
	}
	return result, nil
}
