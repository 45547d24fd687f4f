// Package client is the HTTP client the CLI uses to call the gateway.
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

	"github.com/careerclimb/careerclimb/pkg/httputil"
	"github.com/careerclimb/careerclimb/services/career"
	"github.com/careerclimb/careerclimb/services/gateway"
	"github.com/careerclimb/careerclimb/services/history"
)

// APIError is a non-2xx gateway response.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client calls the gateway HTTP API.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// New creates a client for the gateway at baseURL. userID is sent as the
// caller identity when set.
func New(baseURL, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(gateway.UserIDHeader, c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body httputil.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Completion is the /v1/complete answer.
type Completion struct {
	Response     string `json:"response" yaml:"response"`
	Provider     string `json:"provider" yaml:"provider"`
	ProviderRole string `json:"providerRole" yaml:"provider_role"`
}

// Complete runs a raw task completion.
func (c *Client) Complete(ctx context.Context, task, prompt string) (*Completion, error) {
	var out Completion
	err := c.call(ctx, http.MethodPost, "/v1/complete", map[string]string{"type": task, "prompt": prompt}, &out)
	return &out, err
}

// TaskInfo describes one supported task type.
type TaskInfo struct {
	Type      string `json:"type" yaml:"type"`
	MaxTokens int    `json:"maxTokens" yaml:"max_tokens"`
	JSON      bool   `json:"json" yaml:"json"`
}

// Tasks lists the supported task types.
func (c *Client) Tasks(ctx context.Context) ([]TaskInfo, error) {
	var out struct {
		Tasks []TaskInfo `json:"tasks"`
	}
	err := c.call(ctx, http.MethodGet, "/v1/tasks", nil, &out)
	return out.Tasks, err
}

// AnalyzeResume scores a resume against a job description.
func (c *Client) AnalyzeResume(ctx context.Context, in career.ResumeInput) (*career.ResumeReport, error) {
	var out career.ResumeReport
	err := c.call(ctx, http.MethodPost, "/v1/resume/analyze", in, &out)
	return &out, err
}

// GenerateInterviewQuestions drafts questions for a job.
func (c *Client) GenerateInterviewQuestions(ctx context.Context, in career.QuestionsInput) (*career.QuestionList, error) {
	var out career.QuestionList
	err := c.call(ctx, http.MethodPost, "/v1/interview/questions", in, &out)
	return &out, err
}

// OptimizeProfile runs one LinkedIn optimization.
func (c *Client) OptimizeProfile(ctx context.Context, req career.ProfileRequest) (*career.ProfileResult, error) {
	var out career.ProfileResult
	err := c.call(ctx, http.MethodPost, "/v1/linkedin/optimize", req, &out)
	return &out, err
}

// ListHistory returns the caller's newest history items.
func (c *Client) ListHistory(ctx context.Context, limit int) ([]*history.Item, error) {
	path := "/v1/history"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out struct {
		Items []*history.Item `json:"items"`
	}
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out.Items, err
}

// ExportHistory copies the history export document to w.
func (c *Client) ExportHistory(ctx context.Context, w io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, "/v1/history/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// DeleteHistoryItem removes one history item.
func (c *Client) DeleteHistoryItem(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/v1/history/"+url.PathEscape(id), nil, nil)
}

// ClearHistory removes every history item of the caller.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/v1/history", nil, nil)
}
