package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockHTTPClient replays queued responses and records requests.
type MockHTTPClient struct {
	mu              sync.Mutex
	responses       []MockResponse
	requests        []*http.Request
	requestBodies   [][]byte
	defaultResponse *MockResponse
}

// MockResponse defines a mock HTTP response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Error      error
	// Matcher optionally restricts which requests this response answers.
	Matcher func(*http.Request) bool
}

// NewMockHTTPClient creates a new mock HTTP client.
func NewMockHTTPClient(responses ...MockResponse) *MockHTTPClient {
	return &MockHTTPClient{responses: responses}
}

// AddResponse adds a mock response to the queue.
func (m *MockHTTPClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// SetDefaultResponse sets the response used once the queue is empty.
func (m *MockHTTPClient) SetDefaultResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = &resp
}

// Do implements gateway.HTTPDoer.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.requestBodies = append(m.requestBodies, body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	} else {
		m.requestBodies = append(m.requestBodies, nil)
	}

	resp := m.next(req)
	if resp == nil {
		return nil, &MockError{Message: "no mock response configured"}
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	httpResp := &http.Response{
		StatusCode: resp.StatusCode,
		Body:       io.NopCloser(strings.NewReader(resp.Body)),
		Header:     make(http.Header),
		Request:    req,
	}
	for k, v := range resp.Headers {
		httpResp.Header.Set(k, v)
	}
	return httpResp, nil
}

func (m *MockHTTPClient) next(req *http.Request) *MockResponse {
	for i, r := range m.responses {
		if r.Matcher == nil || r.Matcher(req) {
			m.responses = append(m.responses[:i], m.responses[i+1:]...)
			return &r
		}
	}
	return m.defaultResponse
}

// Calls returns the number of requests seen.
func (m *MockHTTPClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns all captured requests.
func (m *MockHTTPClient) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

// LastRequest returns the last captured request.
func (m *MockHTTPClient) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// LastRequestBody returns the last captured request body.
func (m *MockHTTPClient) LastRequestBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requestBodies) == 0 {
		return nil
	}
	return m.requestBodies[len(m.requestBodies)-1]
}

// MockError represents a mock transport error.
type MockError struct {
	Message string
}

func (e *MockError) Error() string {
	return e.Message
}

// RecordedRequest is a request captured by a ProviderServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// ProviderServer is an httptest server that replays queued responses, for
// clients that cannot take an injected HTTPDoer.
type ProviderServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses []MockResponse
	requests  []RecordedRequest
}

// NewProviderServer starts a server answering with responses in order and
// with a 500 once they run out. It is closed on test cleanup.
func NewProviderServer(t *testing.T, responses ...MockResponse) *ProviderServer {
	t.Helper()
	s := &ProviderServer{responses: responses}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ProviderServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	var resp MockResponse
	if len(s.responses) > 0 {
		resp = s.responses[0]
		s.responses = s.responses[1:]
	} else {
		resp = MockErrorResponse(http.StatusInternalServerError, "no mock response configured")
	}
	s.mu.Unlock()

	if resp.Error != nil {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
				return
			}
		}
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

// Calls returns the number of requests served.
func (s *ProviderServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the recorded requests.
func (s *ProviderServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func jsonResponse(status int, v any) MockResponse {
	body, _ := json.Marshal(v)
	return MockResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// MockOpenAIResponse creates a chat completion response.
func MockOpenAIResponse(content string) MockResponse {
	return jsonResponse(http.StatusOK, map[string]any{
		"id":      "chatcmpl-test123",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	})
}

// MockGeminiResponse creates a generateContent response.
func MockGeminiResponse(text string) MockResponse {
	return jsonResponse(http.StatusOK, map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
		"modelVersion": "gemini-2.5-flash",
	})
}

// MockGeminiBlocked creates a response whose prompt was blocked.
func MockGeminiBlocked() MockResponse {
	return jsonResponse(http.StatusOK, map[string]any{
		"promptFeedback": map[string]string{"blockReason": "SAFETY"},
	})
}

// MockWhisperResponse creates an audio transcription response.
func MockWhisperResponse(text string) MockResponse {
	return jsonResponse(http.StatusOK, map[string]string{"text": text})
}

// MockErrorResponse creates an API error response.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return jsonResponse(statusCode, map[string]any{
		"error": map[string]any{
			"code":    statusCode,
			"message": message,
			"type":    "error",
		},
	})
}

// MockConnectionError creates a transport failure.
func MockConnectionError() MockResponse {
	return MockResponse{
		Error: &MockError{Message: "dial tcp 127.0.0.1:443: connect: connection refused"},
	}
}

// MockMalformedJSON creates a 200 response with an invalid JSON body.
func MockMalformedJSON() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"invalid json`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
