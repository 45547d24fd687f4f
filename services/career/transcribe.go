package career

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/careerclimb/careerclimb/services/gateway"
)

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

const (
	whisperBaseURL = "https://api.openai.com/v1"
	whisperModel   = "whisper-1"
)

// WhisperTranscriber calls the OpenAI audio transcription API.
type WhisperTranscriber struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient gateway.HTTPDoer
}

// NewWhisperTranscriber creates a transcriber. An empty endpoint uses the
// public OpenAI API.
func NewWhisperTranscriber(endpoint, apiKey string, httpClient gateway.HTTPDoer) *WhisperTranscriber {
	if endpoint == "" {
		endpoint = whisperBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &WhisperTranscriber{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		apiKey:     apiKey,
		model:      whisperModel,
		httpClient: httpClient,
	}
}

// Transcribe uploads audio as a webm file and returns the recognized text.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("whisper: %w", gateway.ErrMissingCredential)
	}
	if filename == "" {
		filename = "audio.webm"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "audio/webm")
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := mw.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: whisper request: %w", gateway.ErrProviderCallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read whisper response: %w", gateway.ErrProviderCallFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: Whisper API error: %d - %s", gateway.ErrProviderCallFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: invalid whisper response: %w", gateway.ErrBadProviderResponse, err)
	}
	return out.Text, nil
}
