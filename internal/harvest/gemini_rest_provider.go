package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amishk599/nepcollege/internal/model"
)

// DefaultGeminiBaseURL is the public Generative Language API root.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Ensure GeminiRESTProvider implements LLMProvider.
var _ LLMProvider = (*GeminiRESTProvider)(nil)

// GeminiRESTProvider calls the generateContent REST endpoint directly and
// returns the body untouched.
type GeminiRESTProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeminiRESTProvider creates a provider targeting baseURL, which should
// include the API version (e.g. .../v1beta).
func NewGeminiRESTProvider(baseURL string, httpClient *http.Client) *GeminiRESTProvider {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &GeminiRESTProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (p *GeminiRESTProvider) Name() string { return "gemini-rest" }

// generateRequest mirrors the generateContent request body.
type generateRequest struct {
	Contents         []restContent    `json:"contents"`
	Tools            []restTool       `json:"tools"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type restContent struct {
	Role  string     `json:"role"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text string `json:"text"`
}

type restTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generationConfig struct {
	Temperature      float32        `json:"temperature"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

// Generate posts the prompt with search grounding enabled.
func (p *GeminiRESTProvider) Generate(ctx context.Context, apiKey string, req Request) ([]byte, error) {
	reqBody := generateRequest{
		Contents: []restContent{
			{Role: "user", Parts: []restPart{{Text: req.Prompt}}},
		},
		Tools: []restTool{{GoogleSearch: &struct{}{}}},
		GenerationConfig: generationConfig{
			Temperature: req.Temperature,
		},
	}
	if req.StructuredOutput {
		reqBody.GenerationConfig.ResponseMIMEType = "application/json"
		reqBody.GenerationConfig.ResponseSchema = req.Schema
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(req.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBytes, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(respBytes))
		}
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	return respBytes, nil
}
