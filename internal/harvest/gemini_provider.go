package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Ensure GeminiProvider implements LLMProvider.
var _ LLMProvider = (*GeminiProvider)(nil)

// GeminiProvider calls Gemini through the genai SDK. A client is created per
// call because the API key is supplied per harvest.
type GeminiProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeminiProvider returns a provider using the SDK's default endpoint, or
// baseURL when it is set (for proxies).
func NewGeminiProvider(baseURL string, httpClient *http.Client) *GeminiProvider {
	return &GeminiProvider{baseURL: baseURL, httpClient: httpClient}
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Generate runs a single GenerateContent call with Google Search grounding and
// returns the response re-encoded as JSON.
func (g *GeminiProvider) Generate(ctx context.Context, apiKey string, req Request) ([]byte, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if req.StructuredOutput {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = geminiSchema()
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode gemini response: %w", err)
	}
	return body, nil
}
