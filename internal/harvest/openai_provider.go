package harvest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// Ensure OpenAIProvider implements LLMProvider.
var _ LLMProvider = (*OpenAIProvider)(nil)

// OpenAIProvider calls the OpenAI Responses API with the web search tool.
// Structured output is not requested because json_schema formats must have an
// object at the root; the prompt carries the array shape instead.
type OpenAIProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider for OpenAI or any compatible endpoint.
func NewOpenAIProvider(baseURL string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{baseURL: baseURL, httpClient: httpClient}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Generate sends one request with SDK retries disabled and returns the raw
// response JSON.
func (p *OpenAIProvider) Generate(ctx context.Context, apiKey string, req Request) ([]byte, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(p.httpClient))
	}
	client := openai.NewClient(opts...)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
		Temperature: openai.Float(float64(req.Temperature)),
		Tools: []responses.ToolUnionParam{
			responses.ToolParamOfWebSearchPreview(responses.WebSearchPreviewToolTypeWebSearchPreview),
		},
	}

	resp, err := client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses: %w", err)
	}
	return []byte(resp.RawJSON()), nil
}
