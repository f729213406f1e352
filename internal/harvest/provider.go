package harvest

import "context"

// Request is everything a transport needs to ask the model for colleges.
type Request struct {
	Model       string
	Prompt      string
	Temperature float32
	// Schema is the JSON Schema of the expected output. Transports that support
	// structured output send it only when StructuredOutput is set, because some
	// models reject a response schema combined with search grounding.
	Schema           map[string]any
	StructuredOutput bool
}

// LLMProvider sends one grounded generation request and returns the raw JSON
// body of the response. The body is probed by the extractor, so transports do
// not need to agree on a response shape.
type LLMProvider interface {
	Name() string
	Generate(ctx context.Context, apiKey string, req Request) ([]byte, error)
}
