package harvest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amishk599/nepcollege/internal/model"
)

// mockProvider is a stub LLMProvider for testing.
type mockProvider struct {
	body    string
	err     error
	calls   int
	lastReq Request
	lastKey string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(_ context.Context, apiKey string, req Request) ([]byte, error) {
	m.calls++
	m.lastKey = apiKey
	m.lastReq = req
	return []byte(m.body), m.err
}

var bagmatiTU = model.SearchCriteria{Province: "Bagmati", University: "Tribhuvan University"}

func TestHarvest_EmptyAPIKeyIsConfigurationError(t *testing.T) {
	p := &mockProvider{}
	c := NewClient(p, Options{Model: "m"}, nil)

	_, err := c.Harvest(context.Background(), bagmatiTU, "   ")
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times, want 0", p.calls)
	}
}

func TestHarvest_SendsPromptSchemaAndTemperature(t *testing.T) {
	p := &mockProvider{body: `{"text":"[]"}`}
	c := NewClient(p, Options{Model: "gemini-2.5-flash", StructuredOutput: true}, nil)

	if _, err := c.Harvest(context.Background(), bagmatiTU, " key-1 "); err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d, want 1", p.calls)
	}
	if p.lastKey != "key-1" {
		t.Errorf("apiKey = %q, want trimmed key", p.lastKey)
	}
	if p.lastReq.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", p.lastReq.Model)
	}
	if p.lastReq.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", p.lastReq.Temperature, DefaultTemperature)
	}
	if !p.lastReq.StructuredOutput || p.lastReq.Schema["type"] != "array" {
		t.Errorf("schema not forwarded: %+v", p.lastReq.Schema)
	}
	if !strings.Contains(p.lastReq.Prompt, "Tribhuvan University") {
		t.Error("prompt does not mention the university")
	}
}

func TestHarvest_Success(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"[{\"name\":\"St. Xavier's\",\"emails\":[\"a@x.edu\",\"a@x.edu\",\"b@x.edu\"]},{\"name\":\"\",\"emails\":[]}]"}]},
		"groundingMetadata":{"groundingChunks":[{"web":{"uri":"https://sxc.edu.np","title":"sxc"}}]}}]}`
	c := NewClient(&mockProvider{body: body}, Options{}, nil)

	res, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(res.Colleges) != 1 {
		t.Fatalf("colleges = %+v", res.Colleges)
	}
	if got := res.Colleges[0].Emails; len(got) != 2 || got[0] != "a@x.edu" || got[1] != "b@x.edu" {
		t.Errorf("emails = %v", got)
	}
	if len(res.Sources) != 1 || res.Sources[0].URI != "https://sxc.edu.np" {
		t.Errorf("sources = %+v", res.Sources)
	}
}

func TestHarvest_UnparseableTextIsParseError(t *testing.T) {
	c := NewClient(&mockProvider{body: `{"text":"not json","groundingChunks":[{"web":{"uri":"https://x"}}]}`}, Options{}, nil)

	res, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if !errors.Is(err, model.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if res.Colleges != nil || res.Sources != nil {
		t.Errorf("expected zero result on failure, got %+v", res)
	}
	if model.UserMessage(err) != model.MsgUpstreamFailure {
		t.Errorf("UserMessage = %q", model.UserMessage(err))
	}
}

func TestHarvest_ArrayInProse(t *testing.T) {
	c := NewClient(&mockProvider{body: `{"text":"Sure! [{\"name\":\"A\",\"emails\":[\"a@a.np\"]}] Hope this helps."}`}, Options{}, nil)

	res, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(res.Colleges) != 1 || res.Colleges[0].Name != "A" {
		t.Errorf("colleges = %+v", res.Colleges)
	}
}

func TestHarvest_StructuredFallbackWhenTextIsObject(t *testing.T) {
	body := `{"text":"{\"note\":\"see structured\"}","candidates":[{"structuredOutput":[{"name":"S","emails":["s@s.np"]}]}]}`
	c := NewClient(&mockProvider{body: body}, Options{}, nil)

	res, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(res.Colleges) != 1 || res.Colleges[0].Name != "S" {
		t.Errorf("colleges = %+v", res.Colleges)
	}
}

func TestHarvest_ObjectWithoutFallbackIsParseError(t *testing.T) {
	c := NewClient(&mockProvider{body: `{"text":"{\"colleges\":[]}"}`}, Options{}, nil)

	_, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if !errors.Is(err, model.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestHarvest_EmptyTextReturnsEmptyResult(t *testing.T) {
	c := NewClient(&mockProvider{body: `{"candidates":[{"finishReason":"STOP"}]}`}, Options{}, nil)

	res, err := c.Harvest(context.Background(), bagmatiTU, "k")
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if res.Colleges == nil || len(res.Colleges) != 0 {
		t.Errorf("colleges = %#v, want empty slice", res.Colleges)
	}
}

func TestHarvest_ProviderErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"invalid key", &model.HTTPError{StatusCode: 400, Err: errors.New("API key not valid. Please pass a valid API key.")}, model.MsgInvalidAPIKey},
		{"invalid key reason", errors.New("Error 400, Status: INVALID_ARGUMENT, Details: reason API_KEY_INVALID"), model.MsgInvalidAPIKey},
		{"network", errors.New("dial tcp: lookup generativelanguage.googleapis.com: no such host"), model.MsgUpstreamFailure},
		{"server", &model.HTTPError{StatusCode: 503, Err: errors.New("overloaded")}, model.MsgUpstreamFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{err: tt.err}
			c := NewClient(p, Options{}, nil)

			_, err := c.Harvest(context.Background(), bagmatiTU, "k")
			if !errors.Is(err, model.ErrUpstream) {
				t.Fatalf("err = %v, want ErrUpstream", err)
			}
			if got := model.UserMessage(err); got != tt.wantMsg {
				t.Errorf("UserMessage = %q, want %q", got, tt.wantMsg)
			}
			if p.calls != 1 {
				t.Errorf("calls = %d, want exactly one attempt", p.calls)
			}
		})
	}
}
