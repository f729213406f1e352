package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/nepcollege/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func TestRESTGenerate_ReturnsRawBody(t *testing.T) {
	body := map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": "[]"}}}},
		},
	}
	srv, client := makeTestServer(t, http.StatusOK, body)

	p := NewGeminiRESTProvider(srv.URL, client)
	got, err := p.Generate(context.Background(), "k", Request{Model: "gemini-2.5-flash", Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text, shape := extractText(got); text != "[]" || shape != "candidate_parts" {
		t.Errorf("extractText = %q, %q", text, shape)
	}
}

func TestRESTGenerate_HTTPErrorCarriesMessage(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"},
	})

	p := NewGeminiRESTProvider(srv.URL, client)
	_, err := p.Generate(context.Background(), "bad", Request{Model: "m", Prompt: "hi"})

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *model.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if model.UpstreamFailure(err).Message != model.MsgInvalidAPIKey {
		t.Errorf("invalid key not recognised in %v", err)
	}
}

func TestRESTGenerate_SendsGroundedRequest(t *testing.T) {
	var gotReq generateRequest
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"[]"}`))
	}))
	defer srv.Close()

	p := NewGeminiRESTProvider(srv.URL+"/", srv.Client())
	_, err := p.Generate(context.Background(), "secret", Request{
		Model:            "gemini-2.5-flash",
		Prompt:           "find colleges",
		Temperature:      0.1,
		Schema:           collegeListSchema,
		StructuredOutput: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("x-goog-api-key = %q", gotKey)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotReq.Tools) != 1 || gotReq.Tools[0].GoogleSearch == nil {
		t.Errorf("tools = %+v, want googleSearch", gotReq.Tools)
	}
	if gotReq.GenerationConfig.Temperature != 0.1 {
		t.Errorf("temperature = %v", gotReq.GenerationConfig.Temperature)
	}
	if gotReq.GenerationConfig.ResponseMIMEType != "application/json" || gotReq.GenerationConfig.ResponseSchema["type"] != "array" {
		t.Errorf("generationConfig = %+v", gotReq.GenerationConfig)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "find colleges" {
		t.Errorf("contents = %+v", gotReq.Contents)
	}
}

func TestRESTGenerate_OmitsSchemaWithoutStructuredOutput(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewGeminiRESTProvider(srv.URL, srv.Client())
	if _, err := p.Generate(context.Background(), "k", Request{Model: "m", Schema: collegeListSchema}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	gc, _ := raw["generationConfig"].(map[string]any)
	if _, ok := gc["responseSchema"]; ok {
		t.Error("responseSchema sent without structured output")
	}
}
