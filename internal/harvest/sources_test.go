package harvest

import (
	"reflect"
	"testing"

	"github.com/amishk599/nepcollege/internal/model"
)

func TestExtractSources_GeminiGrounding(t *testing.T) {
	body := []byte(`{"candidates":[{"groundingMetadata":{"groundingChunks":[
		{"web":{"uri":"https://a.edu.np","title":"A"}},
		{"web":{"uri":"https://b.edu.np"}},
		{"web":{"uri":"https://a.edu.np","title":"A again"}},
		{"web":{"title":"no uri"}}
	]}}]}`)
	got := extractSources(body)
	want := []model.Source{
		{URI: "https://a.edu.np", Title: "A"},
		{URI: "https://b.edu.np"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExtractSources_FallbackLocations(t *testing.T) {
	bodies := []string{
		`{"candidates":[{"grounding":{"groundingChunks":[{"web":{"uri":"https://x"}}]}}]}`,
		`{"groundingMetadata":{"groundingChunks":[{"web":{"uri":"https://x"}}]}}`,
		`{"groundingChunks":[{"uri":"https://x"}]}`,
	}
	for _, b := range bodies {
		got := extractSources([]byte(b))
		if len(got) != 1 || got[0].URI != "https://x" {
			t.Errorf("%s: got %+v", b, got)
		}
	}
}

func TestExtractSources_EmptyFirstLocationFallsThrough(t *testing.T) {
	body := []byte(`{"candidates":[{"groundingMetadata":{"groundingChunks":[]}}],"groundingChunks":[{"web":{"uri":"https://y"}}]}`)
	got := extractSources(body)
	if len(got) != 1 || got[0].URI != "https://y" {
		t.Errorf("got %+v", got)
	}
}

func TestExtractSources_OpenAIAnnotations(t *testing.T) {
	body := []byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"[]","annotations":[
		{"type":"url_citation","url":"https://c.edu.np","title":"C"},
		{"type":"file_citation","file_id":"f1"}
	]}]}]}`)
	got := extractSources(body)
	want := []model.Source{{URI: "https://c.edu.np", Title: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExtractSources_DefaultsToEmpty(t *testing.T) {
	for _, b := range []string{`{}`, `garbage`} {
		got := extractSources([]byte(b))
		if got == nil || len(got) != 0 {
			t.Errorf("%s: got %#v, want empty slice", b, got)
		}
	}
}
