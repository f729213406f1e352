package harvest

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amishk599/nepcollege/internal/model"
)

// groundingShapes are the known locations of Gemini grounding chunks, in the
// order they are checked.
var groundingShapes = []string{
	"candidates.0.groundingMetadata.groundingChunks",
	"candidates.0.grounding.groundingChunks",
	"groundingMetadata.groundingChunks",
	"groundingChunks",
}

// extractSources returns the citations from the first populated location.
// Sources without a URI are dropped and duplicate URIs keep the first entry.
func extractSources(body []byte) []model.Source {
	if !gjson.ValidBytes(body) {
		return []model.Source{}
	}
	resp := gjson.ParseBytes(body)

	for _, path := range groundingShapes {
		chunks := resp.Get(path)
		if !chunks.IsArray() || len(chunks.Array()) == 0 {
			continue
		}
		var raw []model.Source
		chunks.ForEach(func(_, c gjson.Result) bool {
			web := c.Get("web")
			if !web.Exists() {
				web = c
			}
			raw = append(raw, model.Source{
				URI:   stringValue(web.Get("uri")),
				Title: stringValue(web.Get("title")),
			})
			return true
		})
		return dedupeSources(raw)
	}

	var raw []model.Source
	resp.Get("output").ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, part gjson.Result) bool {
			part.Get("annotations").ForEach(func(_, a gjson.Result) bool {
				if a.Get("type").String() == "url_citation" {
					raw = append(raw, model.Source{
						URI:   stringValue(a.Get("url")),
						Title: stringValue(a.Get("title")),
					})
				}
				return true
			})
			return true
		})
		return true
	})
	return dedupeSources(raw)
}

func dedupeSources(raw []model.Source) []model.Source {
	out := []model.Source{}
	seen := make(map[string]bool)
	for _, s := range raw {
		s.URI = strings.TrimSpace(s.URI)
		s.Title = strings.TrimSpace(s.Title)
		if s.URI == "" || seen[s.URI] {
			continue
		}
		seen[s.URI] = true
		out = append(out, s)
	}
	return out
}
