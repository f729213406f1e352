package harvest

import (
	"strings"

	"github.com/tidwall/gjson"
)

// textShape is one known location of generated text in a response body.
// Shapes are tried in order; the first that yields non-blank text wins.
type textShape struct {
	name    string
	extract func(resp gjson.Result) string
}

var textShapes = []textShape{
	{"text", topLevelText},
	{"output_text", topLevelOutputText},
	{"candidate_parts", candidateParts},
	{"candidate", func(resp gjson.Result) string { return messageText(resp.Get("candidates.0")) }},
	{"outputs", func(resp gjson.Result) string { return messageText(resp.Get("outputs.0")) }},
	{"output_messages", outputMessages},
}

// extractText returns the generated text and the name of the shape it came
// from. Both are empty when no known shape carries text.
func extractText(body []byte) (text, shape string) {
	if !gjson.ValidBytes(body) {
		return "", ""
	}
	resp := gjson.ParseBytes(body)
	for _, s := range textShapes {
		if t := strings.TrimSpace(s.extract(resp)); t != "" {
			return t, s.name
		}
	}
	return "", ""
}

func topLevelText(resp gjson.Result) string {
	return stringValue(resp.Get("text"))
}

func topLevelOutputText(resp gjson.Result) string {
	if t := stringValue(resp.Get("outputText")); strings.TrimSpace(t) != "" {
		return t
	}
	return stringValue(resp.Get("output_text"))
}

// candidateParts reads the Gemini shape candidates[0].content.parts[].text.
func candidateParts(resp gjson.Result) string {
	return joinParts(resp.Get("candidates.0.content.parts"))
}

// messageText handles the looser candidate layouts: content as an array of
// parts or a plain string, a nested message.content, or a bare text field.
func messageText(candidate gjson.Result) string {
	if !candidate.Exists() {
		return ""
	}
	content := candidate.Get("content")
	if !content.Exists() {
		content = candidate.Get("message.content")
	}
	switch {
	case content.IsArray():
		if t := joinParts(content); t != "" {
			return t
		}
	case content.Type == gjson.String:
		if t := strings.TrimSpace(content.String()); t != "" {
			return t
		}
	case content.IsObject():
		if t := joinParts(content.Get("parts")); t != "" {
			return t
		}
	}
	return stringValue(candidate.Get("text"))
}

// outputMessages reads the OpenAI Responses shape output[].content[].text.
// Separate output items are separate messages and are joined by newlines.
func outputMessages(resp gjson.Result) string {
	var texts []string
	resp.Get("output").ForEach(func(_, item gjson.Result) bool {
		if t := joinParts(item.Get("content")); t != "" {
			texts = append(texts, t)
		}
		return true
	})
	return strings.Join(texts, "\n")
}

// joinParts concatenates the text of each part of one message with no
// separator, accepting both {"text": "..."} objects and bare strings. A single
// answer may be split mid-token across parts.
func joinParts(parts gjson.Result) string {
	if !parts.IsArray() {
		return ""
	}
	var b strings.Builder
	parts.ForEach(func(_, p gjson.Result) bool {
		if p.Type == gjson.String {
			b.WriteString(p.String())
		} else {
			b.WriteString(stringValue(p.Get("text")))
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

func stringValue(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.String()
}
