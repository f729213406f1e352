package harvest

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/amishk599/nepcollege/internal/model"
)

var errNotArray = errors.New("model output is not a JSON array")

// structuredShapes are locations where an SDK may place already-decoded
// structured output, tried when the text does not hold an array.
var structuredShapes = []string{
	"candidates.0.structuredOutput",
	"candidates.0.json",
	"outputs.0.structuredOutput",
}

// parseArray parses text as JSON, falling back to the substring between the
// first '[' and the last ']' when the whole text is not valid JSON.
func parseArray(text string) (gjson.Result, error) {
	text = strings.TrimSpace(text)
	if gjson.Valid(text) {
		v := gjson.Parse(text)
		if !v.IsArray() {
			return v, errNotArray
		}
		return v, nil
	}

	first := strings.IndexByte(text, '[')
	last := strings.LastIndexByte(text, ']')
	if first == -1 || last <= first {
		return gjson.Result{}, errors.New("no JSON array found in model output")
	}
	sub := text[first : last+1]
	if !gjson.Valid(sub) {
		return gjson.Result{}, errors.New("bracketed model output is not valid JSON")
	}
	return gjson.Parse(sub), nil
}

// structuredArray returns the first structured-output array in the response.
func structuredArray(body []byte) (gjson.Result, bool) {
	for _, path := range structuredShapes {
		if v := gjson.GetBytes(body, path); v.IsArray() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// sanitizeColleges coerces an untrusted array into colleges. Elements whose
// name is not a non-blank string are dropped.
func sanitizeColleges(items gjson.Result) []model.College {
	colleges := []model.College{}
	items.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name")
		if name.Type != gjson.String {
			return true
		}
		trimmed := strings.TrimSpace(name.String())
		if trimmed == "" {
			return true
		}
		colleges = append(colleges, model.College{
			Name:   trimmed,
			Emails: sanitizeEmails(item.Get("emails")),
		})
		return true
	})
	return colleges
}

// sanitizeEmails keeps string entries only, trims them, drops empties and
// duplicates in first-seen order, and truncates to MaxEmails.
func sanitizeEmails(v gjson.Result) []string {
	emails := []string{}
	if !v.IsArray() {
		return emails
	}
	seen := make(map[string]bool)
	v.ForEach(func(_, e gjson.Result) bool {
		if e.Type != gjson.String {
			return true
		}
		s := strings.TrimSpace(e.String())
		if s == "" || seen[s] {
			return true
		}
		seen[s] = true
		emails = append(emails, s)
		return len(emails) < MaxEmails
	})
	return emails
}
