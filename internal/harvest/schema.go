package harvest

import "google.golang.org/genai"

// MaxEmails is the number of emails kept per college.
const MaxEmails = 2

// collegeListSchema describes the expected model output: an array of colleges
// with a required non-empty name and at most two emails.
var collegeListSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "The college's full official name.",
				"minLength":   1,
			},
			"emails": map[string]any{
				"type":        "array",
				"description": "Up to two official contact email addresses.",
				"items":       map[string]any{"type": "string"},
				"maxItems":    MaxEmails,
			},
		},
		"required": []string{"name", "emails"},
	},
}

// geminiSchema is collegeListSchema in the genai SDK's typed form.
func geminiSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The college's full official name.",
					MinLength:   genai.Ptr[int64](1),
				},
				"emails": {
					Type:        genai.TypeArray,
					Description: "Up to two official contact email addresses.",
					Items:       &genai.Schema{Type: genai.TypeString},
					MaxItems:    genai.Ptr[int64](MaxEmails),
				},
			},
			Required:         []string{"name", "emails"},
			PropertyOrdering: []string{"name", "emails"},
		},
	}
}
