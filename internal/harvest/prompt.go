package harvest

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/nepcollege/internal/model"
)

//go:embed prompts/harvest.md
var harvestPromptRaw string

// HarvestTemplate is the parsed prompt template for college searches.
var HarvestTemplate = template.Must(template.New("harvest").Parse(harvestPromptRaw))

// BuildPrompt renders the instruction for criteria. Values are embedded
// verbatim; the faculty clause is omitted when faculty is blank.
func BuildPrompt(tmpl *template.Template, criteria model.SearchCriteria) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, model.SearchCriteria{
		Province:   strings.TrimSpace(criteria.Province),
		University: strings.TrimSpace(criteria.University),
		Faculty:    strings.TrimSpace(criteria.Faculty),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
