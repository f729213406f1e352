package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/nepcollege/internal/model"
)

// DefaultTemperature keeps the model close to deterministic.
const DefaultTemperature = 0.1

// Ensure Client implements model.Harvester.
var _ model.Harvester = (*Client)(nil)

// Client builds the prompt, calls the provider once, and turns whatever comes
// back into sanitized colleges and sources.
type Client struct {
	provider         LLMProvider
	tmpl             *template.Template
	model            string
	temperature      float32
	structuredOutput bool
	logger           *slog.Logger
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	Model            string
	Temperature      float32
	StructuredOutput bool
	Template         *template.Template
}

// NewClient returns a harvest client backed by provider.
func NewClient(provider LLMProvider, opts Options, logger *slog.Logger) *Client {
	tmpl := opts.Template
	if tmpl == nil {
		tmpl = HarvestTemplate
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	temp := opts.Temperature
	if temp <= 0 {
		temp = DefaultTemperature
	}
	return &Client{
		provider:         provider,
		tmpl:             tmpl,
		model:            opts.Model,
		temperature:      temp,
		structuredOutput: opts.StructuredOutput,
		logger:           logger,
	}
}

// Harvest asks the model for colleges matching criteria. It makes exactly one
// network attempt. Errors are *model.HarvestError values whose Kind is
// ErrConfiguration, ErrUpstream or ErrParse.
func (c *Client) Harvest(ctx context.Context, criteria model.SearchCriteria, apiKey string) (model.HarvestResult, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return model.HarvestResult{}, &model.HarvestError{Kind: model.ErrConfiguration, Message: model.MsgMissingAPIKey}
	}

	prompt, err := BuildPrompt(c.tmpl, criteria)
	if err != nil {
		return model.HarvestResult{}, &model.HarvestError{Kind: model.ErrConfiguration, Message: model.MsgUpstreamFailure, Err: err}
	}

	logger := c.logger.With(
		"harvest_id", uuid.NewString(),
		"provider", c.provider.Name(),
		"model", c.model,
	)
	start := time.Now()
	logger.Info("harvest started",
		"province", criteria.Province,
		"university", criteria.University,
		"faculty", criteria.Faculty,
	)

	body, err := c.provider.Generate(ctx, apiKey, Request{
		Model:            c.model,
		Prompt:           prompt,
		Temperature:      c.temperature,
		Schema:           collegeListSchema,
		StructuredOutput: c.structuredOutput,
	})
	if err != nil {
		logger.Error("harvest request failed", "error", err, "duration", time.Since(start))
		return model.HarvestResult{}, model.UpstreamFailure(err)
	}

	result, shape, err := decodeResponse(body)
	if err != nil {
		logger.Error("harvest response unusable", "error", err, "duration", time.Since(start))
		return model.HarvestResult{}, err
	}

	logger.Info("harvest complete",
		"shape", shape,
		"colleges", len(result.Colleges),
		"sources", len(result.Sources),
		"duration", time.Since(start),
	)
	return result, nil
}

// decodeResponse runs extraction, parsing and sanitization over a raw response
// body. shape names the text location used, or "structured" / "empty".
func decodeResponse(body []byte) (model.HarvestResult, string, error) {
	sources := extractSources(body)

	text, shape := extractText(body)
	if text == "" {
		if arr, ok := structuredArray(body); ok {
			return model.HarvestResult{Colleges: sanitizeColleges(arr), Sources: sources}, "structured", nil
		}
		return model.HarvestResult{Colleges: []model.College{}, Sources: sources}, "empty", nil
	}

	arr, err := parseArray(text)
	if err != nil {
		structured, ok := structuredArray(body)
		if !ok {
			return model.HarvestResult{}, shape, parseFailure(err)
		}
		arr, shape = structured, "structured"
	}

	return model.HarvestResult{Colleges: sanitizeColleges(arr), Sources: sources}, shape, nil
}

func parseFailure(err error) *model.HarvestError {
	if errors.Is(err, errNotArray) {
		err = fmt.Errorf("unexpected data format: %w", err)
	}
	return &model.HarvestError{Kind: model.ErrParse, Message: model.MsgUpstreamFailure, Err: err}
}
