package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/nepcollege/internal/model"
)

// Ensure SlackNotifier implements Notifier.
var _ Notifier = (*SlackNotifier)(nil)

// maxListedFailures caps the failure lines in one message.
const maxListedFailures = 10

// SlackNotifier posts batch reports to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts to webhookURL.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the report as one Block Kit message. Empty reports are not
// sent.
func (s *SlackNotifier) Notify(ctx context.Context, r Report) error {
	if len(r.Outcomes) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(r))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("slack returned %d", resp.StatusCode)}
	}
	s.logger.Info("slack batch report sent", "combinations", len(r.Outcomes))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func describe(c model.SearchCriteria) string {
	s := c.University + ", " + c.Province
	if c.Faculty != "" {
		s += " (" + c.Faculty + ")"
	}
	return s
}

func buildPayload(r Report) slackPayload {
	title := "🎓 College harvest finished"
	if r.Succeeded() == 0 {
		title = "⚠️ College harvest failed"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Combinations:*\n%d", len(r.Outcomes))},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Colleges found:*\n%d", r.Colleges())},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Succeeded:*\n%d", r.Succeeded())},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Failed:*\n%d", r.Failed())},
			},
		},
	}

	var failures []string
	for _, o := range r.Outcomes {
		if o.Err == nil {
			continue
		}
		if len(failures) == maxListedFailures {
			failures = append(failures, fmt.Sprintf("…and %d more", r.Failed()-maxListedFailures))
			break
		}
		failures = append(failures, "• "+describe(o.Criteria)+": "+model.UserMessage(o.Err))
	}
	if len(failures) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Failures*\n" + strings.Join(failures, "\n")},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "context",
			Elements: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("Started %s, took %s",
					r.Started.Format(time.RFC1123), r.Duration.Round(time.Second))},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
