package notifier

import (
	"context"
	"log/slog"
	"time"
)

var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes the batch report to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per failed combination and a closing summary.
// Returns nil (logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, r Report) error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n.logger.Warn("combination failed",
				"province", o.Criteria.Province,
				"university", o.Criteria.University,
				"error", o.Err,
			)
		}
	}
	n.logger.Info("batch complete",
		"combinations", len(r.Outcomes),
		"succeeded", r.Succeeded(),
		"failed", r.Failed(),
		"colleges", r.Colleges(),
		"duration", r.Duration.Round(time.Second).String(),
	)
	return nil
}
