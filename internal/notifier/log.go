package notifier

import (
	"log/slog"

	"github.com/amishk599/resumefit/internal/model"
)

// Ensure LogNotifier implements model.ResultNotifier.
var _ model.ResultNotifier = (*LogNotifier)(nil)

// LogNotifier writes completed analyses to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each analysis via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the analysis with its view, resume, skills and report link.
// Returns nil (logging does not fail).
func (n *LogNotifier) Notify(rec model.Record) error {
	args := []any{
		"id", rec.ID,
		"view", rec.View,
		"resume", rec.ResumeName,
		"skills_found", rec.Result.SkillsFound,
		"skills_missing", rec.Result.SkillsMissing,
	}
	if rec.Result.MatchScore != nil {
		args = append(args, "match_score", *rec.Result.MatchScore)
	}
	if rec.ReportURL != "" {
		args = append(args, "report_url", rec.ReportURL)
	}
	n.logger.Info("analysis complete", args...)
	return nil
}
