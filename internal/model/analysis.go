package model

import (
	"context"
	"io"
	"time"
)

// SubmissionInput is what the user hands to one analysis request.
type SubmissionInput struct {
	ResumeName     string    // filename sent in the multipart file part
	Resume         io.Reader // resume bytes, read once while encoding
	JobDescription string
}

// AnalysisResult is the decoded response of the analysis service.
// Optional fields have explicit defaults: nil score, empty lists, empty path.
type AnalysisResult struct {
	MatchScore    *float64 `json:"match_score,omitempty"`
	SkillsFound   []string `json:"skills_found"`
	SkillsMissing []string `json:"skills_missing"`
	ReportPath    string   `json:"report_path,omitempty"`
}

// HasScore reports whether the service returned a match score.
func (r AnalysisResult) HasScore() bool {
	return r.MatchScore != nil
}

// Schema describes which response fields a view requires.
type Schema struct {
	RequireScore bool
}

// Validate normalizes optional fields to their defaults and checks the
// fields required by s. It returns ErrMalformedResponse on violation.
func (s Schema) Validate(r *AnalysisResult) error {
	if r.SkillsFound == nil {
		r.SkillsFound = []string{}
	}
	if r.SkillsMissing == nil {
		r.SkillsMissing = []string{}
	}
	if s.RequireScore && r.MatchScore == nil {
		return &MalformedError{Field: "match_score", Reason: "missing"}
	}
	return nil
}

// Record is one completed analysis as kept in history and sent to notifiers.
type Record struct {
	ID         string
	CreatedAt  time.Time
	View       string
	ResumeName string
	Result     AnalysisResult
	ReportURL  string // empty when the service returned no report
}

// Analyzer submits one resume/job-description pair to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, in SubmissionInput) (AnalysisResult, error)
}

// HistoryStore persists completed analyses.
type HistoryStore interface {
	Record(rec Record) error
	Recent(limit int) ([]Record, error)
	Cleanup(olderThan time.Duration) error
}

// ResultNotifier shares a completed analysis somewhere outside the terminal.
type ResultNotifier interface {
	Notify(rec Record) error
}

// ReportFetcher streams a generated report from the service.
type ReportFetcher interface {
	FetchReport(ctx context.Context, url string, w io.Writer) (int64, error)
}
