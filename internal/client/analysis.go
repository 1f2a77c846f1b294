package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/amishk599/resumefit/internal/model"
)

// Multipart part names expected by the analysis service.
const (
	FieldResume         = "resume"
	FieldJobDescription = "job_description"
)

// RequestIDHeader carries a per-request uuid so client and service logs can
// be correlated.
const RequestIDHeader = "X-Request-ID"

// Ensure AnalysisClient implements model.Analyzer.
var _ model.Analyzer = (*AnalysisClient)(nil)

// AnalysisClient posts resume/job-description pairs to the analysis service.
type AnalysisClient struct {
	url    string
	schema model.Schema
	client *http.Client
	logger *slog.Logger
}

// NewAnalysisClient creates a client for the analyze endpoint at url.
// Responses are validated against schema before they are returned.
func NewAnalysisClient(url string, schema model.Schema, client *http.Client, logger *slog.Logger) *AnalysisClient {
	return &AnalysisClient{
		url:    url,
		schema: schema,
		client: client,
		logger: logger,
	}
}

// Analyze sends one multipart POST with a "resume" file part and a
// "job_description" text part. It never retries.
//
// Transport failures, non-2xx statuses and bodies that do not decode wrap
// model.ErrAnalysisFailed. A decoded body that violates the schema is
// reported as model.ErrMalformedResponse.
func (c *AnalysisClient) Analyze(ctx context.Context, in model.SubmissionInput) (model.AnalysisResult, error) {
	body, contentType, err := encodeSubmission(in)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: encode request: %w", model.ErrAnalysisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", model.ErrAnalysisFailed, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.logger.Debug("submitting analysis", "url", c.url, "request_id", requestID,
		"resume", in.ResumeName, "body_bytes", body.Len())

	resp, err := c.client.Do(req)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", model.ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", model.ErrAnalysisFailed, httpError(resp))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: read response: %w", model.ErrAnalysisFailed, err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: decode response: %w", model.ErrAnalysisFailed, err)
	}
	if err := c.schema.Validate(&result); err != nil {
		return model.AnalysisResult{}, err
	}

	c.logger.Debug("analysis complete", "request_id", requestID,
		"found", len(result.SkillsFound), "missing", len(result.SkillsMissing))
	return result, nil
}

// encodeSubmission writes the two multipart parts into an in-memory body.
func encodeSubmission(in model.SubmissionInput) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := filepath.Base(in.ResumeName)
	if in.ResumeName == "" {
		name = "resume.pdf"
	}
	part, err := w.CreateFormFile(FieldResume, name)
	if err != nil {
		return nil, "", fmt.Errorf("create resume part: %w", err)
	}
	if in.Resume != nil {
		if _, err := io.Copy(part, in.Resume); err != nil {
			return nil, "", fmt.Errorf("copy resume: %w", err)
		}
	}

	if err := w.WriteField(FieldJobDescription, in.JobDescription); err != nil {
		return nil, "", fmt.Errorf("write job_description: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
