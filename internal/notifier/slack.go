package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/resumefit/internal/model"
	"github.com/amishk599/resumefit/internal/render"
)

// Ensure SlackNotifier implements model.ResultNotifier.
var _ model.ResultNotifier = (*SlackNotifier)(nil)

// SlackNotifier posts analysis summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each analysis to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends one Block Kit message for rec. A 429 is retried once after
// the Retry-After delay.
func (s *SlackNotifier) Notify(rec model.Record) error {
	body, err := json.Marshal(buildPayload(rec))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "id", rec.ID, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "id", rec.ID)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample analysis to verify the integration works.
func SendTestMessage(n model.ResultNotifier) error {
	score := 0.87
	return n.Notify(model.Record{
		ID:         "test-001",
		CreatedAt:  time.Now(),
		View:       "test",
		ResumeName: "resumefit-test.pdf",
		Result: model.AnalysisResult{
			MatchScore:    &score,
			SkillsFound:   []string{"Go", "SQL"},
			SkillsMissing: []string{"Kubernetes"},
		},
		ReportURL: "https://example.com/download/feedback_report.pdf",
	})
}

func buildPayload(rec model.Record) slackPayload {
	score := "n/a"
	if rec.Result.MatchScore != nil {
		score = strconv.FormatFloat(*rec.Result.MatchScore, 'f', 2, 64)
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "📄 Resume analysis: " + rec.ResumeName},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Match Score:*\n" + score},
				{Type: "mrkdwn", Text: "*View:*\n" + rec.View},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: render.SkillsLine("*Skills Found*", rec.Result.SkillsFound) +
				"\n" + render.SkillsLine("*Skills Missing*", rec.Result.SkillsMissing)},
		},
	}

	if rec.ReportURL != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Download Feedback Report"},
					URL:   rec.ReportURL,
					Style: "primary",
				},
			},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}
