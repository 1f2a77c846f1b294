package render

import (
	"testing"

	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func scoreView() config.ViewConfig {
	return config.ViewConfig{Name: "classic", ShowScore: true, LinkStrategy: config.LinkBasename, ScoreScale: config.ScoreRaw}
}

func TestRender_ScoreAwareView(t *testing.T) {
	r := NewRenderer("http://localhost:5000/", scoreView())
	lines := r.Render(model.AnalysisResult{
		MatchScore:    floatPtr(87.5),
		SkillsFound:   []string{"Python", "SQL"},
		SkillsMissing: []string{"Go"},
		ReportPath:    `C:\out\report.pdf`,
	})

	if lines.Found != "Skills Found: Python, SQL" {
		t.Errorf("Found = %q", lines.Found)
	}
	if lines.Missing != "Skills Missing: Go" {
		t.Errorf("Missing = %q", lines.Missing)
	}
	if lines.Score != "Match Score: 87.50" {
		t.Errorf("Score = %q", lines.Score)
	}
	if lines.DownloadURL != "http://localhost:5000/download/report.pdf" {
		t.Errorf("DownloadURL = %q", lines.DownloadURL)
	}

	got := lines.Strings()
	if len(got) != 4 || got[0] != lines.Score || got[3] != "Download Feedback Report: "+lines.DownloadURL {
		t.Errorf("Strings() = %q", got)
	}
}

func TestRender_EmptyListsShowNone(t *testing.T) {
	r := NewRenderer("http://localhost:5000", config.ViewConfig{LinkStrategy: config.LinkBasename})
	lines := r.Render(model.AnalysisResult{SkillsFound: []string{}})

	if lines.Found != "Skills Found: None" {
		t.Errorf("Found = %q", lines.Found)
	}
	if lines.Missing != "Skills Missing: None" {
		t.Errorf("Missing = %q (nil list)", lines.Missing)
	}
	if lines.Score != "" {
		t.Errorf("Score = %q, want hidden", lines.Score)
	}
	if lines.DownloadURL != "" {
		t.Errorf("DownloadURL = %q, want empty without report path", lines.DownloadURL)
	}
	if got := lines.Strings(); len(got) != 2 {
		t.Errorf("Strings() = %q", got)
	}
}

func TestRender_MissingScoreDoesNotPanic(t *testing.T) {
	r := NewRenderer("http://localhost:5000", scoreView())
	lines := r.Render(model.AnalysisResult{})
	if lines.Score != "Match Score: n/a" {
		t.Errorf("Score = %q", lines.Score)
	}
}

func TestScoreLine_Percent(t *testing.T) {
	if got := ScoreLine(0.4267, config.ScorePercent); got != "Match Score: 42.67%" {
		t.Errorf("ScoreLine percent = %q", got)
	}
	if got := ScoreLine(0.42, config.ScoreRaw); got != "Match Score: 0.42" {
		t.Errorf("ScoreLine raw = %q", got)
	}
}

func TestDownloadURL_Strategies(t *testing.T) {
	cases := []struct {
		path, strategy, want string
	}{
		{`C:\out\report.pdf`, config.LinkBasename, "http://h:5000/download/report.pdf"},
		{"reports/feedback_report.pdf", config.LinkBasename, "http://h:5000/download/feedback_report.pdf"},
		{"feedback report.pdf", config.LinkBasename, "http://h:5000/download/feedback%20report.pdf"},
		{"reports/feedback_report.pdf", config.LinkVerbatim, "http://h:5000/reports/feedback_report.pdf"},
		{"/reports/feedback_report.pdf", config.LinkVerbatim, "http://h:5000/reports/feedback_report.pdf"},
		{`reports\feedback_report.pdf`, config.LinkVerbatim, "http://h:5000/reports/feedback_report.pdf"},
		{`\\share\out\report.pdf`, config.LinkVerbatim, "http://h:5000/share/out/report.pdf"},
	}
	for _, c := range cases {
		if got := DownloadURL("http://h:5000/", c.path, c.strategy); got != c.want {
			t.Errorf("DownloadURL(%q, %s) = %q, want %q", c.path, c.strategy, got, c.want)
		}
	}
}

func TestBasename(t *testing.T) {
	cases := map[string]string{
		`C:\out\report.pdf`:     "report.pdf",
		"reports/feedback.pdf":  "feedback.pdf",
		`reports\sub/mixed.pdf`: "mixed.pdf",
		"plain.pdf":             "plain.pdf",
		"":                      "",
	}
	for in, want := range cases {
		if got := Basename(in); got != want {
			t.Errorf("Basename(%q) = %q, want %q", in, got, want)
		}
	}
}
