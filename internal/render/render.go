// Package render turns an analysis result into display lines and builds the
// report download link. It never mutates its input.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/model"
)

// None is shown in place of an empty skill list.
const None = "None"

// Renderer formats results for one view.
type Renderer struct {
	baseURL string
	view    config.ViewConfig
}

// NewRenderer creates a renderer that links reports relative to baseURL.
func NewRenderer(baseURL string, view config.ViewConfig) *Renderer {
	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		view:    view,
	}
}

// Lines is the rendered form of one result.
type Lines struct {
	Score       string // empty when the view hides the score
	Found       string
	Missing     string
	DownloadURL string // empty when the result has no report
}

// Strings returns the non-empty lines in display order.
func (l Lines) Strings() []string {
	var out []string
	if l.Score != "" {
		out = append(out, l.Score)
	}
	out = append(out, l.Found, l.Missing)
	if l.DownloadURL != "" {
		out = append(out, "Download Feedback Report: "+l.DownloadURL)
	}
	return out
}

// Render formats r. Results are validated against the view's schema before
// they get here, so a score-aware view always has a score; a missing one
// renders as "n/a" rather than failing.
func (rd *Renderer) Render(r model.AnalysisResult) Lines {
	l := Lines{
		Found:   SkillsLine("Skills Found", r.SkillsFound),
		Missing: SkillsLine("Skills Missing", r.SkillsMissing),
	}
	if rd.view.ShowScore {
		if r.MatchScore != nil {
			l.Score = ScoreLine(*r.MatchScore, rd.view.ScoreScale)
		} else {
			l.Score = "Match Score: n/a"
		}
	}
	if r.ReportPath != "" {
		l.DownloadURL = DownloadURL(rd.baseURL, r.ReportPath, rd.view.LinkStrategy)
	}
	return l
}

// DownloadURL builds the report link for this renderer's view.
func (rd *Renderer) DownloadURL(reportPath string) string {
	return DownloadURL(rd.baseURL, reportPath, rd.view.LinkStrategy)
}

// SkillsLine joins skills with ", " or substitutes None when there are none.
func SkillsLine(label string, skills []string) string {
	if len(skills) == 0 {
		return label + ": " + None
	}
	return label + ": " + strings.Join(skills, ", ")
}

// ScoreLine formats a match score to two decimals. With the percent scale
// the value is treated as a 0–1 fraction.
func ScoreLine(score float64, scale string) string {
	if scale == config.ScorePercent {
		return fmt.Sprintf("Match Score: %.2f%%", score*100)
	}
	return fmt.Sprintf("Match Score: %.2f", score)
}

// DownloadURL builds the link for a report path returned by the service.
//
// basename: <base>/download/<file name>, with any "\" or "/" directory
// prefix stripped and the name path-escaped.
// verbatim: <base>/<report_path>, joined with exactly one slash. Windows
// separators are converted to "/" but the path is otherwise left unescaped.
func DownloadURL(baseURL, reportPath, strategy string) string {
	base := strings.TrimRight(baseURL, "/")
	if strategy == config.LinkVerbatim {
		p := strings.ReplaceAll(reportPath, `\`, "/")
		return base + "/" + strings.TrimLeft(p, "/")
	}
	return base + "/download/" + url.PathEscape(Basename(reportPath))
}

// Basename strips every directory prefix delimited by "\" or "/".
func Basename(reportPath string) string {
	if i := strings.LastIndexAny(reportPath, `\/`); i >= 0 {
		return reportPath[i+1:]
	}
	return reportPath
}
