package tui

import (
	"context"
	"errors"
	"io"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/model"
	"github.com/amishk599/resumefit/internal/render"
	"github.com/amishk599/resumefit/internal/submission"
)

type stubAnalyzer struct {
	res     model.AnalysisResult
	err     error
	release chan struct{} // when non-nil, Analyze blocks until closed
}

func (s *stubAnalyzer) Analyze(ctx context.Context, _ model.SubmissionInput) (model.AnalysisResult, error) {
	if s.release != nil {
		<-s.release
	}
	return s.res, s.err
}

func stubOpen(string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF")), nil
}

func newTestForm(a model.Analyzer, view config.ViewConfig) formModel {
	ctrl := submission.NewController(a, submission.Options{
		View:      view.Name,
		BusyGuard: view.BusyGuard,
		Open:      stubOpen,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return newFormModel(context.Background(), FormOptions{
		Controller: ctrl,
		Renderer:   render.NewRenderer("http://svc", view),
		View:       view,
		Timeout:    time.Second,
	})
}

func homeView() config.ViewConfig {
	return config.ViewConfig{Name: "home", BusyGuard: true, LinkStrategy: config.LinkBasename, ScoreScale: config.ScoreRaw}
}

func classicView() config.ViewConfig {
	return config.ViewConfig{Name: "classic", ShowScore: true, LinkStrategy: config.LinkVerbatim, ScoreScale: config.ScoreRaw}
}

// collect runs cmd and returns every message it produces, flattening batches.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fill(m formModel, path, desc string) formModel {
	m.file.SetValue(path)
	m.desc.SetValue(desc)
	return m
}

func update(m formModel, msg tea.Msg) (formModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(formModel), cmd
}

func TestForm_SubmitWithoutInputShowsValidation(t *testing.T) {
	m := newTestForm(&stubAnalyzer{}, homeView())

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected no command for invalid input")
	}
	if !strings.Contains(m.View(), model.MsgMissingInput) {
		t.Errorf("view missing validation message:\n%s", m.View())
	}
}

func TestForm_SubmitRendersResult(t *testing.T) {
	score := 0.82
	a := &stubAnalyzer{res: model.AnalysisResult{
		MatchScore:    &score,
		SkillsFound:   []string{"Go", "SQL"},
		SkillsMissing: []string{},
		ReportPath:    "reports/feedback_report.pdf",
	}}
	m := fill(newTestForm(a, classicView()), "resume.pdf", "Backend engineer")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !strings.Contains(m.View(), "Analyzing...") {
		t.Errorf("expected loading label while in flight:\n%s", m.View())
	}

	for _, msg := range collect(t, cmd) {
		if _, ok := msg.(submitDoneMsg); ok {
			m, _ = update(m, msg)
		}
	}

	view := m.View()
	for _, want := range []string{
		"Analysis Results",
		"Match Score: 0.82",
		"Skills Found: Go, SQL",
		"Skills Missing: None",
		"http://svc/reports/feedback_report.pdf",
		"Analyze Resume",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestForm_FailureShowsGenericMessage(t *testing.T) {
	a := &stubAnalyzer{err: errors.New("dial tcp: connection refused")}
	m := fill(newTestForm(a, homeView()), "resume.pdf", "Backend engineer")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range collect(t, cmd) {
		m, _ = update(m, msg)
	}

	view := m.View()
	if !strings.Contains(view, model.MsgAnalysisFailed) {
		t.Errorf("view missing generic error:\n%s", view)
	}
	if strings.Contains(view, "connection refused") {
		t.Error("view leaked transport error detail")
	}
}

func TestForm_BusyGuardDisablesSubmit(t *testing.T) {
	release := make(chan struct{})
	a := &stubAnalyzer{release: release}
	m := fill(newTestForm(a, homeView()), "resume.pdf", "Backend engineer")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	done := make(chan []tea.Msg)
	go func() { done <- collect(t, cmd) }()

	if m.submitEnabled() {
		t.Error("guarded view should disable submit while in flight")
	}
	if _, again := update(m, tea.KeyMsg{Type: tea.KeyCtrlS}); again != nil {
		t.Error("second submit should be ignored while in flight")
	}

	close(release)
	<-done
	if !m.submitEnabled() {
		t.Error("submit should be re-enabled after settling")
	}
}

func TestForm_UnguardedViewAllowsResubmit(t *testing.T) {
	release := make(chan struct{})
	a := &stubAnalyzer{release: release}
	m := fill(newTestForm(a, classicView()), "resume.pdf", "Backend engineer")

	m, first := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, second := update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if first == nil || second == nil {
		t.Fatal("unguarded view should accept re-entrant submits")
	}
	if got := m.opts.Controller.Snapshot().Seq; got != 2 {
		t.Errorf("Seq = %d, want 2", got)
	}
	close(release)
	collect(t, first)
	collect(t, second)
}

func TestForm_TabCyclesFocus(t *testing.T) {
	m := newTestForm(&stubAnalyzer{}, homeView())

	want := []focusField{focusDescription, focusButton, focusFile}
	for _, f := range want {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != f {
			t.Fatalf("focus = %d, want %d", m.focus, f)
		}
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusButton {
		t.Errorf("shift+tab focus = %d, want %d", m.focus, focusButton)
	}
}

func TestForm_TypingMirrorsIntoController(t *testing.T) {
	m := newTestForm(&stubAnalyzer{}, homeView())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cv.pdf")})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Go dev")})

	snap := m.opts.Controller.Snapshot()
	if snap.SelectedFile != "cv.pdf" {
		t.Errorf("SelectedFile = %q", snap.SelectedFile)
	}
	if snap.Description != "Go dev" {
		t.Errorf("Description = %q", snap.Description)
	}
	if m.inspected != "cv.pdf" {
		t.Errorf("inspected = %q, want cv.pdf", m.inspected)
	}
}

func TestForm_EscGoesBack(t *testing.T) {
	m := newTestForm(&stubAnalyzer{}, homeView())
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.wantBack {
		t.Error("esc should request going back")
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestForm_FilePickerListsSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 4; i++ {
		name := filepath.Join(dir, fmt.Sprintf("resume%d.pdf", i))
		if err := os.WriteFile(name, []byte("%PDF"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	m := newTestForm(&stubAnalyzer{}, homeView())
	m.picker.CurrentDirectory = dir

	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !m.picking {
		t.Fatal("ctrl+o should open the file picker")
	}
	for _, msg := range collect(t, cmd) {
		m, _ = update(m, msg)
	}

	view := m.View()
	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("resume%d.pdf", i)
		if !strings.Contains(view, name) {
			t.Errorf("picker view missing %s:\n%s", name, view)
		}
	}
}

func TestForm_FilePickerHasHeightBeforeResize(t *testing.T) {
	m := newTestForm(&stubAnalyzer{}, homeView())
	if m.picker.Height < 2 {
		t.Errorf("picker Height = %d, want room for several files", m.picker.Height)
	}
}
