package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/pdfinfo"
	"github.com/amishk599/resumefit/internal/render"
	"github.com/amishk599/resumefit/internal/report"
	"github.com/amishk599/resumefit/internal/submission"
)

// pickerHeight is the file list height until the first window size arrives.
const pickerHeight = 10

type focusField int

const (
	focusFile focusField = iota
	focusDescription
	focusButton
	focusCount
)

var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 0)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	activeLabelStyle = labelStyle.
				Foreground(lipgloss.Color("39"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24"))

	focusedButtonStyle = buttonStyle.
				Background(lipgloss.Color("39")).
				Bold(true)

	disabledButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	resultHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

// submitDoneMsg is sent when a submission's network call settles.
type submitDoneMsg struct {
	seq uint64
	err error
}

// downloadDoneMsg is sent when a report download completes.
type downloadDoneMsg struct {
	path string
	err  error
}

// fileInspectedMsg carries the PDF summary for a selected file.
type fileInspectedMsg struct {
	path string
	info pdfinfo.Info
	err  error
}

// FormOptions configures RunForm.
type FormOptions struct {
	Controller *submission.Controller
	Renderer   *render.Renderer
	View       config.ViewConfig
	// Downloader is optional; without it the download key is hidden.
	Downloader *report.Downloader
	// Timeout bounds one analysis request.
	Timeout time.Duration
}

type formModel struct {
	ctx  context.Context
	opts FormOptions

	file    textinput.Model
	desc    textarea.Model
	picker  filepicker.Model
	picking bool
	spin    spinner.Model
	focus   focusField

	inspected string // last path sent to pdfinfo
	fileInfo  string
	notice    string
	width     int

	wantBack bool
}

func newFormModel(ctx context.Context, opts FormOptions) formModel {
	file := textinput.New()
	file.Placeholder = "path/to/resume.pdf"
	file.Prompt = "› "
	file.Width = 60
	file.Focus()

	desc := textarea.New()
	desc.Placeholder = "Paste the job description here..."
	desc.CharLimit = 0
	desc.ShowLineNumbers = false
	desc.SetWidth(72)
	desc.SetHeight(8)

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.Height = pickerHeight
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return formModel{
		ctx:    ctx,
		opts:   opts,
		file:   file,
		desc:   desc,
		picker: fp,
		spin:   newSpinner(),
	}
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 20 {
			m.desc.SetWidth(w)
			m.file.Width = w - 4
		}
		// The picker sizes its file list from the window height.
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case submitDoneMsg:
		// Outcome lives in the controller; the view reads it from a snapshot.
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("download failed: %v", msg.err)
		} else {
			m.notice = "Report saved to " + msg.path
		}
		return m, nil

	case fileInspectedMsg:
		if msg.path != strings.TrimSpace(m.file.Value()) {
			return m, nil
		}
		if msg.err != nil {
			m.fileInfo = "not a readable PDF"
		} else {
			m.fileInfo = msg.info.Summary()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.opts.Controller.Snapshot().Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.picking {
		return m.updatePicker(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.updateKeys(key)
	}
	return m.forward(msg)
}

func (m formModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.picking = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.file.SetValue(path)
		m.opts.Controller.SetFile(path)
		return m, tea.Batch(cmd, m.inspectCmd(path))
	}
	return m, cmd
}

func (m formModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.wantBack = true
		return m, tea.Quit
	case "ctrl+s":
		return m.submit()
	case "ctrl+o":
		m.picking = true
		return m, m.picker.Init()
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	}

	if m.focus == focusButton {
		switch msg.String() {
		case "enter", " ":
			return m.submit()
		case "d":
			return m.download()
		case "o":
			if url := m.reportURL(); url != "" {
				openURL(url)
			}
			return m, nil
		}
		return m, nil
	}
	return m.forward(msg)
}

// forward hands msg to the focused input and mirrors its value into the controller.
func (m formModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusFile:
		m.file, cmd = m.file.Update(msg)
		m.opts.Controller.SetFile(strings.TrimSpace(m.file.Value()))
	case focusDescription:
		m.desc, cmd = m.desc.Update(msg)
		m.opts.Controller.SetDescription(m.desc.Value())
	}
	return m, cmd
}

func (m formModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	leaving := m.focus
	m.focus = (m.focus + focusField(delta) + focusCount) % focusCount

	m.file.Blur()
	m.desc.Blur()

	var cmds []tea.Cmd
	switch m.focus {
	case focusFile:
		cmds = append(cmds, m.file.Focus())
	case focusDescription:
		cmds = append(cmds, m.desc.Focus())
	}

	if leaving == focusFile {
		path := strings.TrimSpace(m.file.Value())
		if path != "" && path != m.inspected {
			m.inspected = path
			m.fileInfo = ""
			cmds = append(cmds, m.inspectCmd(path))
		}
	}
	return m, tea.Batch(cmds...)
}

// submitEnabled reports whether the analyze affordance is active.
func (m formModel) submitEnabled() bool {
	return !(m.opts.Controller.BusyGuard() && m.opts.Controller.Snapshot().Submitting)
}

func (m formModel) submit() (formModel, tea.Cmd) {
	if !m.submitEnabled() {
		return m, nil
	}
	ctrl := m.opts.Controller
	ctrl.SetFile(strings.TrimSpace(m.file.Value()))
	ctrl.SetDescription(m.desc.Value())

	t, err := ctrl.Begin()
	if err != nil {
		// Validation messages are stored in the controller state.
		return m, nil
	}
	m.notice = ""
	return m, tea.Batch(m.runCmd(t), m.spin.Tick)
}

func (m formModel) runCmd(t *submission.Ticket) tea.Cmd {
	ctrl, parent, timeout := m.opts.Controller, m.ctx, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		err := ctrl.Run(ctx, t)
		if errors.Is(err, submission.ErrSuperseded) {
			err = nil
		}
		return submitDoneMsg{seq: t.Seq(), err: err}
	}
}

func (m formModel) inspectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := pdfinfo.Inspect(path)
		return fileInspectedMsg{path: path, info: info, err: err}
	}
}

func (m formModel) download() (formModel, tea.Cmd) {
	res := m.opts.Controller.Snapshot().LastResult
	if m.opts.Downloader == nil || res == nil || res.ReportPath == "" {
		return m, nil
	}
	m.notice = "Downloading report..."
	d, parent, timeout, reportPath := m.opts.Downloader, m.ctx, m.opts.Timeout, res.ReportPath
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		path, err := d.Download(ctx, reportPath)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m formModel) reportURL() string {
	res := m.opts.Controller.Snapshot().LastResult
	if res == nil || res.ReportPath == "" {
		return ""
	}
	return m.opts.Renderer.DownloadURL(res.ReportPath)
}

func (m formModel) View() string {
	if m.picking {
		return formTitleStyle.Render("Select a resume") + "\n" +
			m.picker.View() + "\n" +
			statusBarStyle.Render(" ↑/↓ move  enter select  esc cancel")
	}

	snap := m.opts.Controller.Snapshot()
	var b strings.Builder

	b.WriteString(formTitleStyle.Render("Resume Analyzer · " + m.opts.View.Name))
	b.WriteString("\n")

	b.WriteString(m.label("Upload Resume (PDF):", focusFile))
	b.WriteString("\n")
	b.WriteString(m.file.View())
	if m.fileInfo != "" {
		b.WriteString("  " + hintStyle.Render(m.fileInfo))
	}
	b.WriteString("\n\n")

	b.WriteString(m.label("Job Description:", focusDescription))
	b.WriteString("\n")
	b.WriteString(m.desc.View())
	b.WriteString("\n\n")

	b.WriteString(m.button(snap))
	b.WriteString("\n")

	if snap.LastError != "" {
		b.WriteString("\n" + errorStyle.Render(snap.LastError) + "\n")
	}

	if snap.LastResult != nil {
		lines := m.opts.Renderer.Render(*snap.LastResult).Strings()
		body := resultHeaderStyle.Render("Analysis Results") + "\n" + strings.Join(lines, "\n")
		b.WriteString("\n" + resultBoxStyle.Render(body) + "\n")
	}

	if m.notice != "" {
		b.WriteString(hintStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + statusBarStyle.Render(m.statusText(snap)))
	return b.String()
}

func (m formModel) label(text string, f focusField) string {
	if m.focus == f {
		return activeLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m formModel) button(snap submission.State) string {
	text := "Analyze Resume"
	if snap.Submitting {
		text = "Analyzing..."
	}
	switch {
	case !m.submitEnabled():
		return m.spin.View() + " " + disabledButtonStyle.Render(text)
	case m.focus == focusButton:
		return focusedButtonStyle.Render(text)
	case snap.Submitting:
		return m.spin.View() + " " + buttonStyle.Render(text)
	default:
		return buttonStyle.Render(text)
	}
}

func (m formModel) statusText(snap submission.State) string {
	s := " tab next  ctrl+o browse  ctrl+s analyze"
	if m.focus == focusButton && snap.LastResult != nil && snap.LastResult.ReportPath != "" {
		if m.opts.Downloader != nil {
			s += "  d download"
		}
		s += "  o open report"
	}
	return s + "  esc back  ctrl+c quit"
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunForm launches the interactive submission form for one view.
// Returns wantBack=true if the user pressed esc to return to the view picker.
func RunForm(ctx context.Context, opts FormOptions) (bool, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	m := newFormModel(ctx, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(formModel)
	return final.wantBack, nil
}
