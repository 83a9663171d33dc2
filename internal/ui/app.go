// Package ui implements the interactive row viewer on top of Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/linefit/internal/dataset"
	"github.com/yildizm/linefit/internal/emoji"
	"github.com/yildizm/linefit/internal/logger"
	"github.com/yildizm/linefit/internal/plot"
	"github.com/yildizm/linefit/internal/session"
)

// Options configures the viewer
type Options struct {
	AutoAnalyze  bool
	AutoInterval time.Duration
	Theme        string
	Color        bool
	Watch        bool

	PlotWidth  int // canvas columns
	PlotHeight int // canvas rows

	ExportPath   string
	ExportFormat string
	PlotPath     string
	ImageWidth   int
	ImageHeight  int

	InitialFile string
}

type mode int

const (
	modeBrowse mode = iota
	modeOpen
	modeSave
	modePlot
)

func (m mode) prompt() string {
	switch m {
	case modeOpen:
		return "Open file: "
	case modeSave:
		return "Save results to: "
	case modePlot:
		return "Save plot to: "
	default:
		return ""
	}
}

// Model is the Bubble Tea model of the row viewer
type Model struct {
	sess *session.Session
	opts Options
	log  *logger.Logger

	styles *Styles
	keys   keyMap
	help   help.Model
	table  table.Model
	input  textinput.Model

	mode    mode
	auto    bool
	message string
	failed  bool
	watcher *Watcher
	width   int

	canvas plot.Canvas // colours resolved once against the terminal background
}

// NewModel creates a viewer over sess
func NewModel(sess *session.Session, opts Options, log *logger.Logger) Model {
	if log == nil {
		log = logger.Nop()
	}
	if opts.AutoInterval <= 0 {
		opts.AutoInterval = time.Second
	}
	if opts.PlotWidth <= 0 {
		opts.PlotWidth = 60
	}
	if opts.PlotHeight <= 0 {
		opts.PlotHeight = 16
	}

	theme, ok := ThemeByName(opts.Theme)
	if !ok {
		theme = DefaultTheme
	}
	styles := NewStyles(theme)
	if !opts.Color || IsColorDisabled() {
		opts.Color = false
		styles = plainStyles()
	}

	input := textinput.New()
	input.CharLimit = 4096
	input.Width = 50

	m := Model{
		sess:   sess,
		opts:   opts,
		log:    log.WithComponent("ui"),
		styles: styles,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  input,
		auto:   opts.AutoAnalyze,
	}
	m.table = newResultsTable(styles, opts.Color)
	m.canvas = plot.Canvas{Color: opts.Color}
	if opts.Color {
		m.canvas.PointColor = Hex(theme.Primary)
		m.canvas.NearColor = Hex(theme.PointNear)
		m.canvas.FarColor = Hex(theme.PointFar)
		m.canvas.LineColor = Hex(theme.FitLine)
		m.canvas.AxisColor = Hex(theme.Muted)
	}
	m.refreshResults()
	return m
}

func newResultsTable(styles *Styles, color bool) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "row", Width: 5},
			{Title: "slope", Width: 12},
			{Title: "intercept", Width: 12},
			{Title: "r_value", Width: 12},
		}),
		table.WithHeight(6),
	)

	s := table.DefaultStyles()
	if color {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.Theme.Border).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(styles.Theme.Primary).
			Background(styles.Theme.Selected).
			Bold(false)
	} else {
		s.Header = lipgloss.NewStyle().Bold(true).Padding(0, 1)
		s.Cell = lipgloss.NewStyle().Padding(0, 1)
		s.Selected = lipgloss.NewStyle()
	}
	t.SetStyles(s)
	return t
}

// Init starts the auto-analyze timer and loads the initial file
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(m.opts.AutoInterval)}
	if m.opts.InitialFile != "" {
		path := m.opts.InitialFile
		cmds = append(cmds, func() tea.Msg { return openFileMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.auto {
			m.analyze()
		}
		return m, tick(m.opts.AutoInterval)

	case openFileMsg:
		return m.open(msg.path)

	case fileChangedMsg:
		if msg.watcher != m.watcher {
			return m, nil
		}
		m.reload()
		return m, m.waitForChange()

	case watchErrorMsg:
		if msg.watcher != m.watcher {
			return m, nil
		}
		m.setError(fmt.Errorf("watch: %w", msg.err))
		return m, m.waitForChange()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.mode != modeBrowse {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.sess.Up() {
			m.clearMessage()
		}
	case key.Matches(msg, m.keys.Down):
		if m.sess.Down() {
			m.clearMessage()
		}
	case key.Matches(msg, m.keys.Analyze):
		m.analyze()
	case key.Matches(msg, m.keys.Auto):
		m.auto = !m.auto
		m.log.Debug("auto-analyze %t", m.auto)
	case key.Matches(msg, m.keys.Open):
		return m.startPrompt(modeOpen, m.sess.Path())
	case key.Matches(msg, m.keys.Save):
		return m.startPrompt(modeSave, m.opts.ExportPath)
	case key.Matches(msg, m.keys.Plot):
		return m.startPrompt(modePlot, m.opts.PlotPath)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) startPrompt(md mode, value string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.Prompt = md.prompt()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		md := m.mode
		path := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if path == "" {
			return m, nil
		}
		switch md {
		case modeOpen:
			return m.open(path)
		case modeSave:
			m.export(path)
		case modePlot:
			m.savePlot(path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stopWatching()
	return m, tea.Quit
}

func (m Model) open(path string) (tea.Model, tea.Cmd) {
	if err := m.sess.Load(path); err != nil {
		m.setError(err)
		return m, nil
	}
	m.setMessage(fmt.Sprintf("%s Loaded %d rows from %s", emoji.GetEmoji("file"), m.sess.Len(), path))

	if !m.opts.Watch {
		return m, nil
	}
	m.stopWatching()
	w, err := NewWatcher(path)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.watcher = w
	m.log.InfoWithFields("watching file", []logger.Field{logger.Path(w.Path())})
	return m, m.waitForChange()
}

func (m *Model) reload() {
	if err := m.sess.Reload(); err != nil {
		m.setError(err)
		return
	}
	m.setMessage(fmt.Sprintf("%s Reloaded %d rows", emoji.GetEmoji("watch"), m.sess.Len()))
}

func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

func (m *Model) stopWatching() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		m.log.Warn("failed to close watcher: %v", err)
	}
	m.watcher = nil
}

func (m *Model) analyze() {
	a, err := m.sess.Analyze()
	if err != nil {
		m.setError(err)
		return
	}
	if a == nil {
		return
	}
	m.refreshResults()
	m.setMessage(fmt.Sprintf("%s Row %d: slope %s, intercept %s, r %s",
		emoji.GetEmoji("fit"), a.Stored.Row, num(a.Fit.Slope), num(a.Fit.Intercept), num(a.Fit.RValue)))
}

func (m *Model) export(path string) {
	if err := m.sess.Export(path, m.opts.ExportFormat); err != nil {
		m.setError(err)
		return
	}
	m.setMessage(fmt.Sprintf("%s Saved %d results to %s", emoji.GetEmoji("save"), len(m.sess.Results()), path))
}

func (m *Model) savePlot(path string) {
	row, err := m.sess.Current()
	if err != nil {
		m.setError(err)
		return
	}

	img := plot.Image{
		Title:  fmt.Sprintf("Row %d", m.sess.Cursor()+1),
		Label:  row.Label,
		Width:  m.opts.ImageWidth,
		Height: m.opts.ImageHeight,
	}
	if img.Width <= 0 || img.Height <= 0 {
		img.Width, img.Height = 800, 600
	}
	if err := img.SavePNG(path, plot.Points(dataset.XValues[:], row.Samples()), m.fitLine()); err != nil {
		m.setError(err)
		return
	}
	m.setMessage(fmt.Sprintf("%s Saved plot to %s", emoji.GetEmoji("plot"), path))
}

func (m Model) fitLine() *plot.Line {
	a, ok := m.sess.LastAnalysis()
	if !ok {
		return nil
	}
	return &plot.Line{Slope: a.Fit.Slope, Intercept: a.Fit.Intercept}
}

func (m *Model) refreshResults() {
	stored := m.sess.Results()
	rows := make([]table.Row, 0, len(stored))
	for _, r := range stored {
		rows = append(rows, table.Row{fmt.Sprint(r.Row), num(r.Slope), num(r.Intercept), num(r.RValue)})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.GotoBottom()
	}
}

func (m *Model) setMessage(s string) {
	m.message = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.log.Warn("%v", err)
	m.message = fmt.Sprintf("%s %v", emoji.GetEmoji("error"), err)
	m.failed = true
}

func (m *Model) clearMessage() {
	m.message = ""
	m.failed = false
}

// View renders the viewer
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(emoji.GetEmoji("fit") + " linefit"))
	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render(m.header()))
	b.WriteString("\n")
	b.WriteString(m.styles.Info.Render(m.sess.StatusLine()))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Panel.Render(m.plotView()))
	b.WriteString("\n")
	if details := m.fitDetails(); details != "" {
		b.WriteString(m.styles.Muted.Render(details))
		b.WriteString("\n")
	}
	b.WriteString(m.autoView())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%s Results (%d)", emoji.GetEmoji("statistics"), len(m.sess.Results()))))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.mode != modeBrowse {
		b.WriteString(m.styles.Prompt.Render(m.input.View()))
		b.WriteString("\n")
	}
	if m.message != "" {
		style := m.styles.Success
		if m.failed {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}

	if m.mode != modeBrowse {
		b.WriteString(m.help.View(promptKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) header() string {
	if m.sess.Path() == "" {
		return "Total 0 rows"
	}
	return fmt.Sprintf("Total %d rows in %s", m.sess.Len(), m.sess.Path())
}

func (m Model) autoView() string {
	box := "[ ]"
	if m.auto {
		box = "[x]"
	}
	return fmt.Sprintf("%s Auto-analyze every %s", box, m.opts.AutoInterval)
}

func (m Model) plotView() string {
	row, err := m.sess.Current()
	if errors.Is(err, session.ErrNoData) {
		return "No data loaded. Press o to open a file."
	}
	if err != nil {
		return fmt.Sprintf("%s %v", emoji.GetEmoji("warning"), err)
	}

	width := m.opts.PlotWidth
	if m.width > 0 {
		width = min(width, m.width-4)
	}
	canvas := m.canvas
	canvas.Width = width
	canvas.Height = m.opts.PlotHeight
	return canvas.Render(plot.Points(dataset.XValues[:], row.Samples()), m.fitLine())
}

func (m Model) fitDetails() string {
	a, ok := m.sess.LastAnalysis()
	if !ok {
		return ""
	}
	return fmt.Sprintf("y = %s + %s·x   r = %s   p = %s   stderr = %s",
		num(a.Fit.Intercept), num(a.Fit.Slope), num(a.Fit.RValue), num(a.Fit.PValue), num(a.Fit.StdErr))
}

// Auto reports whether auto-analyze is enabled
func (m Model) Auto() bool {
	return m.auto
}

// Message returns the status message and whether it reports a failure
func (m Model) Message() (string, bool) {
	return m.message, m.failed
}

func num(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Theme:   DefaultTheme,
		Title:   plain,
		Header:  plain,
		Muted:   plain,
		Success: plain,
		Error:   plain,
		Info:    plain,
		Panel:   plain,
		Prompt:  plain,
	}
}

// Run starts the viewer and blocks until the user quits
func Run(sess *session.Session, opts Options, log *logger.Logger) error {
	p := tea.NewProgram(NewModel(sess, opts, log), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopWatching()
	}
	if err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}
