// Package tui is the interactive terminal front end. It renders form.State
// and turns the effects returned by form transitions into tea.Cmds.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/nepcollege/internal/catalog"
	"github.com/amishk599/nepcollege/internal/export"
	"github.com/amishk599/nepcollege/internal/form"
	"github.com/amishk599/nepcollege/internal/model"
)

const (
	defaultTimeout = 60 * time.Second
	noticeDuration = 2 * time.Second
)

// Exporter writes the current results to CSV.
type Exporter interface {
	Export(ctx context.Context, criteria model.SearchCriteria, colleges []model.College) (export.Result, error)
}

// Options configures the interactive form.
type Options struct {
	Catalog     catalog.Catalog
	Harvester   model.Harvester
	Store       model.PreferenceStore
	Exporter    Exporter // nil disables the export key
	FallbackKey string
	Timeout     time.Duration // per harvest
	Logger      *slog.Logger
}

type field int

const (
	fieldProvince field = iota
	fieldUniversity
	fieldFaculty
	fieldAPIKey
	fieldSubmit
	fieldCount
)

type statusTickMsg struct{ gen int }

type harvestDoneMsg struct {
	gen    int
	result model.HarvestResult
	err    error
}

type exportDoneMsg struct {
	result export.Result
	err    error
}

type noticeExpiredMsg struct{ id int }

type appModel struct {
	state     form.State
	catalog   catalog.Catalog
	harvester model.Harvester
	store     model.PreferenceStore
	exporter  Exporter
	timeout   time.Duration
	logger    *slog.Logger

	copyFn func(string) error
	openFn func(string) error

	focus    field
	keyInput textinput.Model
	spinner  spinner.Model
	body     viewport.Model
	theme    theme
	cursor   int
	offsets  []int // first body line of each result card

	notice   string
	noticeID int

	width  int
	height int
	ready  bool
}

func newAppModel(opts Options, dark bool) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch v, _ := opts.Store.Get(model.KeyTheme); v {
	case "dark":
		dark = true
	case "light":
		dark = false
	}

	ki := textinput.New()
	ki.Placeholder = "optional when GEMINI_API_KEY is set"
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.CharLimit = 200
	ki.Width = 40

	return appModel{
		state:     form.Restore(opts.Store, opts.FallbackKey),
		catalog:   opts.Catalog,
		harvester: opts.Harvester,
		store:     opts.Store,
		exporter:  opts.Exporter,
		timeout:   timeout,
		logger:    logger,
		copyFn:    clipboard.WriteAll,
		openFn:    openURL,
		keyInput:  ki,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:     newTheme(dark),
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case statusTickMsg:
		return m.apply(form.Tick{Gen: msg.gen})

	case harvestDoneMsg:
		next, cmd := m.apply(form.HarvestDone{Gen: msg.gen, Result: msg.result, Err: msg.err})
		nm := next.(appModel)
		nm.cursor = 0
		nm.body.GotoTop()
		nm.layout()
		return nm, cmd

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.layout()
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error("export failed", "error", msg.err)
			return m.flash("Export failed: " + msg.err.Error())
		}
		where := msg.result.Path
		if msg.result.RemoteURI != "" {
			where += " and " + msg.result.RemoteURI
		}
		return m.flash("Saved " + where)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, keys.Submit):
		return m.apply(form.Submit{})
	case key.Matches(msg, keys.Next):
		return m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, keys.Prev):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, keys.Enter):
		if m.focus == fieldSubmit {
			return m.apply(form.Submit{})
		}
		return m.setFocus(m.focus + 1)
	}

	if m.focus == fieldAPIKey {
		var cmd tea.Cmd
		before := m.keyInput.Value()
		m.keyInput, cmd = m.keyInput.Update(msg)
		if v := m.keyInput.Value(); v != before {
			m.state, _ = m.state.Apply(form.SetAPIKey{Value: v})
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Left):
		return m.cycle(-1)
	case key.Matches(msg, keys.Right):
		return m.cycle(1)
	case key.Matches(msg, keys.CardDown):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, keys.CardUp):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, keys.Copy):
		return m.copyEmail(0)
	case key.Matches(msg, keys.CopySecond):
		return m.copyEmail(1)
	case key.Matches(msg, keys.Mail):
		return m.mail()
	case key.Matches(msg, keys.Export):
		return m.export()
	case key.Matches(msg, keys.Theme):
		m.theme = newTheme(!m.theme.dark)
		m.layout()
		m.persist(model.KeyTheme, m.theme.name())
		return m, nil
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

// apply runs one form transition and converts its effects to commands.
func (m appModel) apply(ev form.Event) (tea.Model, tea.Cmd) {
	var effects []form.Effect
	m.state, effects = m.state.Apply(ev)

	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		switch e := e.(type) {
		case form.Persist:
			m.persist(e.Key, e.Value)
		case form.StartHarvest:
			cmds = append(cmds, m.harvestCmd(e), m.spinner.Tick)
		case form.ScheduleTick:
			gen := e.Gen
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return statusTickMsg{gen: gen}
			}))
		}
	}
	m.layout()
	return m, tea.Batch(cmds...)
}

func (m appModel) harvestCmd(e form.StartHarvest) tea.Cmd {
	harvester, timeout := m.harvester, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := harvester.Harvest(ctx, e.Criteria, e.APIKey)
		return harvestDoneMsg{gen: e.Gen, result: res, err: err}
	}
}

// persist writes on the update loop so stored values follow event order.
func (m appModel) persist(k, v string) {
	if err := m.store.Set(k, v); err != nil {
		m.logger.Warn("saving preference failed", "key", k, "error", err)
	}
}

func (m appModel) setFocus(f field) (tea.Model, tea.Cmd) {
	if f >= fieldCount {
		f = fieldSubmit
	}
	m.focus = f
	if f == fieldAPIKey {
		return m, m.keyInput.Focus()
	}
	m.keyInput.Blur()
	return m, nil
}

func (m appModel) cycle(delta int) (tea.Model, tea.Cmd) {
	c := m.state.Criteria
	switch m.focus {
	case fieldProvince:
		return m.apply(form.SetProvince{Value: cycleOption(m.catalog.Provinces, c.Province, delta)})
	case fieldUniversity:
		return m.apply(form.SetUniversity{Value: cycleOption(m.catalog.Universities, c.University, delta)})
	case fieldFaculty:
		return m.apply(form.SetFaculty{Value: cycleOption(m.catalog.Faculties, c.Faculty, delta)})
	}
	return m, nil
}

// cycleOption steps through "" followed by options, wrapping at both ends.
// A current value that is not listed counts as "".
func cycleOption(options []string, current string, delta int) string {
	n := len(options) + 1
	pos := 0
	for i, o := range options {
		if strings.EqualFold(o, strings.TrimSpace(current)) {
			pos = i + 1
			break
		}
	}
	pos = ((pos+delta)%n + n) % n
	if pos == 0 {
		return ""
	}
	return options[pos-1]
}

func (m appModel) hasResults() bool {
	return m.state.Phase == form.PhaseSuccess && len(m.state.Colleges) > 0
}

func (m *appModel) moveCursor(delta int) {
	if !m.hasResults() {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.state.Colleges)-1)
	m.layout()
	if m.cursor < len(m.offsets) {
		top := m.offsets[m.cursor]
		bottom := m.body.TotalLineCount()
		if m.cursor+1 < len(m.offsets) {
			bottom = m.offsets[m.cursor+1]
		}
		if top < m.body.YOffset {
			m.body.SetYOffset(top)
		} else if bottom > m.body.YOffset+m.body.Height {
			m.body.SetYOffset(bottom - m.body.Height)
		}
	}
}

func (m appModel) selected() (model.College, bool) {
	if !m.hasResults() || m.cursor >= len(m.state.Colleges) {
		return model.College{}, false
	}
	return m.state.Colleges[m.cursor], true
}

func (m appModel) copyEmail(i int) (tea.Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok {
		return m, nil
	}
	if i >= len(c.Emails) {
		return m.flash("No email to copy")
	}
	if err := m.copyFn(c.Emails[i]); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		return m.flash("Could not copy to clipboard")
	}
	return m.flash("Copied " + c.Emails[i])
}

func (m appModel) mail() (tea.Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok || len(c.Emails) == 0 {
		return m, nil
	}
	if err := m.openFn("mailto:" + c.Emails[0]); err != nil {
		m.logger.Warn("opening mail client failed", "error", err)
	}
	return m, nil
}

func (m appModel) export() (tea.Model, tea.Cmd) {
	if m.exporter == nil || !m.hasResults() {
		return m, nil
	}
	exporter := m.exporter
	criteria := m.state.Criteria
	colleges := m.state.Colleges
	return m, func() tea.Msg {
		res, err := exporter.Export(context.Background(), criteria, colleges)
		return exportDoneMsg{result: res, err: err}
	}
}

// flash shows a transient notice in the status bar.
func (m appModel) flash(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// layout sizes the body viewport to the space left under the form and
// refreshes its content.
func (m *appModel) layout() {
	if !m.ready {
		return
	}
	header := lipgloss.Height(m.viewHeader())
	height := max(m.height-header-1, 3)
	width := max(m.width, 20)

	if m.body.Width == 0 && m.body.Height == 0 {
		m.body = viewport.New(width, height)
	} else {
		m.body.Width = width
		m.body.Height = height
	}

	content, offsets := renderBody(m.state, m.theme, m.cursor, m.spinner.View(), width)
	m.offsets = offsets
	m.body.SetContent(content)
}

func (m appModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewHeader() + "\n" + m.body.View() + "\n" + m.viewStatusBar()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunForm launches the interactive harvest form and blocks until the user
// quits.
func RunForm(opts Options) error {
	m := newAppModel(opts, lipgloss.HasDarkBackground())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running form: %w", err)
	}
	return nil
}
