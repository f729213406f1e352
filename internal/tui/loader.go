package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/nepcollege/internal/form"
	"github.com/amishk599/nepcollege/internal/model"
)

// ErrCancelled is returned when the user interrupts a running harvest.
var ErrCancelled = errors.New("cancelled")

type loaderModel struct {
	label     string
	harvestFn func(ctx context.Context) (model.HarvestResult, error)
	timeout   time.Duration
	spinner   spinner.Model
	statusIdx int
	result    model.HarvestResult
	err       error
	done      bool
}

type loaderStatusMsg struct{}

type loaderDoneMsg struct {
	result model.HarvestResult
	err    error
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doHarvest(), m.spinner.Tick, m.nextStatus())
}

func (m loaderModel) doHarvest() tea.Cmd {
	harvestFn, timeout := m.harvestFn, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := harvestFn(ctx)
		return loaderDoneMsg{result: res, err: err}
	}
}

func (m loaderModel) nextStatus() tea.Cmd {
	return tea.Tick(form.StatusInterval, func(time.Time) tea.Msg {
		return loaderStatusMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loaderDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case loaderStatusMsg:
		m.statusIdx = (m.statusIdx + 1) % len(form.StatusMessages)
		return m, m.nextStatus()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Harvesting %s... %s\n", m.spinner.View(), m.label, form.StatusMessages[m.statusIdx])
}

// RunLoader shows a spinner on stderr while harvestFn runs. It renders
// inline (no alt screen) so stdout stays clean for CSV or JSON output.
func RunLoader(label string, timeout time.Duration, harvestFn func(ctx context.Context) (model.HarvestResult, error)) (model.HarvestResult, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := loaderModel{
		label:     label,
		harvestFn: harvestFn,
		timeout:   timeout,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return model.HarvestResult{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
