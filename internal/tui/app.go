// Package tui provides the interactive Bubble Tea dashboard for envel.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/envel/internal/advisor"
	"github.com/theirongolddev/envel/internal/analytics"
	"github.com/theirongolddev/envel/internal/ledger"
	"github.com/theirongolddev/envel/internal/model"
)

// Data is everything the dashboard renders, computed in one pass so the
// view itself stays pure.
type Data struct {
	Today       string
	Totals      ledger.Totals
	Funds       float64
	Periods     ledger.SpendingPeriods
	Limits      ledger.Limits
	Envelope    *model.DailyEnvelope
	SpendSeries []float64
	Buckets     []analytics.Bucket
	Goals       []model.SavingsGoal
	Suggestions map[string]advisor.Suggestion
	Anomalies   []ledger.Anomaly
}

// Loader produces a fresh Data snapshot. The command layer wires it to the
// store so the TUI itself never touches persistence.
type Loader func(ctx context.Context) (Data, error)

// SetupSaver persists the first-run setup values.
type SetupSaver func(endDate string, savingGoal float64) error

// DataLoadedMsg is sent when a load completes.
type DataLoadedMsg struct {
	Data Data
}

// LoadFailedMsg is sent when a load fails.
type LoadFailedMsg struct {
	Err error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	load      Loader
	saveSetup SetupSaver

	data   Data
	loaded bool
	err    error

	// First-run setup (huh form), shown when no budget period exists.
	// The typed values live behind a pointer so they survive the value
	// copies Bubble Tea makes of the model on every Update.
	needSetup bool
	setupForm *huh.Form
	setup     *setupValues
	setupErr  error

	width   int
	height  int
	spinner spinner.Model
}

// NewApp builds the dashboard. needSetup forces the first-run form.
func NewApp(load Loader, saveSetup SetupSaver, needSetup bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	app := App{
		load:      load,
		saveSetup: saveSetup,
		needSetup: needSetup,
		spinner:   sp,
	}
	if needSetup {
		app.setup = &setupValues{}
		app.setupForm = newSetupForm(app.setup)
	}
	return app
}

// setupValues backs the form inputs. Shared by pointer between the form and
// every copy of App.
type setupValues struct {
	date string
	goal string
}

func newSetupForm(v *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Budget period end date").
				Description("Usually your next payday (YYYY-MM-DD)").
				Value(&v.date),
			huh.NewInput().
				Title("Savings reserve").
				Description("Amount kept untouchable (0 for none)").
				Value(&v.goal),
		),
	)
}

// Init starts the spinner and the first data load.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.loadCmd(), tickCmd()}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		data, err := a.load(ctx)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		return DataLoadedMsg{Data: data}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if a.needSetup {
			break // the form consumes keys below
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "r":
			a.loaded = false
			return a, a.loadCmd()
		}
		return a, nil

	case DataLoadedMsg:
		a.data = msg.Data
		a.loaded = true
		a.err = nil
		return a, nil

	case LoadFailedMsg:
		a.err = msg.Err
		a.loaded = true
		return a, nil

	case tickMsg:
		return a, tea.Batch(a.loadCmd(), tickCmd())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.needSetup && a.setupForm != nil {
		form, cmd := a.setupForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			a.setupForm = f
		}
		switch a.setupForm.State {
		case huh.StateCompleted:
			return a.finishSetup()
		case huh.StateAborted:
			return a, tea.Quit
		}
		return a, cmd
	}

	return a, nil
}

func (a App) finishSetup() (tea.Model, tea.Cmd) {
	goal, err := model.ParseAmount(a.setup.goal)
	if a.setup.goal == "" {
		goal, err = 0, nil
	}
	if err != nil {
		a.setupErr = err
		a.setupForm = newSetupForm(a.setup)
		return a, a.setupForm.Init()
	}
	if err := a.saveSetup(a.setup.date, goal); err != nil {
		a.setupErr = err
		a.setupForm = newSetupForm(a.setup)
		return a, a.setupForm.Init()
	}
	a.needSetup = false
	a.setupErr = nil
	a.loaded = false
	return a, a.loadCmd()
}
