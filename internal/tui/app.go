// Package tui provides a terminal view of the scheduling dashboard that polls
// a running API.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-order-scheduler/internal/domain/dashboard"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2).
			Width(18)

	cardValueStyle = lipgloss.NewStyle().Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().Foreground(errorColor)
)

// DefaultRefreshInterval is how often the dashboard is re-fetched.
const DefaultRefreshInterval = 3 * time.Second

type fetcher interface {
	Dashboard(ctx context.Context) (*queries.DashboardView, error)
}

type dashboardMsg struct {
	view *queries.DashboardView
	err  error
}

type tickMsg time.Time

// App is the bubbletea model for the dashboard.
type App struct {
	client   fetcher
	interval time.Duration
	apiAddr  string

	view      *queries.DashboardView
	err       error
	updatedAt time.Time
	loading   bool

	spinner spinner.Model
	table   table.Model
	width   int
}

func New(apiAddr string, interval time.Duration) *App {
	return newApp(NewClient(apiAddr), apiAddr, interval)
}

func newApp(client fetcher, apiAddr string, interval time.Duration) *App {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Resource", Width: 22},
			{Title: "Scheduled", Width: 10},
			{Title: "In Progress", Width: 12},
		}),
		table.WithHeight(8),
	)

	return &App{
		client:   client,
		interval: interval,
		apiAddr:  apiAddr,
		loading:  true,
		spinner:  sp,
		table:    tbl,
	}
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.fetch())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return a, tea.Quit
		case "r":
			a.loading = true
			return a, a.fetch()
		}
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case dashboardMsg:
		a.loading = false
		a.err = msg.err
		if msg.err == nil {
			a.view = msg.view
			a.updatedAt = time.Now()
			a.table.SetRows(utilizationRows(msg.view.Utilization))
		}
		return a, a.scheduleTick()

	case tickMsg:
		a.loading = true
		return a, a.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder

	status := "live"
	if a.loading {
		status = a.spinner.View() + " refreshing"
	}
	b.WriteString(titleStyle.Render("Production Orders") + "  " + helpStyle.Render(a.apiAddr+"  "+status))
	b.WriteString("\n\n")

	if a.err != nil {
		b.WriteString(errorStyle.Render("error: "+a.err.Error()) + "\n\n")
	}
	if a.view == nil {
		b.WriteString(helpStyle.Render("waiting for first response..."))
		return b.String()
	}

	b.WriteString(summaryCards(a.view.Summary))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(statusBreakdown(a.view.StatusCounts)),
		" ",
		panelStyle.Render(a.table.View()),
	))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("updated %s  r: refresh  q: quit", a.updatedAt.Format("15:04:05"))))
	return b.String()
}

func (a *App) fetch() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultClientTimeout)
		defer cancel()
		view, err := client.Dashboard(ctx)
		return dashboardMsg{view: view, err: err}
	}
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func summaryCards(s dashboard.Summary) string {
	card := func(label string, value int, color lipgloss.Color) string {
		return cardStyle.Render(label + "\n" + cardValueStyle.Foreground(color).Render(fmt.Sprint(value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", s.Total, primaryColor),
		card("Scheduled", s.Scheduled, warningColor),
		card("In Progress", s.InProgress, primaryColor),
		card("Completed", s.Completed, successColor),
	)
}

func statusBreakdown(counts []dashboard.StatusCount) string {
	lines := make([]string, 0, len(counts)+1)
	lines = append(lines, cardValueStyle.Render("By status"))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%-12s %4d", c.Status, c.Count))
	}
	return strings.Join(lines, "\n")
}

func utilizationRows(rows []dashboard.Utilization) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, u := range rows {
		out = append(out, table.Row{u.ResourceName, fmt.Sprint(u.ScheduledCount), fmt.Sprint(u.InProgressCount)})
	}
	return out
}
