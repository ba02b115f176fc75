package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jegere/internal/storage"
	"github.com/valter-silva-au/jegere/pkg/models"
	"go.uber.org/zap"
)

// Dashboard panel indices.
const (
	panelShift = iota
	panelMetrics
	panelAlerts
	panelCount
)

// dashboardFeedSize is the number of recent events shown for the open shift.
const dashboardFeedSize = 8

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	shift       *shiftSnapshot
	metricsData *metricsSnapshot
	alerts      []alertSnapshot

	// State.
	loading bool
	err     error
}

type shiftSnapshot struct {
	id          string
	startedAt   time.Time
	elapsed     time.Duration
	events      int
	alerts      int
	avgPressure string
	recent      []string
}

type metricsSnapshot struct {
	shifts      int
	events      int
	alerts      int
	avgPressure string
	avgMood     string
	avgDuration float64
}

type alertSnapshot struct {
	severity string
	message  string
	time     string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	shift   *shiftSnapshot
	metrics *metricsSnapshot
	alerts  []alertSnapshot
	err     error
}

// logChangedMsg is sent when the event log changes on disk.
type logChangedMsg struct{}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	pressureLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	pressureMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	pressureHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelShift,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case logChangedMsg:
		return m, loadData

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.shift = msg.shift
		m.metricsData = msg.metrics
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" jg Service Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	shiftPanel := m.renderShiftPanel()
	metricsPanel := m.renderMetricsPanel()
	alertsPanel := m.renderAlertsPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		shiftPanel = m.applyPanelStyle(panelShift, shiftPanel, colWidth-4)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, shiftPanel, metricsPanel, alertsPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		shiftPanel = m.applyPanelStyle(panelShift, shiftPanel, panelWidth)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, shiftPanel, metricsPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderShiftPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Current shift"))
	b.WriteString("\n")

	if m.shift == nil {
		b.WriteString("  No active shift.")
		return b.String()
	}

	s := m.shift
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "ID", s.id))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "Started", s.startedAt.Format("15:04")))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "Elapsed", s.elapsed.Truncate(time.Minute)))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Events", s.events))
	b.WriteString(fmt.Sprintf("  %-10s %d\n", "Alerts", s.alerts))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "Pressure", styleForPressure(s.avgPressure).Render(s.avgPressure)))

	if len(s.recent) > 0 {
		b.WriteString("\n")
		for _, line := range s.recent {
			b.WriteString("  " + line + "\n")
		}
	}

	return b.String()
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Metrics (7d)"))
	b.WriteString("\n")

	if m.metricsData == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	md := m.metricsData
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Shifts", md.shifts))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Events", md.events))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Alerts", md.alerts))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Pressure", md.avgPressure))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Mood", md.avgMood))
	b.WriteString(fmt.Sprintf("  %-14s %.0f min\n", "Avg duration", md.avgDuration))

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

// styleForPressure colours an average pressure label on the 1-10 scale.
func styleForPressure(avg string) lipgloss.Style {
	var v float64
	if _, err := fmt.Sscanf(avg, "%g", &v); err != nil {
		return lipgloss.NewStyle()
	}
	switch {
	case v >= 8:
		return pressureHigh
	case v >= 5:
		return pressureMid
	default:
		return pressureLow
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	var result dataLoadedMsg

	if Archive != nil {
		shifts, err := Archive.List(models.RoleAll)
		if err != nil {
			result.err = fmt.Errorf("loading shifts: %w", err)
			return result
		}
		for _, s := range shifts {
			if s.IsActive {
				result.shift = snapshotShift(s)
				break
			}
		}
	}

	if MetricsCalc != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			shifts:      metrics.ShiftCount,
			events:      metrics.EventCount,
			alerts:      metrics.AlertCount,
			avgPressure: metrics.AvgPressure,
			avgMood:     metrics.AvgMood,
			avgDuration: metrics.AvgDurationMinutes,
		}
	}

	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}
		result.alerts = make([]alertSnapshot, 0, len(alerts))

		sort.SliceStable(alerts, func(i, j int) bool {
			return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
		})

		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

func snapshotShift(s models.ArchiveShift) *shiftSnapshot {
	snap := &shiftSnapshot{
		id:          s.ID,
		startedAt:   time.UnixMilli(s.StartTime),
		elapsed:     time.Duration(s.Duration) * time.Millisecond,
		events:      len(s.Events),
		alerts:      s.Alerts,
		avgPressure: s.AvgPressure,
	}
	from := len(s.Events) - dashboardFeedSize
	if from < 0 {
		from = 0
	}
	for i := len(s.Events) - 1; i >= from; i-- {
		ev := s.Events[i]
		snap.recent = append(snap.recent, fmt.Sprintf("%s %-7s %s",
			time.UnixMilli(ev.Timestamp).Format("15:04"), ev.Role, ev.Content))
	}
	return snap
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for the live shift",
	Long: `Launch an interactive terminal dashboard showing the open shift, recent
events, metrics and alerts. The view refreshes whenever the event log changes.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Archive == nil {
			return fmt.Errorf("archive service not initialized")
		}

		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if EventLogPath != "" {
			go func() {
				err := storage.WatchFile(ctx, EventLogPath, storage.DefaultWatchDebounce, func() {
					p.Send(logChangedMsg{})
				})
				if err != nil {
					Logger.Warn("event log watch stopped", zap.Error(err))
				}
			}()
		}

		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
