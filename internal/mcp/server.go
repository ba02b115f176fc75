// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the shift archive, replay and event logging as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/jegere/internal/core"
	"github.com/valter-silva-au/jegere/internal/observability"
	"github.com/valter-silva-au/jegere/pkg/models"
)

// Server wraps jg services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	archive     core.ArchiveService
	shiftMgr    core.ShiftManager
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server with the given service dependencies.
// metricsCalc and alertEngine may be nil.
func NewServer(archive core.ArchiveService, shiftMgr core.ShiftManager, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		archive:     archive,
		shiftMgr:    shiftMgr,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "jg", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listShiftsInput struct {
	Role string `json:"role,omitempty" jsonschema:"keep shifts in which this role participated (Owner, Manager, Chef, Service, System or All). Defaults to All."`
}

type shiftSummary struct {
	ID          string   `json:"id"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	DurationMin int64    `json:"duration_min"`
	Status      string   `json:"status"`
	EventCount  int      `json:"event_count"`
	Alerts      int      `json:"alerts"`
	AvgPressure string   `json:"avg_pressure"`
	AvgMood     string   `json:"avg_mood"`
	Roles       []string `json:"roles"`
}

type listShiftsOutput struct {
	Shifts []shiftSummary `json:"shifts"`
	Count  int            `json:"count"`
}

type shiftIDInput struct {
	ShiftID string `json:"shift_id" jsonschema:"required,the shift identifier"`
}

type eventOutput struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Time      string   `json:"time"`
	Pressure  *float64 `json:"pressure,omitempty"`
	Mood      *float64 `json:"mood,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Lifecycle string   `json:"lifecycle,omitempty"`
}

type getShiftOutput struct {
	Shift  shiftSummary  `json:"shift"`
	Events []eventOutput `json:"events"`
}

type replayShiftOutput struct {
	ShiftID   string        `json:"shift_id"`
	StartTime string        `json:"start_time,omitempty"`
	EndTime   string        `json:"end_time,omitempty"`
	Events    []eventOutput `json:"events"`
	Count     int           `json:"count"`
}

type logEventInput struct {
	Type     string   `json:"type" jsonschema:"required,event type (Log, Signal, Alert, Audio)"`
	Role     string   `json:"role" jsonschema:"required,author role (Owner, Manager, Chef, Service)"`
	Content  string   `json:"content" jsonschema:"required,free text of the event"`
	Pressure *float64 `json:"pressure,omitempty" jsonschema:"perceived pressure from 1 to 10"`
	Mood     *float64 `json:"mood,omitempty" jsonschema:"mood score from 1 to 10"`
	Tags     []string `json:"tags,omitempty" jsonschema:"free-form tags"`
}

type logEventOutput struct {
	Event   eventOutput `json:"event"`
	ShiftID string      `json:"shift_id,omitempty"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	ShiftCount         int            `json:"shift_count"`
	ClosedShifts       int            `json:"closed_shifts"`
	AutoClosedShifts   int            `json:"auto_closed_shifts"`
	ActiveShiftID      string         `json:"active_shift_id,omitempty"`
	EventCount         int            `json:"event_count"`
	AlertCount         int            `json:"alert_count"`
	AvgPressure        string         `json:"avg_pressure"`
	AvgMood            string         `json:"avg_mood"`
	AvgDurationMinutes float64        `json:"avg_duration_minutes"`
	ShiftsByRole       map[string]int `json:"shifts_by_role"`
	OldestShift        string         `json:"oldest_shift,omitempty"`
	NewestShift        string         `json:"newest_shift,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	ShiftID     string `json:"shift_id"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_shifts",
		Description: "List reconstructed shifts, newest first, with an optional role filter. Returns per-shift counters and averages.",
	}, s.handleListShifts)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_shift",
		Description: "Get one reconstructed shift with its chronological events.",
	}, s.handleGetShift)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "replay_shift",
		Description: "Replay a past shift: the events recorded with its shift id, oldest first.",
	}, s.handleReplayShift)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "log_event",
		Description: "Append a staff event (Log, Signal, Alert or Audio) to the event log. It is attached to the active shift if one is open.",
	}, s.handleLogEvent)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated shift metrics: shift counts, alerts, average pressure and mood, average duration.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (long-running shift, high pressure, alert bursts, auto-closed shifts).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListShifts(_ context.Context, _ *gomcp.CallToolRequest, input listShiftsInput) (*gomcp.CallToolResult, listShiftsOutput, error) {
	role := models.RoleAll
	if input.Role != "" {
		role = models.Role(input.Role)
		if !role.IsUserRole() && role != models.RoleSystem && role != models.RoleAll {
			return errorResult(fmt.Sprintf("invalid role %q: must be one of Owner, Manager, Chef, Service, System, All", input.Role)), listShiftsOutput{Shifts: []shiftSummary{}}, nil
		}
	}

	shifts, err := s.archive.List(role)
	if err != nil {
		return errorResult(fmt.Sprintf("listing shifts: %s", err)), listShiftsOutput{Shifts: []shiftSummary{}}, nil
	}

	out := listShiftsOutput{
		Shifts: make([]shiftSummary, len(shifts)),
		Count:  len(shifts),
	}
	for i, sh := range shifts {
		out.Shifts[i] = shiftToSummary(sh)
	}
	return nil, out, nil
}

func (s *Server) handleGetShift(_ context.Context, _ *gomcp.CallToolRequest, input shiftIDInput) (*gomcp.CallToolResult, getShiftOutput, error) {
	if input.ShiftID == "" {
		return errorResult("shift_id is required"), getShiftOutput{}, nil
	}

	sh, err := s.archive.Get(input.ShiftID)
	if err != nil {
		return errorResult(err.Error()), getShiftOutput{}, nil
	}

	return nil, getShiftOutput{Shift: shiftToSummary(*sh), Events: eventsToOutput(sh.Events)}, nil
}

func (s *Server) handleReplayShift(_ context.Context, _ *gomcp.CallToolRequest, input shiftIDInput) (*gomcp.CallToolResult, replayShiftOutput, error) {
	if input.ShiftID == "" {
		return errorResult("shift_id is required"), replayShiftOutput{}, nil
	}

	r, err := s.archive.Replay(input.ShiftID)
	if err != nil {
		return errorResult(fmt.Sprintf("replaying shift: %s", err)), replayShiftOutput{}, nil
	}
	if len(r.Events) == 0 {
		return errorResult(fmt.Sprintf("no events recorded for shift %s", input.ShiftID)), replayShiftOutput{}, nil
	}

	out := replayShiftOutput{
		ShiftID:   r.Shift.ID,
		StartTime: formatMillis(r.Shift.StartTime),
		Events:    eventsToOutput(r.Events),
		Count:     len(r.Events),
	}
	if r.Shift.EndTime != nil {
		out.EndTime = formatMillis(*r.Shift.EndTime)
	}
	return nil, out, nil
}

func (s *Server) handleLogEvent(_ context.Context, _ *gomcp.CallToolRequest, input logEventInput) (*gomcp.CallToolResult, logEventOutput, error) {
	if s.shiftMgr == nil {
		return errorResult("event logging not available"), logEventOutput{}, nil
	}
	if input.Content == "" {
		return errorResult("content is required"), logEventOutput{}, nil
	}

	ev := models.OperationalEvent{
		Type:    models.EventType(input.Type),
		Role:    models.Role(input.Role),
		Content: input.Content,
	}
	if !ev.Role.IsUserRole() {
		return errorResult(fmt.Sprintf("invalid role %q: must be one of Owner, Manager, Chef, Service", input.Role)), logEventOutput{}, nil
	}
	if input.Pressure != nil || input.Mood != nil || len(input.Tags) > 0 {
		ev.Metadata = &models.EventMetadata{Pressure: input.Pressure, Mood: input.Mood, Tags: input.Tags}
	}

	saved, err := s.shiftMgr.AddEvent(ev)
	if err != nil {
		return errorResult(err.Error()), logEventOutput{}, nil
	}

	return nil, logEventOutput{Event: eventToOutput(saved), ShiftID: saved.ShiftID}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := ParseSince(sinceStr, time.Now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	m, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		ShiftCount:         m.ShiftCount,
		ClosedShifts:       m.ClosedShifts,
		AutoClosedShifts:   m.AutoClosedShifts,
		ActiveShiftID:      m.ActiveShiftID,
		EventCount:         m.EventCount,
		AlertCount:         m.AlertCount,
		AvgPressure:        m.AvgPressure,
		AvgMood:            m.AvgMood,
		AvgDurationMinutes: m.AvgDurationMinutes,
		ShiftsByRole:       m.ShiftsByRole,
	}
	if out.ShiftsByRole == nil {
		out.ShiftsByRole = make(map[string]int)
	}
	if m.OldestShift != nil {
		out.OldestShift = m.OldestShift.Format(time.RFC3339)
	}
	if m.NewestShift != nil {
		out.NewestShift = m.NewestShift.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available"), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			ShiftID:     a.ShiftID,
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func shiftToSummary(s models.ArchiveShift) shiftSummary {
	status := string(models.ShiftClosed)
	if s.IsActive {
		status = string(models.ShiftActive)
	}
	roles := make([]string, len(s.Roles))
	for i, r := range s.Roles {
		roles[i] = string(r)
	}
	return shiftSummary{
		ID:          s.ID,
		StartTime:   formatMillis(s.StartTime),
		EndTime:     formatMillis(s.EndTime),
		DurationMin: s.Duration / int64(time.Minute/time.Millisecond),
		Status:      status,
		EventCount:  len(s.Events),
		Alerts:      s.Alerts,
		AvgPressure: s.AvgPressure,
		AvgMood:     s.AvgMood,
		Roles:       roles,
	}
}

func eventToOutput(ev models.OperationalEvent) eventOutput {
	out := eventOutput{
		ID:        ev.ID,
		Type:      string(ev.Type),
		Role:      string(ev.Role),
		Content:   ev.Content,
		Time:      formatMillis(ev.Timestamp),
		Lifecycle: string(ev.Lifecycle),
	}
	if ev.Metadata != nil {
		out.Pressure = ev.Metadata.Pressure
		out.Mood = ev.Metadata.Mood
		out.Tags = ev.Metadata.Tags
	}
	return out
}

func eventsToOutput(events []models.OperationalEvent) []eventOutput {
	out := make([]eventOutput, len(events))
	for i, ev := range events {
		out[i] = eventToOutput(ev)
	}
	return out
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{ShiftsByRole: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// ParseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
