package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// webhookRecorder is a test Slack endpoint that keeps the last request.
type webhookRecorder struct {
	calls       int
	body        []byte
	contentType string
	status      int
}

func newWebhook(t *testing.T, status int) (*webhookRecorder, *httptest.Server) {
	t.Helper()
	rec := &webhookRecorder{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls++
		rec.contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		rec.body = body
		w.WriteHeader(rec.status)
	}))
	t.Cleanup(srv.Close)
	return rec, srv
}

func (r *webhookRecorder) message(t *testing.T) slackMessage {
	t.Helper()
	var msg slackMessage
	if err := json.Unmarshal(r.body, &msg); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	return msg
}

func TestSlackNotifier_NoAlerts(t *testing.T) {
	rec, srv := newWebhook(t, http.StatusOK)

	n := NewSlackNotifier(srv.URL)
	if err := n.Notify(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.Notify(context.Background(), []Alert{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("webhook called %d times, want 0", rec.calls)
	}
}

func TestSlackNotifier_GroupsByShift(t *testing.T) {
	rec, srv := newWebhook(t, http.StatusOK)

	at := time.Date(2025, 1, 15, 22, 30, 0, 0, time.UTC)
	alerts := []Alert{
		{ID: "too-long-shift-a1b2", Condition: ConditionShiftTooLong, Severity: SeverityHigh, ShiftID: "shift-a1b2", Message: "open for 15 hours", TriggeredAt: at},
		{ID: "pressure-shift-c3d4", Condition: ConditionHighPressure, Severity: SeverityMedium, ShiftID: "shift-c3d4", Message: "average pressure 9.0", TriggeredAt: at},
		{ID: "burst-shift-a1b2", Condition: ConditionAlertBurst, Severity: SeverityMedium, ShiftID: "shift-a1b2", Message: "6 Alert events", TriggeredAt: at},
	}

	if err := NewSlackNotifier(srv.URL).Notify(context.Background(), alerts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", rec.contentType)
	}

	msg := rec.message(t)
	if msg.Text != "jg: 3 service alert(s)" {
		t.Errorf("Text = %q", msg.Text)
	}

	// header, shift a1b2, divider, shift c3d4, context
	if len(msg.Blocks) != 5 {
		t.Fatalf("got %d blocks, want 5", len(msg.Blocks))
	}
	wantTypes := []string{"header", "section", "divider", "section", "context"}
	for i, want := range wantTypes {
		if msg.Blocks[i].Type != want {
			t.Errorf("block %d type = %q, want %q", i, msg.Blocks[i].Type, want)
		}
	}

	first := msg.Blocks[1].Text.Text
	for _, want := range []string{"*Shift #a1b2*", ConditionShiftTooLong, ConditionAlertBurst, "2025-01-15 22:30 UTC"} {
		if !strings.Contains(first, want) {
			t.Errorf("first section missing %q:\n%s", want, first)
		}
	}
	if strings.Contains(first, ConditionHighPressure) {
		t.Errorf("first section should not contain the other shift's alert:\n%s", first)
	}
	if !strings.Contains(msg.Blocks[3].Text.Text, "*Shift #c3d4*") {
		t.Errorf("second section = %q", msg.Blocks[3].Text.Text)
	}

	tally := msg.Blocks[4].Elements
	if len(tally) != 1 || tally[0].Text != "high: 1 | medium: 2" {
		t.Errorf("tally = %+v, want high: 1 | medium: 2", tally)
	}
}

func TestSlackNotifier_ServerError(t *testing.T) {
	_, srv := newWebhook(t, http.StatusInternalServerError)

	err := NewSlackNotifier(srv.URL).Notify(context.Background(), []Alert{
		{ID: "a", Condition: ConditionAutoClosed, Severity: SeverityLow, ShiftID: "s1", Message: "m", TriggeredAt: time.Now()},
	})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should mention status 500", err)
	}
}

func TestSlackNotifier_CanceledContext(t *testing.T) {
	rec, srv := newWebhook(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSlackNotifier(srv.URL).Notify(ctx, []Alert{
		{ID: "a", Condition: ConditionAutoClosed, Severity: SeverityLow, ShiftID: "s1", Message: "m", TriggeredAt: time.Now()},
	})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if rec.calls != 0 {
		t.Errorf("webhook called %d times, want 0", rec.calls)
	}
}

func TestShiftLabel(t *testing.T) {
	tests := []struct{ id, want string }{
		{"", "(unknown)"},
		{"s1", "#s1"},
		{"7f3e9c20-0b1a-4d2e-9f00-5c8d2e11a4b7", "#a4b7"},
	}
	for _, tt := range tests {
		if got := shiftLabel(tt.id); got != tt.want {
			t.Errorf("shiftLabel(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestSeverityEmoji(t *testing.T) {
	tests := []struct {
		severity AlertSeverity
		emoji    string
	}{
		{SeverityHigh, "\U0001f534"},
		{SeverityMedium, "\U0001f7e1"},
		{SeverityLow, "\U0001f535"},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			msg := buildShiftMessage([]Alert{{ID: "x", Condition: "c", Severity: tt.severity, ShiftID: "s", Message: "m"}})
			if !strings.Contains(msg.Blocks[1].Text.Text, tt.emoji) {
				t.Errorf("section %q missing emoji for %s", msg.Blocks[1].Text.Text, tt.severity)
			}
		})
	}
}
