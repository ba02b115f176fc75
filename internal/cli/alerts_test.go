package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/jegere/internal/observability"
)

func sampleAlerts() []observability.Alert {
	return []observability.Alert{{
		ID:          "too-long-s-1",
		Condition:   observability.ConditionShiftTooLong,
		Severity:    observability.SeverityHigh,
		ShiftID:     "s-1",
		Message:     "shift s-1 has been open for more than 14 hours",
		TriggeredAt: time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
	}}
}

func TestAlertsCmd_NilEngine(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = nil

	if err := alertsCmd.RunE(alertsCmd, nil); err == nil {
		t.Fatal("expected error when AlertEngine is nil")
	}
}

func TestAlertsCmd_NoAlerts(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = &alertsMock{}

	out := captureOutput(alertsCmd)
	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No active alerts.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestAlertsCmd_ListsAlerts(t *testing.T) {
	orig, origNotify := AlertEngine, alertsNotify
	defer func() { AlertEngine, alertsNotify = orig, origNotify }()
	alertsNotify = false
	AlertEngine = &alertsMock{alerts: sampleAlerts()}

	out := captureOutput(alertsCmd)
	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"1 active alert(s)", "[HIGH] shift s-1", "2025-03-15 09:00 UTC"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestAlertsCmd_EvaluateError(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = &alertsMock{err: errors.New("boom")}

	if err := alertsCmd.RunE(alertsCmd, nil); err == nil || !strings.Contains(err.Error(), "evaluating alerts") {
		t.Fatalf("expected evaluate error, got %v", err)
	}
}

func TestAlertsCmd_Notify(t *testing.T) {
	orig, origNotifier, origNotify := AlertEngine, Notifier, alertsNotify
	defer func() { AlertEngine, Notifier, alertsNotify = orig, origNotifier, origNotify }()
	alertsNotify = true
	AlertEngine = &alertsMock{alerts: sampleAlerts()}
	n := &notifierMock{}
	Notifier = n

	out := captureOutput(alertsCmd)
	if err := alertsCmd.RunE(alertsCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.sent) != 1 || len(n.sent[0]) != 1 {
		t.Fatalf("expected one notification with one alert, got %+v", n.sent)
	}
	if !strings.Contains(out.String(), "Notification sent.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestAlertsCmd_NotifyDisabled(t *testing.T) {
	orig, origNotifier, origNotify := AlertEngine, Notifier, alertsNotify
	defer func() { AlertEngine, Notifier, alertsNotify = orig, origNotifier, origNotify }()
	alertsNotify = true
	AlertEngine = &alertsMock{alerts: sampleAlerts()}
	Notifier = nil

	captureOutput(alertsCmd)
	err := alertsCmd.RunE(alertsCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "notifications are not enabled") {
		t.Fatalf("expected notifications disabled error, got %v", err)
	}
}
