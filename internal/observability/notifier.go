package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Notifier posts triggered alerts to an external channel.
type Notifier interface {
	Notify(ctx context.Context, alerts []Alert) error
}

type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier posting to a Slack incoming webhook.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify posts one message covering every alert. An empty slice sends nothing.
func (s *slackNotifier) Notify(ctx context.Context, alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(buildShiftMessage(alerts))
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// buildShiftMessage renders one section per shift, in the order the shifts
// first appear in alerts, followed by a severity tally.
func buildShiftMessage(alerts []Alert) slackMessage {
	var order []string
	byShift := make(map[string][]Alert)
	tally := make(map[AlertSeverity]int)
	for _, a := range alerts {
		if _, ok := byShift[a.ShiftID]; !ok {
			order = append(order, a.ShiftID)
		}
		byShift[a.ShiftID] = append(byShift[a.ShiftID], a)
		tally[a.Severity]++
	}

	summary := fmt.Sprintf("jg: %d service alert(s)", len(alerts))
	blocks := []slackBlock{{
		Type: "header",
		Text: &slackText{Type: "plain_text", Text: "jg service alerts"},
	}}

	for i, id := range order {
		if i > 0 {
			blocks = append(blocks, slackBlock{Type: "divider"})
		}
		var b strings.Builder
		fmt.Fprintf(&b, "*Shift %s*", shiftLabel(id))
		for _, a := range byShift[id] {
			fmt.Fprintf(&b, "\n%s `%s` %s _(%s)_",
				severityEmoji(a.Severity),
				a.Condition,
				a.Message,
				a.TriggeredAt.UTC().Format("2006-01-02 15:04 UTC"),
			)
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: b.String()},
		})
	}

	blocks = append(blocks, slackBlock{
		Type:     "context",
		Elements: []slackText{{Type: "mrkdwn", Text: severityTally(tally)}},
	})
	return slackMessage{Text: summary, Blocks: blocks}
}

func shiftLabel(id string) string {
	if id == "" {
		return "(unknown)"
	}
	if len(id) > 4 {
		return "#" + id[len(id)-4:]
	}
	return "#" + id
}

// severityTally renders counts as "high: 1 | medium: 2", most severe first.
func severityTally(tally map[AlertSeverity]int) string {
	severities := make([]AlertSeverity, 0, len(tally))
	for sev := range tally {
		severities = append(severities, sev)
	}
	sort.Slice(severities, func(i, j int) bool {
		return severityRank(severities[i]) < severityRank(severities[j])
	})
	parts := make([]string, 0, len(severities))
	for _, sev := range severities {
		parts = append(parts, fmt.Sprintf("%s: %d", sev, tally[sev]))
	}
	return strings.Join(parts, " | ")
}

func severityRank(sev AlertSeverity) int {
	switch sev {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return "\U0001f534"
	case SeverityMedium:
		return "\U0001f7e1"
	case SeverityLow:
		return "\U0001f535"
	default:
		return "❓"
	}
}
