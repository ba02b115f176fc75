package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/jegere/pkg/models"
)

// ShiftReconstructor rebuilds shift sessions from a flat event log.
type ShiftReconstructor interface {
	// Reconstruct returns the shifts found in events, newest-opened first.
	// The input slice is not modified.
	Reconstruct(events []models.OperationalEvent) []models.ArchiveShift
}

// ReconstructorOptions configures a ShiftReconstructor. Zero values select
// the defaults: models.DefaultMarkers, auto-close on supersede, time.Now.
type ReconstructorOptions struct {
	Markers models.MarkerConfig
	Policy  models.SupersedePolicy
	Now     func() time.Time
}

type shiftReconstructor struct {
	markers models.MarkerConfig
	policy  models.SupersedePolicy
	now     func() time.Time
}

// NewShiftReconstructor creates a ShiftReconstructor. The returned value holds
// no per-call state and is safe for concurrent use.
func NewShiftReconstructor(opts ReconstructorOptions) ShiftReconstructor {
	r := &shiftReconstructor{
		markers: opts.Markers,
		policy:  opts.Policy,
		now:     opts.Now,
	}
	defaults := models.DefaultMarkers()
	if r.markers.Start == "" {
		r.markers.Start = defaults.Start
	}
	if r.markers.End == "" {
		r.markers.End = defaults.End
	}
	if r.policy == "" {
		r.policy = models.SupersedeAutoClose
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// shiftBuilder accumulates one shift during the scan.
type shiftBuilder struct {
	shift models.ArchiveShift
	seen  map[models.Role]bool
}

func newShiftBuilder(start models.OperationalEvent) *shiftBuilder {
	id := start.ShiftID
	if id == "" {
		id = start.ID
	}
	return &shiftBuilder{
		shift: models.ArchiveShift{
			ID:            id,
			StartTime:     start.Timestamp,
			StartEvent:    start,
			Events:        []models.OperationalEvent{},
			PressurePeaks: []float64{},
			MoodReadings:  []float64{},
			Roles:         []models.Role{},
		},
		seen: make(map[models.Role]bool),
	}
}

func (b *shiftBuilder) add(ev models.OperationalEvent) {
	s := &b.shift
	s.Events = append(s.Events, ev)
	if !b.seen[ev.Role] {
		b.seen[ev.Role] = true
		s.Roles = append(s.Roles, ev.Role)
	}
	if ev.Type == models.EventAlert {
		s.Alerts++
	}
	if p, ok := ev.Pressure(); ok && isFinite(p) {
		s.PressurePeaks = append(s.PressurePeaks, p)
	}
	if m, ok := ev.Mood(); ok && isFinite(m) {
		s.MoodReadings = append(s.MoodReadings, m)
	}
}

// finish closes the shift at end. emptyLabel is used for averages with no
// readings.
func (b *shiftBuilder) finish(end int64, emptyLabel string) models.ArchiveShift {
	s := b.shift
	s.EndTime = end
	s.Duration = end - s.StartTime
	s.AvgPressure = formatMean(s.PressurePeaks, emptyLabel)
	s.AvgMood = formatMean(s.MoodReadings, models.AvgNotAvailable)
	return s
}

func (r *shiftReconstructor) Reconstruct(events []models.OperationalEvent) []models.ArchiveShift {
	sorted := make([]models.OperationalEvent, 0, len(events))
	for _, ev := range events {
		if !ev.Type.Valid() {
			continue
		}
		sorted = append(sorted, ev)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	shifts := []models.ArchiveShift{}
	var current *shiftBuilder

	for _, ev := range sorted {
		if r.isStart(ev) {
			if current != nil && r.policy == models.SupersedeAutoClose {
				closed := current.finish(ev.Timestamp, models.AvgNotAvailable)
				closed.AutoClosed = true
				shifts = append(shifts, closed)
			}
			current = newShiftBuilder(ev)
		}

		if current == nil {
			continue
		}
		current.add(ev)

		if r.isEnd(ev) {
			shifts = append(shifts, current.finish(ev.Timestamp, models.AvgNotAvailable))
			current = nil
		}
	}

	if current != nil {
		active := current.finish(r.now().UnixMilli(), models.AvgActive)
		active.IsActive = true
		shifts = append(shifts, active)
	}

	for i, j := 0, len(shifts)-1; i < j; i, j = i+1, j-1 {
		shifts[i], shifts[j] = shifts[j], shifts[i]
	}
	return shifts
}

// isStart reports whether ev opens a shift. A structured lifecycle tag wins;
// untagged System events fall back to marker matching.
func (r *shiftReconstructor) isStart(ev models.OperationalEvent) bool {
	if ev.Type != models.EventSystem {
		return false
	}
	if ev.Lifecycle != "" {
		return ev.Lifecycle == models.LifecycleStart
	}
	return strings.Contains(ev.Content, r.markers.Start)
}

func (r *shiftReconstructor) isEnd(ev models.OperationalEvent) bool {
	if ev.Type != models.EventSystem {
		return false
	}
	if ev.Lifecycle != "" {
		return ev.Lifecycle == models.LifecycleEnd
	}
	return strings.Contains(ev.Content, r.markers.End)
}

// FilterShiftsByRole keeps the shifts in which role participated.
// models.RoleAll (or an empty role) keeps every shift.
func FilterShiftsByRole(shifts []models.ArchiveShift, role models.Role) []models.ArchiveShift {
	if role == "" || role == models.RoleAll {
		return shifts
	}
	result := []models.ArchiveShift{}
	for _, s := range shifts {
		if s.HasRole(role) {
			result = append(result, s)
		}
	}
	return result
}

// DefaultRoleFilter returns the archive filter a role sees by default:
// owners and managers see every shift, other staff only their own.
func DefaultRoleFilter(role models.Role) models.Role {
	switch role {
	case models.RoleOwner, models.RoleManager, "":
		return models.RoleAll
	default:
		return role
	}
}

// FormatAverage renders the mean of values with one decimal, rounding half
// away from zero. ok is false when values is empty.
func FormatAverage(values []float64) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := math.Round(sum/float64(len(values))*10) / 10
	return strconv.FormatFloat(mean, 'f', 1, 64), true
}

func formatMean(values []float64, emptyLabel string) string {
	if s, ok := FormatAverage(values); ok {
		return s
	}
	return emptyLabel
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
