package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"railcross"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

// ConsoleBinder renders the dashboard as plain terminal output.
type ConsoleBinder struct {
	mu    sync.Mutex
	w     io.Writer
	color bool

	now func() time.Time
}

func NewConsoleBinder(w io.Writer) *ConsoleBinder {
	return &ConsoleBinder{w: w, color: true, now: time.Now}
}

// DisableColor turns off ANSI escapes, for dumb terminals and tests.
func (b *ConsoleBinder) DisableColor() {
	b.mu.Lock()
	b.color = false
	b.mu.Unlock()
}

func (b *ConsoleBinder) paint(code, s string) string {
	if !b.color {
		return s
	}
	return code + s + ansiReset
}

func (b *ConsoleBinder) printf(format string, args ...any) {
	fmt.Fprintf(b.w, format+"\n", args...)
}

// ShowPanel clears the way for the target panel. The console surface carries
// every known panel, so this never fails for members of the panel set.
func (b *ConsoleBinder) ShowPanel(p railcross.Panel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.printf("")
	b.printf("=== %s ===", strings.ToUpper(p.String()))
	return nil
}

func (b *ConsoleBinder) RenderProfile(s railcross.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.printf("[%s] %s <%s>", s.Initials(), s.Name, s.Email)
	b.printf("%s  ID: #%s", s.Role, s.BadgeID)
	b.printf("%s", b.now().Format("Monday, January 2, 2006"))
}

func (b *ConsoleBinder) RenderSensors(snap railcross.SensorSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range snap.Readings {
		badge := b.paint(ansiRed, "inactive")
		if r.Healthy() {
			badge = b.paint(ansiGreen, "active")
		}
		b.printf("%-3s %-22s value=%-8s status=%-10s [%s]", r.ID, r.Label, r.Value, r.Status, badge)
	}
	b.printf("updated %s", snap.FetchedAt.Format("15:04:05"))
}

func (b *ConsoleBinder) RenderHistory(rows []railcross.HistoryRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.printf("%-20s %-16s %-10s %-14s %s", "TIME", "SENSOR", "VALUE", "STATUS", "BY")
	for _, row := range rows {
		b.printf("%-20s %-16s %-10s %-14s %s", row.Time, row.Sensor, row.Value, row.Status, row.Actor)
	}
}

func (b *ConsoleBinder) RenderGate(action railcross.GateAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if action == railcross.GateOpen {
		b.printf("gate: %s", b.paint(ansiGreen, "OPEN (FORCED)"))
		return
	}
	b.printf("gate: %s", b.paint(ansiRed, "CLOSED (FORCED)"))
}

func (b *ConsoleBinder) RenderAudit(rows []railcross.GateLogRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.printf("%-20s %-7s %-20s %s", "TIME", "ACTION", "BY", "SYNCED")
	for _, row := range rows {
		b.printf("%-20s %-7s %-20s %v", row.OccurredAt.Format("2006-01-02 15:04:05"), row.Action, row.Actor, row.Synced)
	}
}

func (b *ConsoleBinder) Status(p railcross.Panel, level StatusLevel, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch level {
	case StatusSuccess:
		b.printf("%s: %s", p, b.paint(ansiGreen, message))
	case StatusFailure:
		b.printf("%s: %s", p, b.paint(ansiRed, message))
	default:
		b.printf("%s: %s", p, b.paint(ansiBlue, message))
	}
}
