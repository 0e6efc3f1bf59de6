package railcross

import (
	"strings"
	"time"
)

// Roles issued by the crossing API.
const (
	RoleGovernment = "Government"
	RoleOfficer    = "Railway Officer"
)

// Session is the tab-scoped authenticated identity. Token presence is the
// single authority for "logged in"; the profile fields travel with it and are
// set and cleared together.
type Session struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	BadgeID   string    `json:"badgeId"`
	ExpiresAt time.Time `json:"-"`
}

// Initials returns the two-letter avatar label derived from the user name.
func (s Session) Initials() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return "??"
	}
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:2])
}

// AccessClass says whether entering a panel requires an active session.
type AccessClass int

const (
	AccessPublic AccessClass = iota
	AccessProtected
)

// Panel is one mutually-exclusive dashboard region, addressed by a
// single-segment location fragment.
type Panel int

const (
	PanelHome Panel = iota
	PanelLogin
	PanelSignup
	PanelDashboard
	PanelSensors
	PanelHistory
)

// Panels lists every known panel in display order.
func Panels() []Panel {
	return []Panel{PanelHome, PanelLogin, PanelSignup, PanelDashboard, PanelSensors, PanelHistory}
}

func (p Panel) String() string {
	switch p {
	case PanelHome:
		return "home"
	case PanelLogin:
		return "login"
	case PanelSignup:
		return "signup"
	case PanelDashboard:
		return "dashboard"
	case PanelSensors:
		return "sensors"
	case PanelHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Fragment returns the location fragment that addresses the panel.
func (p Panel) Fragment() string {
	return "#/" + p.String()
}

// Access returns the panel's access class.
func (p Panel) Access() AccessClass {
	switch p {
	case PanelDashboard, PanelSensors, PanelHistory:
		return AccessProtected
	default:
		return AccessPublic
	}
}

// Polls reports whether entering the panel starts a recurring telemetry task.
// The model allows zero or one per panel; only Sensors carries one today.
func (p Panel) Polls() bool {
	return p == PanelSensors
}

// SensorReading is one normalized live measurement.
type SensorReading struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

// Healthy reports whether the reading's status maps to the affirmative badge.
func (r SensorReading) Healthy() bool {
	return r.Status == "Active" || r.Status == "Clear"
}

// SensorSnapshot is the result of one telemetry poll tick.
type SensorSnapshot struct {
	Readings  []SensorReading `json:"readings"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// HistoryRecord is one read-only row of the crossing event log.
type HistoryRecord struct {
	Time   string `json:"time"`
	Sensor string `json:"sensor"`
	Value  string `json:"value"`
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// GateAction is a manual gate override command.
type GateAction string

const (
	GateOpen  GateAction = "OPEN"
	GateClose GateAction = "CLOSE"
)

func (a GateAction) Valid() bool {
	return a == GateOpen || a == GateClose
}

// GateLogRecord is one locally journaled gate override.
type GateLogRecord struct {
	ID         string     `json:"id"`
	OccurredAt time.Time  `json:"occurred_at"`
	Action     GateAction `json:"action"`
	Actor      string     `json:"actor"`
	Synced     bool       `json:"synced"`
}
