// Package view is the presentation boundary. Binders only format and emit;
// every decision that matters is made upstream and arrives here as data.
package view

import "railcross"

// StatusLevel selects the color convention for inline status text.
type StatusLevel int

const (
	StatusPending StatusLevel = iota // neutral, operation in flight
	StatusSuccess                    // affirmative
	StatusFailure                    // destructive
)

// Binder receives display updates from the router and the flows around it.
// ShowPanel returns an error when the target surface does not exist, in which
// case the caller degrades to Home.
type Binder interface {
	ShowPanel(p railcross.Panel) error
	RenderProfile(s railcross.Session)
	RenderSensors(snap railcross.SensorSnapshot)
	RenderHistory(rows []railcross.HistoryRecord)
	RenderGate(action railcross.GateAction)
	RenderAudit(rows []railcross.GateLogRecord)
	Status(p railcross.Panel, level StatusLevel, message string)
}
