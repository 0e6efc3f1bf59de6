// Package nav maps location fragments to dashboard panels and drives every
// transition between them: access control, panel visibility, and the
// start/stop of the telemetry poll tied to the Sensors panel.
package nav

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"railcross"
	"railcross/internal/logger"
	"railcross/internal/poll"
	"railcross/internal/view"
)

// SessionState is the slice of the session store the router consults.
type SessionState interface {
	IsAuthenticated() bool
	Get() (railcross.Session, bool)
}

// PollControl is the slice of the polling controller the router drives.
type PollControl interface {
	Start(owner railcross.Panel, interval time.Duration, task poll.Task)
	StopIfRunning()
}

// TelemetryFetcher retrieves one live sensor snapshot.
type TelemetryFetcher interface {
	Fetch(ctx context.Context) (railcross.SensorSnapshot, error)
}

// HistoryFetcher retrieves the crossing event log.
type HistoryFetcher interface {
	Fetch(ctx context.Context) ([]railcross.HistoryRecord, error)
}

// Deps carries everything the router is wired with.
type Deps struct {
	Location     *Location
	Session      SessionState
	View         view.Binder
	Poll         PollControl
	Telemetry    TelemetryFetcher
	History      HistoryFetcher
	PollInterval time.Duration
	Log          *logger.Logger
}

const defaultPollInterval = 2 * time.Second

// Router is the state machine over (location fragment) x (session state).
// Transitions run one at a time under the router lock; the active panel is
// additionally published through an atomic so poll ticks and late gateway
// responses can check relevance without taking that lock.
type Router struct {
	mu sync.Mutex

	loc       *Location
	session   SessionState
	view      view.Binder
	poll      PollControl
	telemetry TelemetryFetcher
	history   HistoryFetcher
	interval  time.Duration
	log       *logger.Logger

	active   atomic.Int32
	resolved atomic.Bool
}

func NewRouter(d Deps) *Router {
	if d.PollInterval <= 0 {
		d.PollInterval = defaultPollInterval
	}
	r := &Router{
		loc:       d.Location,
		session:   d.Session,
		view:      d.View,
		poll:      d.Poll,
		telemetry: d.Telemetry,
		history:   d.History,
		interval:  d.PollInterval,
		log:       d.Log,
	}
	d.Location.Subscribe(r.onLocationChange)
	return r
}

// Navigate issues a location change, exactly as an external fragment edit
// would.
func (r *Router) Navigate(fragment string) {
	r.loc.Set(fragment)
}

// ActivePanel returns the currently visible panel. ok is false before the
// first navigation resolves.
func (r *Router) ActivePanel() (railcross.Panel, bool) {
	if !r.resolved.Load() {
		return railcross.PanelHome, false
	}
	return railcross.Panel(r.active.Load()), true
}

func (r *Router) onLocationChange(fragment string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transition(ResolvePanel(fragment))
}

func (r *Router) transition(target railcross.Panel) {
	// Unconditional: a stale timer must never survive a panel change, no
	// matter which panel comes next or how we got here.
	r.poll.StopIfRunning()

	if target.Access() == railcross.AccessProtected && !r.session.IsAuthenticated() {
		r.log.Infow("nav_redirect_login", "denied", target.String())
		target = railcross.PanelLogin
		// One synthetic hop. Login is public, so this cannot recurse.
		r.loc.Replace(target.Fragment())
	}

	if err := r.view.ShowPanel(target); err != nil {
		// Silent degrade: the surface has no such panel, land on Home.
		r.log.Warnw("nav_panel_unavailable", "panel", target.String(), "err", err)
		target = railcross.PanelHome
		r.loc.Replace(target.Fragment())
		_ = r.view.ShowPanel(target)
	}

	r.active.Store(int32(target))
	r.resolved.Store(true)
	r.enter(target)
}

// enter runs the target panel's entry hook.
func (r *Router) enter(p railcross.Panel) {
	switch p {
	case railcross.PanelDashboard:
		if s, ok := r.session.Get(); ok {
			r.view.RenderProfile(s)
		}
	case railcross.PanelSensors:
		r.poll.Start(railcross.PanelSensors, r.interval, r.telemetryTick)
	case railcross.PanelHistory:
		go r.loadHistory()
	}
}

// telemetryTick is the recurring Sensors task. A timer can fire once after
// navigation or logout, before cancellation is observed; the leading checks
// drop such a tick.
func (r *Router) telemetryTick(ctx context.Context) {
	if p, ok := r.ActivePanel(); !ok || p != railcross.PanelSensors {
		return
	}
	if !r.session.IsAuthenticated() {
		return
	}
	snap, err := r.telemetry.Fetch(ctx)
	if err != nil {
		// Ticks are independent; the next one simply retries.
		r.log.Warnw("telemetry_fetch_failed", "err", err)
		return
	}
	if p, ok := r.ActivePanel(); !ok || p != railcross.PanelSensors {
		// The response outlived the panel.
		return
	}
	r.view.RenderSensors(snap)
}

// loadHistory is the one-shot History entry fetch. It runs off the transition
// so navigation never blocks on the network.
func (r *Router) loadHistory() {
	rows, err := r.history.Fetch(context.Background())
	if p, ok := r.ActivePanel(); !ok || p != railcross.PanelHistory {
		return
	}
	if err != nil {
		r.log.Warnw("history_fetch_failed", "err", err)
		r.view.Status(railcross.PanelHistory, view.StatusFailure, "Failed to load history.")
		return
	}
	r.view.RenderHistory(rows)
}
