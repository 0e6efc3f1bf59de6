// Package app ties the session store, router, gateways, view, and journal
// into the user-facing flows: login, signup, logout, gate overrides, and the
// global unauthorized escalation.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"railcross"
	"railcross/internal/gateway"
	"railcross/internal/logger"
	"railcross/internal/nav"
	"railcross/internal/session"
	"railcross/internal/view"
)

// Authenticator is the slice of the auth gateway the flows use.
type Authenticator interface {
	Login(ctx context.Context, in gateway.LoginInput) (railcross.Session, error)
	Signup(ctx context.Context, in gateway.SignupInput) error
}

// GateReporter delivers gate overrides to the remote audit log.
type GateReporter interface {
	Log(ctx context.Context, action railcross.GateAction, user string) error
}

// Journal is the local gate-override record.
type Journal interface {
	Append(ctx context.Context, rec railcross.GateLogRecord) error
	MarkSynced(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]railcross.GateLogRecord, error)
}

// Deps carries the app's collaborators.
type Deps struct {
	Store   *session.Store
	Router  *nav.Router
	Auth    Authenticator
	Gate    GateReporter
	Journal Journal
	View    view.Binder
	Log     *logger.Logger
}

type App struct {
	store   *session.Store
	router  *nav.Router
	auth    Authenticator
	gate    GateReporter
	journal Journal
	view    view.Binder
	log     *logger.Logger
}

func New(d Deps) *App {
	return &App{
		store:   d.Store,
		router:  d.Router,
		auth:    d.Auth,
		gate:    d.Gate,
		journal: d.Journal,
		view:    d.View,
		log:     d.Log,
	}
}

// Login runs the credential exchange. On success the session is populated and
// the client lands on the dashboard; on any failure the message stays inline
// and the location does not move.
func (a *App) Login(ctx context.Context, email, password string) error {
	a.view.Status(railcross.PanelLogin, view.StatusPending, "Verifying credentials...")

	sess, err := a.auth.Login(ctx, gateway.LoginInput{Email: email, Password: password})
	if err != nil {
		a.view.Status(railcross.PanelLogin, view.StatusFailure, failureText(err, "Login failed"))
		return err
	}

	a.store.Set(sess)
	a.view.Status(railcross.PanelLogin, view.StatusSuccess, "Success! Redirecting...")
	a.router.Navigate(railcross.PanelDashboard.Fragment())
	return nil
}

// Signup registers a new account. Validation problems never reach the wire;
// success routes back to the login panel.
func (a *App) Signup(ctx context.Context, in gateway.SignupInput) error {
	if err := a.auth.Signup(ctx, in); err != nil {
		a.view.Status(railcross.PanelSignup, view.StatusFailure, failureText(err, "Signup failed"))
		return err
	}
	a.view.Status(railcross.PanelSignup, view.StatusSuccess, "Account created! Please login.")
	a.router.Navigate(railcross.PanelLogin.Fragment())
	return nil
}

// Logout drops the session and routes to the login panel. The order matters:
// the store must be clear before the transition's access check re-runs. The
// transition itself stops any running poll. No confirmation is ever asked.
func (a *App) Logout() {
	a.store.Clear()
	a.router.Navigate(railcross.PanelLogin.Fragment())
}

// ForceLogout is the global consequence of any unauthorized gateway response,
// wired as the client's 401 hook. The store is cleared synchronously; the
// redirect runs off the caller's goroutine because a poll tick may be the one
// escalating and the navigation it triggers stops that same poll.
func (a *App) ForceLogout() {
	a.store.Clear()
	go a.router.Navigate(railcross.PanelLogin.Fragment())
}

// ForceGate applies a manual override: the gate display flips immediately,
// the action lands in the local journal, and the remote log call is
// fire-and-forget. A lost log call is logged, never surfaced.
func (a *App) ForceGate(ctx context.Context, action railcross.GateAction) error {
	if !action.Valid() {
		a.view.Status(railcross.PanelDashboard, view.StatusFailure, "Unknown gate action.")
		return &gateway.Failure{Category: gateway.CategoryValidation, Message: "unknown gate action"}
	}

	actor := "Unknown"
	if s, ok := a.store.Get(); ok && s.Name != "" {
		actor = s.Name
	}

	a.view.RenderGate(action)

	rec := railcross.GateLogRecord{
		ID:         uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Action:     action,
		Actor:      actor,
	}
	if err := a.journal.Append(ctx, rec); err != nil {
		a.log.Warnw("gate_journal_append_failed", "err", err)
	}

	go a.reportGate(rec)
	return nil
}

func (a *App) reportGate(rec railcross.GateLogRecord) {
	ctx := context.Background()
	if err := a.gate.Log(ctx, rec.Action, rec.Actor); err != nil {
		a.log.Warnw("gate_log_not_delivered", "action", rec.Action, "err", err)
		return
	}
	if err := a.journal.MarkSynced(ctx, rec.ID); err != nil {
		a.log.Warnw("gate_journal_mark_failed", "id", rec.ID, "err", err)
	}
}

// Audit renders the local override journal.
func (a *App) Audit(ctx context.Context, limit int) error {
	rows, err := a.journal.List(ctx, limit)
	if err != nil {
		a.view.Status(railcross.PanelDashboard, view.StatusFailure, "Failed to read local journal.")
		return err
	}
	a.view.RenderAudit(rows)
	return nil
}

// failureText picks the inline message for a failed call, keeping the
// "unreachable" wording distinct from an explicit denial.
func failureText(err error, fallback string) string {
	f, ok := gateway.AsFailure(err)
	if !ok {
		return fallback
	}
	switch f.Category {
	case gateway.CategoryUnreachable:
		return "Server connection failed."
	case gateway.CategoryValidation, gateway.CategoryRejected:
		if f.Message != "" {
			return f.Message
		}
	}
	return fallback
}
