// Package journal keeps a local append-only record of manual gate overrides,
// so an operator still has an audit trail when the remote log call is lost.
package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"railcross"
)

const timeLayout = "2006-01-02 15:04:05"

// Repo is the SQLite-backed journal.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Append inserts a new record. Empty ID or OccurredAt are filled in.
func (r *Repo) Append(ctx context.Context, rec railcross.GateLogRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	} else {
		rec.OccurredAt = rec.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gate_journal (id, occurred_at, action, actor, synced)
		VALUES (?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.OccurredAt.Format(timeLayout),
		string(rec.Action),
		rec.Actor,
		rec.Synced,
	)
	return err
}

// MarkSynced flags a record as delivered to the remote audit log.
func (r *Repo) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE gate_journal SET synced = 1 WHERE id = ?`, id)
	return err
}

// List returns up to limit records, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]railcross.GateLogRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, occurred_at, action, actor, synced
		FROM gate_journal
		ORDER BY occurred_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]railcross.GateLogRecord, 0, limit)
	for rows.Next() {
		var (
			rec    railcross.GateLogRecord
			at     string
			action string
		)
		if err := rows.Scan(&rec.ID, &at, &action, &rec.Actor, &rec.Synced); err != nil {
			return nil, err
		}
		rec.Action = railcross.GateAction(action)
		if t, perr := time.Parse(timeLayout, at); perr == nil {
			rec.OccurredAt = t.UTC()
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
