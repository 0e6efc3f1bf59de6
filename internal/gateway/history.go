package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"railcross"
)

// HistoryGateway wraps the event-log retrieval.
type HistoryGateway struct {
	client *Client
}

func NewHistoryGateway(client *Client) *HistoryGateway {
	return &HistoryGateway{client: client}
}

// historyRow is the wire shape of one /history entry. Hardware-reported rows
// carry a source instead of a user.
type historyRow struct {
	Time   string `json:"time"`
	Sensor string `json:"sensor"`
	Value  any    `json:"value"`
	Status string `json:"status"`
	User   string `json:"user"`
	Source string `json:"source"`
}

// Fetch returns the remote event log in the order the server sends it,
// newest first. Rows are fetched fresh on every call, never cached.
func (g *HistoryGateway) Fetch(ctx context.Context) ([]railcross.HistoryRecord, error) {
	var rows []historyRow
	if err := g.client.do(ctx, http.MethodGet, "/history", nil, &rows, true); err != nil {
		return nil, err
	}
	out := make([]railcross.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, railcross.HistoryRecord{
			Time:   row.Time,
			Sensor: row.Sensor,
			Value:  cellValue(row.Value),
			Status: row.Status,
			Actor:  actorLabel(row.User, row.Source),
		})
	}
	return out, nil
}

// actorLabel prefers the acting user, then the reporting source.
func actorLabel(user, source string) string {
	if user != "" {
		return user
	}
	if source != "" {
		return source
	}
	return "-"
}

// cellValue renders the mixed-type value column ("Clear", 12.5, absent).
func cellValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
