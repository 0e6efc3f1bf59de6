package gateway

import (
	"context"
	"net/http"

	"railcross"
)

// GateCommandGateway reports manual gate overrides to the remote audit log.
type GateCommandGateway struct {
	client *Client
}

func NewGateCommandGateway(client *Client) *GateCommandGateway {
	return &GateCommandGateway{client: client}
}

type gateLogRequest struct {
	Action railcross.GateAction `json:"action"`
	User   string               `json:"user"`
}

// Log delivers one override. Callers treat it as fire-and-forget: the gate's
// visual state has already changed optimistically by the time this runs.
func (g *GateCommandGateway) Log(ctx context.Context, action railcross.GateAction, user string) error {
	if !action.Valid() {
		return &Failure{Category: CategoryValidation, Message: "unknown gate action"}
	}
	if user == "" {
		user = "Unknown"
	}
	return g.client.do(ctx, http.MethodPost, "/gate/log", gateLogRequest{Action: action, User: user}, nil, false)
}
