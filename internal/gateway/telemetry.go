package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"railcross"
)

// TelemetryGateway wraps the live sensor poll.
type TelemetryGateway struct {
	client *Client
}

func NewTelemetryGateway(client *Client) *TelemetryGateway {
	return &TelemetryGateway{client: client}
}

// sensorPayload is the canonical flat wire shape of /get_sensor_data: one
// distance and one status field per sensor, with the track IR beam reporting
// obstruction instead of status.
type sensorPayload struct {
	S1Distance    *float64 `json:"s1_distance"`
	S1Status      string   `json:"s1_status"`
	S2Distance    *float64 `json:"s2_distance"`
	S2Obstruction string   `json:"s2_obstruction"`
	S3Distance    *float64 `json:"s3_distance"`
	S3Status      string   `json:"s3_status"`
}

// Fetch retrieves one snapshot. Missing fields render as "--" rather than
// failing the tick; the crossing hardware reports sensors independently.
func (g *TelemetryGateway) Fetch(ctx context.Context) (railcross.SensorSnapshot, error) {
	var p sensorPayload
	if err := g.client.do(ctx, http.MethodGet, "/get_sensor_data", nil, &p, true); err != nil {
		return railcross.SensorSnapshot{}, err
	}
	return railcross.SensorSnapshot{
		FetchedAt: time.Now(),
		Readings: []railcross.SensorReading{
			{ID: "s1", Label: "Approach ultrasonic", Value: distanceValue(p.S1Distance), Status: orPlaceholder(p.S1Status)},
			{ID: "s2", Label: "Track IR beam", Value: distanceValue(p.S2Distance), Status: orPlaceholder(p.S2Obstruction)},
			{ID: "s3", Label: "Departure ultrasonic", Value: distanceValue(p.S3Distance), Status: orPlaceholder(p.S3Status)},
		},
	}, nil
}

func distanceValue(v *float64) string {
	if v == nil {
		return "--"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orPlaceholder(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
