package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// SetDuplicate flags or unflags a user account as a duplicate.
func (c *Client) SetDuplicate(ctx context.Context, userID string, duplicate bool) error {
	if userID == "" {
		return validationError("Missing user id")
	}
	_, err := c.send(ctx, request{
		Method: http.MethodPut,
		Path:   Users.UpdatePath,
		Body: map[string]any{
			"userId":      FlexID(userID),
			"isDuplicate": duplicate,
		},
		Fallback: "Failed to update user",
	})
	return err
}

// Dashboard fetches platform totals for one of Periods.
func (c *Client) Dashboard(ctx context.Context, period string) (DashboardStats, error) {
	if period == "" {
		period = PeriodAll
	}
	data, err := c.send(ctx, request{
		Method:   http.MethodGet,
		Path:     "/dashboard/admin",
		Query:    url.Values{"period": {period}},
		Fallback: "Failed to load dashboard",
	})
	if err != nil {
		return DashboardStats{}, err
	}

	var env struct {
		Response json.RawMessage `json:"response"`
		Data     *struct {
			Response json.RawMessage `json:"response"`
		} `json:"data"`
	}
	if err := decode(data, &env); err != nil {
		return DashboardStats{}, err
	}
	raw := env.Response
	if len(raw) == 0 && env.Data != nil {
		raw = env.Data.Response
	}

	// Some deployments nest the figures under "display".
	var stats struct {
		DashboardStats
		Display *DashboardStats `json:"display"`
	}
	if err := decode(raw, &stats); err != nil {
		return DashboardStats{}, err
	}
	if stats.Display != nil {
		return *stats.Display, nil
	}
	return stats.DashboardStats, nil
}
