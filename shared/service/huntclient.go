// shared/service/huntclient.go
package service

import (
	"context"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

// HuntServiceClient talks to the hunt-api over HTTP.
type HuntServiceClient struct {
	apiClient *api.Client
}

func NewHuntClient(baseURL string) *HuntServiceClient {
	return &HuntServiceClient{
		apiClient: api.NewClient(baseURL, api.NewDefaultHTTPClient()),
	}
}

// NewHuntClientWith uses a caller-supplied api.Client (tests, authenticated clients).
func NewHuntClientWith(c *api.Client) *HuntServiceClient {
	return &HuntServiceClient{apiClient: c}
}

// GetScoreboard fetches the public scoreboard. The hunt-api persists rank changes
// and sends rank notifications as a side effect of building it.
func (c *HuntServiceClient) GetScoreboard(ctx context.Context) (*models.Scoreboard, error) {
	var sb models.Scoreboard
	if err := c.apiClient.Get(ctx, "/api/scoreboard", &sb); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard from hunt-api: %w", err)
	}
	return &sb, nil
}

// Health checks the hunt-api liveness endpoint.
func (c *HuntServiceClient) Health(ctx context.Context) error {
	if err := c.apiClient.Get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("hunt-api health check failed: %w", err)
	}
	return nil
}
