package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/soundmesh/sonosws/internal/sonos/transport"
	"github.com/soundmesh/sonosws/internal/sonos/wire"
)

// DefaultAPIKey is the well-known key accepted by the player's local API.
// Sonos validates only its presence for local connections.
const DefaultAPIKey = "123e4567-e89b-12d3-a456-426655440000"

// discoveryURL builds the local info endpoint for a player IP.
func discoveryURL(playerIP string) string {
	return fmt.Sprintf("https://%s:1443/api/v1/players/local/info", playerIP)
}

// fetchDiscoveryInfo resolves the connection parameters (playerId,
// householdId, websocketUrl) from the player's local info endpoint.
func fetchDiscoveryInfo(ctx context.Context, httpClient *http.Client, url, apiKey string) (*wire.DiscoveryInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}
	req.Header.Set(transport.APIKeyHeader, apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDiscoveryFailed, resp.StatusCode)
	}

	var info wire.DiscoveryInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrDiscoveryFailed, err)
	}
	if info.WebsocketURL == "" || info.PlayerID == "" || info.HouseholdID == "" {
		return nil, fmt.Errorf("%w: response missing connection parameters", ErrDiscoveryFailed)
	}
	return &info, nil
}
