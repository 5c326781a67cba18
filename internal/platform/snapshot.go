package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/reconcile"
)

// gatewaySnapshot fetches authoritative tenant state from the gateway
// process over its internal JSON API. The gateway holds the live
// platform connection; this service never speaks the platform wire
// protocol itself.
type gatewaySnapshot struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewSnapshot(cfg config.Config, log *zap.Logger) reconcile.Snapshot {
	return &gatewaySnapshot{
		baseURL: cfg.GatewayBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.Named("platform"),
	}
}

func (s *gatewaySnapshot) ListLiveTenants(ctx context.Context) ([]string, error) {
	var out struct {
		Tenants []string `json:"tenants"`
	}
	if err := s.getJSON(ctx, "/v1/tenants", &out); err != nil {
		return nil, err
	}
	return out.Tenants, nil
}

func (s *gatewaySnapshot) ListMembers(ctx context.Context, tenantClientID string) ([]string, error) {
	var out struct {
		Members []string `json:"members"`
	}
	path := "/v1/tenants/" + url.PathEscape(tenantClientID) + "/members"
	if err := s.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

func (s *gatewaySnapshot) ListChannels(ctx context.Context, tenantClientID string) ([]string, error) {
	var out struct {
		Channels []string `json:"channels"`
	}
	path := "/v1/tenants/" + url.PathEscape(tenantClientID) + "/channels"
	if err := s.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Channels, nil
}

func (s *gatewaySnapshot) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("platform: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("platform: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform: %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("platform: %s: decode: %w", path, err)
	}
	return nil
}

var Module = fx.Module("platform",
	fx.Provide(NewSnapshot),
)
