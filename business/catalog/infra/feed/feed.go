// Package feed keeps catalog caches fresh from the backend's change stream.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/seller-scout/business/catalog/app"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/wsconn"
)

// Event types pushed by the backend.
const (
	EventProductUpdated   = "product.updated"
	EventCatalogRefreshed = "catalog.refreshed"
)

// Event is a single change notification.
type Event struct {
	Type      string `json:"type"`
	ProductID string `json:"productId,omitempty"`
}

type subscribeRequest struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics"`
}

// Feed subscribes to catalog changes and invalidates cached reads.
type Feed struct {
	client      *wsconn.Client
	invalidator app.Invalidator
	logger      logger.LoggerInterface

	// wasConnected marks that at least one session has been established,
	// so a later connect is a reconnect that may have missed events.
	wasConnected atomic.Bool
	events       metric.Int64Counter
}

// New creates a feed for url. token, when set, is sent as a bearer token.
func New(url, token string, invalidator app.Invalidator, log logger.LoggerInterface) (*Feed, error) {
	cfg := wsconn.DefaultConfig(url, "catalog-feed")
	if token != "" {
		cfg.Header = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	return NewWithConfig(cfg, invalidator, log)
}

// NewWithConfig creates a feed with explicit connection settings.
func NewWithConfig(cfg wsconn.Config, invalidator app.Invalidator, log logger.LoggerInterface) (*Feed, error) {
	client, err := wsconn.New(cfg)
	if err != nil {
		return nil, err
	}
	events, err := otel.Meter("catalog-feed").Int64Counter(
		"catalog_feed_events_total",
		metric.WithDescription("Change events received from the catalog feed"),
	)
	if err != nil {
		return nil, err
	}

	f := &Feed{
		client:      client,
		invalidator: invalidator,
		logger:      log,
		events:      events,
	}
	client.OnMessage(f.handle)
	client.OnStateChange(f.onState)
	return f, nil
}

// Start dials the feed. Reconnection after that is automatic.
func (f *Feed) Start(ctx context.Context) error {
	return f.client.Connect(ctx)
}

// Healthy reports whether the feed is connected.
func (f *Feed) Healthy(ctx context.Context) (bool, string) {
	if st := f.client.State(); st != wsconn.StateConnected {
		return false, string(st)
	}
	return true, ""
}

// Close stops the feed.
func (f *Feed) Close() error {
	return f.client.Close()
}

func (f *Feed) onState(state wsconn.State, err error) {
	ctx := context.Background()
	switch state {
	case wsconn.StateConnected:
		if f.wasConnected.Swap(true) {
			f.invalidator.InvalidateAll(ctx)
			f.logger.Info(ctx, "catalog feed reconnected, caches dropped")
		}
		if err := f.client.SendJSON(ctx, subscribeRequest{Type: "subscribe", Topics: []string{"products"}}); err != nil {
			f.logger.Warn(ctx, "catalog feed subscribe failed", "error", err)
		}
	case wsconn.StateReconnecting, wsconn.StateDisconnected:
		if err != nil {
			f.logger.Warn(ctx, "catalog feed connection lost", "state", string(state), "error", err)
		}
	}
}

func (f *Feed) handle(ctx context.Context, msg []byte) {
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		f.logger.Warn(ctx, "catalog feed: undecodable message", "error", err)
		return
	}
	f.events.Add(ctx, 1, metric.WithAttributes(attribute.String("type", ev.Type)))

	switch ev.Type {
	case EventProductUpdated:
		if ev.ProductID == "" {
			f.invalidator.InvalidateAll(ctx)
			return
		}
		f.invalidator.Invalidate(ctx, ev.ProductID)
		f.logger.Debug(ctx, "catalog product changed", "product_id", ev.ProductID)
	case EventCatalogRefreshed:
		f.invalidator.InvalidateAll(ctx)
		f.logger.Debug(ctx, "catalog refreshed")
	default:
		f.logger.Debug(ctx, "catalog feed: ignoring event", "type", ev.Type)
	}
}
