package ws

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/realtime"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
	"github.com/vitrinhq/vitrin/internal/tenant"
)

// Hub fans the resolved tenant's change events out to storefront browsers so
// they can refresh content without polling.
type Hub struct {
	feed realtime.Feed
}

func NewHub(feed realtime.Feed) *Hub {
	return &Hub{feed: feed}
}

// ServeStorefront streams the resolved tenant's change events over a
// WebSocket. The subscription is scoped by the hostname resolution, never by
// client input, so a connection can only ever see its own shop's events.
func (h *Hub) ServeStorefront(w http.ResponseWriter, r *http.Request) {
	res, ok := middleware.ResolutionFromContext(r.Context())
	if !ok || res.Kind != tenant.KindTenant {
		http.Error(w, "no tenant for host", http.StatusNotFound)
		return
	}
	tenantID := res.TenantID()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	events, cleanup, err := h.feed.Subscribe(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case ev, evOK := <-events:
			if !evOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			payload, marshalErr := json.Marshal(ev)
			if marshalErr != nil {
				log.Warn().Err(marshalErr).Msg("websocket marshal event")
				continue
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, payload); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
