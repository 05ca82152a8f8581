package http

import (
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wabble-server/internal/config"
	"github.com/vovakirdan/wabble-server/internal/core"
	"github.com/vovakirdan/wabble-server/internal/metrics"
)

// WSHandler upgrades HTTP connections and runs one connection actor per
// accepted socket.
type WSHandler struct {
	registry *core.Registry
	cfg      config.Config
	log      *zerolog.Logger
}

// NewWSHandler builds the websocket endpoint handler.
func NewWSHandler(reg *core.Registry, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{registry: reg, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	guard := h.registry.AcquireConn()
	metrics.ActiveConnections.Inc()
	defer func() {
		guard.Release()
		metrics.ActiveConnections.Dec()
	}()

	actor := newSocketConn(conn, h.registry, h.cfg, h.log)
	actor.serve(r.Context())

	conn.Close(websocket.StatusNormalClosure, "closing")
}
