package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wabble-server/internal/config"
	"github.com/vovakirdan/wabble-server/internal/core"
	"github.com/vovakirdan/wabble-server/internal/proto"
)

// NewServer builds the HTTP server: websocket endpoint, lobby listing,
// health and metrics.
func NewServer(reg *core.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/rooms", listRoomsHandler(reg))
	router.GET("/ws", gin.WrapH(NewWSHandler(reg, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// GET /api/rooms
// Returns the same ordered public-room list a websocket client receives in
// its handshake.
func listRoomsHandler(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, publicRoomSummaries(reg))
	}
}

func publicRoomSummaries(reg *core.Registry) []proto.RoomSummary {
	rooms := reg.ListPublic()
	summaries := make([]proto.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		s := r.Summarize()
		summaries = append(summaries, proto.RoomSummary{
			ID:                 string(s.ID),
			Name:               s.Name,
			Index:              s.Index,
			CurrentConnections: s.CurrentConnections,
			MaxConnections:     s.MaxConnections,
		})
	}
	return summaries
}
