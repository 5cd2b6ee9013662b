package server

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
	"github.com/vovakirdan/roomcast/internal/config"
)

// NewServer builds the HTTP server: the WebSocket endpoint carrying the
// chat protocol plus a small read-only HTTP surface.
func NewServer(dir *chat.Directory, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())

	router.GET("/healthz", healthHandler)
	router.GET("/api/rooms", listRoomsHandler(dir))
	router.GET("/ws", gin.WrapH(NewWSHandler(dir, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
