package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
)

// RoomResponse represents a room summary in API responses.
type RoomResponse struct {
	Name    string   `json:"name"`
	Default bool     `json:"default"`
	Members []string `json:"members"`
}

// listRoomsHandler answers directory queries over plain HTTP, the same
// snapshot a list_rooms request gets over the socket.
// GET /api/rooms
func listRoomsHandler(dir *chat.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := dir.ListRooms()

		rooms := make([]RoomResponse, 0, len(infos))
		for _, info := range infos {
			members := make([]string, 0, len(info.Members))
			for _, m := range info.Members {
				members = append(members, m.Nick)
			}
			rooms = append(rooms, RoomResponse{
				Name:    info.Name,
				Default: info.Default,
				Members: members,
			})
		}

		c.JSON(http.StatusOK, gin.H{"rooms": rooms})
	}
}

// RequestLogger creates a middleware that logs HTTP requests.
func RequestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
