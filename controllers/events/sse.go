package eventControllers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
)

var heartbeatInterval = 15 * time.Second

// StreamHandler is the SSE endpoint. One bus subscription per connection;
// the subscription and the heartbeat ticker are released when the client
// disconnects.
func StreamHandler(bus events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		ch, cancel := bus.Subscribe()
		defer cancel()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case evt, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent(evt.Type, evt.Data)
				return true
			case <-heartbeat.C:
				c.SSEvent("ping", time.Now().Unix())
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
