package orderControllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/JohnGabriel1998/Seven-Apparel-sub000/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderSocketHandler streams order events to the admin dashboard over a
// websocket. Each connection holds one bus subscription; both are torn down
// when the peer goes away.
func OrderSocketHandler(bus events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ch, cancel := bus.Subscribe()
		defer cancel()

		// Read loop only exists to notice the close.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if evt.Type != events.TypeOrderCreated && evt.Type != events.TypeOrderUpdated {
					continue
				}
				data, err := json.Marshal(evt)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}
}
