package handlers

import (
	"taskflow/app"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequireWebSocketUpgrade rejects plain HTTP requests to the realtime
// endpoint before the upgrade handler runs.
func RequireWebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Realtime registers the connection with the hub and forwards every change
// event as a text frame until the client goes away. Missed events are not
// replayed; clients re-fetch full state on reconnect.
func Realtime(a *app.App) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		sub := a.Hub.Subscribe()
		defer a.Hub.Unsubscribe(sub)

		a.Logger.Info("client connected", "observers", a.Hub.Count())
		defer func() {
			a.Logger.Info("client disconnected", "observers", a.Hub.Count()-1)
		}()

		// The client never sends application data; reading only serves to
		// detect the close handshake.
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
			case event := <-sub.C:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
