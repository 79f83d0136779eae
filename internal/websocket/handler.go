package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a connection to the hub under sessionID and blocks until it closes.
// handle receives the inbound frames.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, userID uuid.UUID, handle func(*Client, []byte)) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		Handle:    handle,
	}
	client.Hub.Register(client)

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
