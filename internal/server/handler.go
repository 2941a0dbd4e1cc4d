package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// maxNameLength caps player names taken from the query string.
const maxNameLength = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections for development
		return true
	},
}

// ServeWs upgrades the request and attaches the connection to the hub.
// An optional ?name= is remembered until the client sends new_match.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		ID:   uuid.NewString(),
		Name: name,
	}
	log.WithField("remote", r.RemoteAddr).Debug("WebSocket upgraded")
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
