package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests on the slots feed endpoint to WebSockets
// and ties each connection's lifetime to its hub subscription.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds the ws server.
func NewServer(hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Server{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for the /ws/slots endpoint. A dropped
// connection unsubscribes immediately; there is no replay — clients fetch
// full slot state through the regular read path after connecting.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	subscriberID, events := s.hub.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(subscriberID, conn, events, s.writeTimeout, s.logger, func(id string) {
		s.hub.Unsubscribe(id)
		cancel()
	})

	go connection.Start(ctx)
}
