package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	readLimit    = 1024
)

// Connection pumps hub events to a single subscriber's websocket. Clients
// never send meaningful data on this socket; inbound frames are drained
// purely to detect disconnects and keep the connection alive.
type Connection struct {
	subscriberID string
	ws           *websocket.Conn
	events       <-chan []byte
	writeTimeout time.Duration
	logger       *zap.Logger
	onClose      func(subscriberID string)
}

// NewConnection builds the connection wrapper around an upgraded socket.
func NewConnection(subscriberID string, ws *websocket.Conn, events <-chan []byte, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	return &Connection{
		subscriberID: subscriberID,
		ws:           ws,
		events:       events,
		writeTimeout: writeTimeout,
		logger:       logger,
		onClose:      onClose,
	}
}

// Start launches the write pump and blocks on the read drain until the
// peer disconnects.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	c.readPump(ctx)
}

func (c *Connection) readPump(ctx context.Context) {
	defer c.cleanup()
	c.ws.SetReadLimit(readLimit)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Info("subscriber connection closed", zap.String("subscriber_id", c.subscriberID), zap.Error(err))
			return
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.events:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				_ = c.ws.Close()
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (c *Connection) cleanup() {
	_ = c.ws.Close()
	if c.onClose != nil {
		c.onClose(c.subscriberID)
	}
}
