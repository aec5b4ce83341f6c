/*
Package chat contains the core logic for ephemeral chat rooms.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle and its message communication loops
(ReadPump and WritePump). Clients never touch registry state themselves; every
inbound frame is handed to the Gateway event loop.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vaporchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Client represents one live connection. ID is the opaque, server-assigned
// session identifier, stable for the lifetime of the network connection.
type Client struct {
	// ID is the connection's session identifier.
	ID string

	// gateway receives every inbound frame and the disconnect notification.
	gateway *Gateway

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue events waiting to be sent to the client.
	// Closed by the gateway when the connection is unregistered.
	send chan []byte

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(gateway *Gateway, wsConn *websocket.Conn, sessionID string) *Client {
	clientLogger := logx.Logger().With().
		Str("client_id", sessionID).
		Logger()

	return &Client{
		ID:      sessionID,
		gateway: gateway,
		conn:    wsConn,
		send:    make(chan []byte, sendQueueSize),
		logger:  clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection and submits them to the
// gateway. It handles heartbeats (Pong) and reports the disconnect when the
// connection closes, for any reason; disconnection is an expected termination
// path, not an error.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.gateway.Submit(c, frameBytes)
	}
}

// cleanupOnDisconnect reports the disconnect to the gateway and closes the
// underlying connection.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.gateway.Disconnect(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued events from the send channel to the WebSocket
// connection and keeps the heartbeat alive with periodic Pings. It exits when
// the gateway closes the send channel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// Enqueue marshals an event and queues it for delivery. Only the gateway loop
// calls this, which keeps enqueue and channel close ordered.
func (c *Client) Enqueue(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event for client")
		return
	}

	c.enqueueRaw(data)
}

// enqueueRaw queues pre-marshaled bytes for delivery. Delivery is fire-and-forget:
// a full queue drops the event for this client and never stalls the event loop or
// delivery to other clients.
func (c *Client) enqueueRaw(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event")
	}
}
