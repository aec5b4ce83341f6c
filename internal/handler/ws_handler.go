/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which upgrades the HTTP connection,
assigns the opaque server-side session identifier, and initiates the client lifecycle.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"vaporchat/internal/app/chat"
	"vaporchat/internal/pkg/logx"
	"vaporchat/internal/pkg/randx"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Every accepted connection gets a fresh session id; no client-supplied identity is trusted.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sessionID := randx.SessionID()

		client := chat.NewClient(deps.Gateway, conn, sessionID)

		go client.WritePump()

		logx.Info("WebSocket connection established", "client_id", sessionID)

		deps.Gateway.Register(client)

		client.ReadPump()
	}
}
