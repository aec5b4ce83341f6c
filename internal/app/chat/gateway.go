/*
Package chat contains the core logic for ephemeral chat rooms.

This file defines the Gateway, the single event loop that owns both registries.
Every command, disconnection, timer fire, and snapshot request is serialized
through its channels and runs to completion before the next one is picked up,
which is why the registries carry no locks.
*/
package chat

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"vaporchat/internal/pkg/errs"
	"vaporchat/internal/pkg/logx"
)

const (
	// MinRoomDurationMinutes is the shortest accepted room lifetime.
	MinRoomDurationMinutes = 1

	// MaxRoomDurationMinutes is the longest accepted room lifetime.
	MaxRoomDurationMinutes = 60

	// MinDisplayNameLength is the minimum display name length, in runes, after trimming.
	MinDisplayNameLength = 2

	// expiredChannelBuffer absorbs timer fires while the loop is busy so the
	// AfterFunc goroutines do not stall.
	expiredChannelBuffer = 16
)

// inboundFrame pairs a raw client frame with the connection it arrived on.
type inboundFrame struct {
	client *Client
	data   []byte
}

// summariesRequest is an ask from outside the loop (the REST listing) answered
// with a room-list snapshot.
type summariesRequest struct {
	reply chan []RoomSummary
}

// Gateway routes inbound commands to registry mutations and fans out the
// resulting events to one, many, or all connections.
type Gateway struct {
	conns     *ConnectionRegistry
	rooms     *RoomRegistry
	lifecycle *Lifecycle

	// clients holds the delivery endpoint of every live connection, keyed by session id.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	expired    chan string
	asks       chan summariesRequest

	stop chan struct{}
	done chan struct{}

	validate *validator.Validate
	now      func() time.Time
	logger   zerolog.Logger
}

// NewGateway constructs a Gateway with real wall-clock time. Run must be started
// on its own goroutine before clients are registered.
func NewGateway() *Gateway {
	return newGateway(time.Now)
}

// newGateway allows tests to inject a simulated clock.
func newGateway(now func() time.Time) *Gateway {
	expired := make(chan string, expiredChannelBuffer)

	return &Gateway{
		conns:      NewConnectionRegistry(),
		rooms:      NewRoomRegistry(now),
		lifecycle:  NewLifecycle(expired),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		expired:    expired,
		asks:       make(chan summariesRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		validate:   validator.New(),
		now:        now,
		logger:     logx.Logger().With().Str("component", "Gateway").Logger(),
	}
}

// Run is the main event loop. It owns all registry state; handlers run to
// completion one at a time, so no two mutations ever interleave.
func (gw *Gateway) Run() {
	defer close(gw.done)

	gw.logger.Info().Msg("Gateway event loop started.")

	for {
		select {
		case client := <-gw.register:
			gw.handleConnect(client)

		case client := <-gw.unregister:
			gw.handleDisconnect(client)

		case frame := <-gw.inbound:
			gw.handleFrame(frame.client, frame.data)

		case roomID := <-gw.expired:
			gw.handleExpiry(roomID)

		case req := <-gw.asks:
			req.reply <- gw.rooms.ListSummaries()

		case <-gw.stop:
			gw.logger.Info().Msg("Gateway event loop stopping.")
			return
		}
	}
}

// Shutdown stops the expiry timers, terminates the event loop, and closes every
// remaining client send queue so the write pumps drain and exit.
func (gw *Gateway) Shutdown() {
	gw.lifecycle.StopAll()

	select {
	case <-gw.stop:
	default:
		close(gw.stop)
	}
	<-gw.done

	for id, client := range gw.clients {
		delete(gw.clients, id)
		close(client.send)
	}

	gw.logger.Info().Msg("Gateway shutdown complete.")
}

// Register hands a freshly upgraded connection to the event loop.
func (gw *Gateway) Register(client *Client) {
	select {
	case gw.register <- client:
	case <-gw.stop:
	}
}

// Disconnect reports a closed connection to the event loop. Safe to call after
// shutdown; the notification is then dropped.
func (gw *Gateway) Disconnect(client *Client) {
	select {
	case gw.unregister <- client:
	case <-gw.stop:
	}
}

// Submit hands a raw inbound frame to the event loop.
func (gw *Gateway) Submit(client *Client, data []byte) {
	select {
	case gw.inbound <- inboundFrame{client: client, data: data}:
	case <-gw.stop:
	}
}

// Summaries returns a room-list snapshot computed inside the event loop.
func (gw *Gateway) Summaries() []RoomSummary {
	req := summariesRequest{reply: make(chan []RoomSummary, 1)}

	select {
	case gw.asks <- req:
		return <-req.reply
	case <-gw.stop:
		return []RoomSummary{}
	}
}

// handleConnect registers the connection and pushes the current room list to it.
func (gw *Gateway) handleConnect(client *Client) {
	gw.clients[client.ID] = client
	gw.conns.Register(client.ID)

	gw.logger.Info().
		Str("client_id", client.ID).
		Int("total_connections", len(gw.clients)).
		Msg("Connection registered.")

	client.Enqueue(Event{Type: EventRoomsList, Payload: gw.rooms.ListSummaries()})
}

// handleDisconnect removes the connection from every room it belonged to,
// notifies the former room-mates, unregisters it, and refreshes the room list.
func (gw *Gateway) handleDisconnect(client *Client) {
	current, ok := gw.clients[client.ID]
	if !ok || current != client {
		gw.logger.Warn().Str("client_id", client.ID).Msg("Disconnect for unknown or stale connection. Ignoring.")
		return
	}

	delete(gw.clients, client.ID)
	gw.conns.Unregister(client.ID)

	affected := gw.rooms.RemoveConnectionEverywhere(client.ID)
	for _, roomID := range affected {
		if room := gw.rooms.Get(roomID); room != nil {
			gw.notifyRoom(room, Event{Type: EventUserLeft, Payload: NoticePayload{Message: "A user disconnected"}}, client.ID)
		}
	}

	close(client.send)

	gw.logger.Info().
		Str("client_id", client.ID).
		Int("rooms_left", len(affected)).
		Int("total_connections", len(gw.clients)).
		Msg("Connection unregistered.")

	gw.broadcastRoomsList()
}

// handleFrame parses an inbound envelope and dispatches on the command type.
// Every error is terminal to this single command and surfaces only to the
// offending connection; registry state is never left half-mutated.
func (gw *Gateway) handleFrame(client *Client, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		gw.logger.Warn().Err(err).Str("client_id", client.ID).Msg("Client sent invalid JSON frame.")
		gw.sendError(client, errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch frame.Type {
	case CmdSetUsername:
		gw.handleSetUsername(client, frame.Payload)

	case CmdCreateRoom:
		gw.handleCreateRoom(client, frame.Payload)

	case CmdJoinRoom:
		gw.handleJoinRoom(client, frame.Payload)

	case CmdChatMessage:
		gw.handleChatMessage(client, frame.Payload)

	case CmdLeaveRoom:
		gw.handleLeaveRoom(client, frame.Payload)

	default:
		gw.logger.Warn().Str("cmd_type", string(frame.Type)).Str("client_id", client.ID).Msg("Client sent unsupported command type.")
		gw.sendError(client, errs.NewError(errs.ErrUnsupportedCommand))
	}
}

// handleSetUsername updates the connection's display name. Names shorter than
// MinDisplayNameLength after trimming are rejected to the requester.
func (gw *Gateway) handleSetUsername(client *Client, payload json.RawMessage) {
	var name string
	if err := json.Unmarshal(payload, &name); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrInvalidParams))
		return
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinDisplayNameLength {
		gw.sendError(client, errs.NewError(errs.ErrDisplayNameTooShort, MinDisplayNameLength))
		return
	}

	if !gw.conns.SetDisplayName(client.ID, name) {
		// Unregistered identity; defensive no-op, never an error to anyone else.
		gw.logger.Warn().Str("client_id", client.ID).Msg("setUsername for unknown connection ignored.")
		return
	}

	gw.logger.Info().Str("client_id", client.ID).Str("username", name).Msg("Display name updated.")
}

// handleCreateRoom validates name and duration, creates the room, arms its
// self-destruct timer, confirms to the creator, and auto-joins them.
func (gw *Gateway) handleCreateRoom(client *Client, payload json.RawMessage) {
	var input CreateRoomPayload
	if err := json.Unmarshal(payload, &input); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrInvalidParams))
		return
	}

	input.RoomName = strings.TrimSpace(input.RoomName)
	if input.RoomName == "" {
		gw.sendError(client, errs.NewError(errs.ErrRoomNameEmpty))
		return
	}

	if err := gw.validate.Struct(input); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrDurationOutOfRange, MinRoomDurationMinutes, MaxRoomDurationMinutes))
		return
	}

	duration := time.Duration(input.Duration) * time.Minute

	room, err := gw.rooms.Create(input.RoomName, duration)
	if err != nil {
		gw.logger.Error().Err(err).Msg("Failed to allocate room id.")
		gw.sendError(client, errs.NewError(errs.ErrUnknown))
		return
	}

	gw.lifecycle.Schedule(room.ID, duration)

	gw.logger.Info().
		Str("room_id", room.ID).
		Str("room_name", room.Name).
		Int("duration_minutes", input.Duration).
		Str("client_id", client.ID).
		Msg("Room created.")

	client.Enqueue(Event{Type: EventRoomCreated, Payload: RoomCreatedPayload{RoomID: room.ID, RoomName: room.Name}})

	// The creator joins their own room with zero additional commands.
	gw.joinRoom(client, room.ID)
}

// handleJoinRoom adds the connection to an existing room.
func (gw *Gateway) handleJoinRoom(client *Client, payload json.RawMessage) {
	var roomID string
	if err := json.Unmarshal(payload, &roomID); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrInvalidParams))
		return
	}

	gw.joinRoom(client, roomID)
}

// joinRoom is the shared join path for explicit joins and the creator auto-join.
// A missing room is the expected list/expiry race: one error event to the
// requester, no broadcast, no membership change.
func (gw *Gateway) joinRoom(client *Client, roomID string) {
	if !gw.rooms.AddMember(roomID, client.ID) {
		gw.sendError(client, errs.NewError(errs.ErrRoomNotFound))
		return
	}

	room := gw.rooms.Get(roomID)

	gw.logger.Info().Str("client_id", client.ID).Str("room_id", roomID).Msg("Client joined room.")

	client.Enqueue(Event{Type: EventJoinedRoom, Payload: JoinedRoomPayload{
		RoomID:   room.ID,
		RoomName: room.Name,
		TimeLeft: room.SecondsRemaining(gw.now()),
	}})

	gw.notifyRoom(room, Event{Type: EventUserJoined, Payload: NoticePayload{Message: "A new user joined the room"}}, client.ID)

	gw.broadcastRoomsList()
}

// handleChatMessage fans a message out to every current member of the room,
// sender included. Messages are transient: routed, never stored.
func (gw *Gateway) handleChatMessage(client *Client, payload json.RawMessage) {
	var input ChatMessagePayload
	if err := json.Unmarshal(payload, &input); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if strings.TrimSpace(input.Message) == "" {
		gw.sendError(client, errs.NewError(errs.ErrMessageEmpty))
		return
	}

	room := gw.rooms.Get(input.RoomID)
	if room == nil {
		gw.sendError(client, errs.NewError(errs.ErrRoomNotFound))
		return
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = gw.conns.Resolve(client.ID)
	}

	gw.notifyRoom(room, Event{Type: EventChatMessage, Payload: ChatEventPayload{
		Message:   input.Message,
		SenderID:  client.ID,
		Username:  username,
		Timestamp: gw.now().UnixMilli(),
	}}, "")

	gw.logger.Debug().
		Str("room_id", room.ID).
		Str("sender_id", client.ID).
		Int("recipients", room.MemberCount()).
		Msg("Chat message routed.")
}

// handleLeaveRoom removes the connection from the room and notifies the rest.
// Leaving a vanished room is silent, matching the remove-member no-op contract.
func (gw *Gateway) handleLeaveRoom(client *Client, payload json.RawMessage) {
	var roomID string
	if err := json.Unmarshal(payload, &roomID); err != nil {
		gw.sendError(client, errs.NewError(errs.ErrInvalidParams))
		return
	}

	room := gw.rooms.Get(roomID)
	if room == nil {
		return
	}

	gw.rooms.RemoveMember(roomID, client.ID)

	gw.logger.Info().Str("client_id", client.ID).Str("room_id", roomID).Msg("Client left room.")

	gw.notifyRoom(room, Event{Type: EventUserLeft, Payload: NoticePayload{Message: "A user left the room"}}, client.ID)

	gw.broadcastRoomsList()
}

// handleExpiry executes the self-destruct: terminal notice to every member,
// eviction, destruction, room-list refresh. A second fire for the same id finds
// no room and is a silent no-op, which is what makes destruction idempotent.
func (gw *Gateway) handleExpiry(roomID string) {
	room := gw.rooms.Get(roomID)
	if room == nil {
		gw.logger.Debug().Str("room_id", roomID).Msg("Expiry for already-destroyed room. Ignoring.")
		return
	}

	gw.notifyRoom(room, Event{Type: EventRoomExpired, Payload: NoticePayload{Message: "This room has self-destructed!"}}, "")

	for _, memberID := range room.MemberIDs() {
		gw.rooms.RemoveMember(roomID, memberID)
	}

	gw.rooms.Destroy(roomID)

	gw.logger.Info().Str("room_id", roomID).Str("room_name", room.Name).Msg("Room self-destructed.")

	gw.broadcastRoomsList()
}

// sendError reports a failed command to the offending connection only.
func (gw *Gateway) sendError(client *Client, customErr *errs.CustomError) {
	client.Enqueue(Event{Type: EventError, Payload: ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	}})
}

// notifyRoom delivers one event to every current member of the room except
// excludeID (empty string excludes nobody). Delivery is best-effort: a member
// whose connection is already gone, or whose queue is full, is skipped without
// affecting the others.
func (gw *Gateway) notifyRoom(room *Room, event Event, excludeID string) {
	data, err := json.Marshal(event)
	if err != nil {
		gw.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Error marshaling event for room fan-out.")
		return
	}

	for _, memberID := range room.MemberIDs() {
		if memberID == excludeID {
			continue
		}
		if client, ok := gw.clients[memberID]; ok {
			client.enqueueRaw(data)
		}
	}
}

// broadcastRoomsList pushes a fresh room-list snapshot to every connection.
// The room list is broadcast-refreshed on every membership or existence change
// rather than incrementally patched.
func (gw *Gateway) broadcastRoomsList() {
	event := Event{Type: EventRoomsList, Payload: gw.rooms.ListSummaries()}

	data, err := json.Marshal(event)
	if err != nil {
		gw.logger.Error().Err(err).Msg("Error marshaling room list for broadcast.")
		return
	}

	for _, client := range gw.clients {
		client.enqueueRaw(data)
	}
}
