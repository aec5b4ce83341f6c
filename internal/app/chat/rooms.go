/*
Package chat contains the core logic for ephemeral chat rooms.

This file defines the Room record and the RoomRegistry owning all rooms. The registry
is mutated only by the Gateway event loop and the Lifecycle expiry path, both of which
execute on the same goroutine, so no locking is required.
*/
package chat

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"vaporchat/internal/pkg/randx"
)

// Room is a named, time-bounded group channel. ExpiresAt is fixed at creation and
// is never extended or shortened. The member set holds connection ids only; it is
// a non-owning reference into the ConnectionRegistry.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time

	members map[string]struct{}
}

// MemberCount returns the number of currently joined connections.
func (r *Room) MemberCount() int {
	return len(r.members)
}

// HasMember reports whether the connection is currently joined.
func (r *Room) HasMember(connectionID string) bool {
	_, ok := r.members[connectionID]
	return ok
}

// MemberIDs returns the ids of all currently joined connections.
func (r *Room) MemberIDs() []string {
	return lo.Keys(r.members)
}

// SecondsRemaining returns the whole seconds until expiry relative to now,
// clamped at zero once the expiry timestamp has passed.
func (r *Room) SecondsRemaining(now time.Time) int64 {
	remaining := r.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

// RoomSummary is one entry of the room-list snapshot, in wire shape.
type RoomSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
	TimeLeft  int64  `json:"timeLeft"`
}

// RoomRegistry owns the mapping from room id to room state. The clock is
// injectable so expiry windows can be exercised with simulated time.
type RoomRegistry struct {
	rooms map[string]*Room
	now   func() time.Time
}

// NewRoomRegistry returns an empty RoomRegistry. A nil now falls back to time.Now.
func NewRoomRegistry(now func() time.Time) *RoomRegistry {
	if now == nil {
		now = time.Now
	}
	return &RoomRegistry{
		rooms: make(map[string]*Room),
		now:   now,
	}
}

// Create allocates a fresh room with an empty member set and a fixed expiry of
// now + duration. Duration bounds are enforced by the caller; the registry does
// not re-validate. Destroyed room ids are never reused: ids are random and a
// generated id colliding with a live room is re-rolled.
func (rr *RoomRegistry) Create(name string, duration time.Duration) (*Room, error) {
	var id string
	for {
		var err error
		id, err = randx.RoomID()
		if err != nil {
			return nil, err
		}
		if _, exists := rr.rooms[id]; !exists {
			break
		}
	}

	createdAt := rr.now()
	room := &Room{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(duration),
		members:   make(map[string]struct{}),
	}

	rr.rooms[id] = room
	return room, nil
}

// Get returns the room, or nil when it does not exist (anymore).
func (rr *RoomRegistry) Get(roomID string) *Room {
	return rr.rooms[roomID]
}

// AddMember inserts the connection into the room's member set. Rejoining is a
// no-op, not a duplicate. A missing room is an expected race (the room may have
// expired between listing and joining) and is reported to the caller as ok=false.
func (rr *RoomRegistry) AddMember(roomID, connectionID string) bool {
	room, ok := rr.rooms[roomID]
	if !ok {
		return false
	}
	room.members[connectionID] = struct{}{}
	return true
}

// RemoveMember removes the connection from the room's member set. A missing room
// or membership is a no-op.
func (rr *RoomRegistry) RemoveMember(roomID, connectionID string) {
	if room, ok := rr.rooms[roomID]; ok {
		delete(room.members, connectionID)
	}
}

// RemoveConnectionEverywhere scans all rooms and removes the connection from each
// member set it belongs to, returning the ids of the affected rooms. A linear scan
// is a deliberate choice at this scale; a back-reference index (connection id to
// room ids) would replace it if many concurrent rooms were expected.
func (rr *RoomRegistry) RemoveConnectionEverywhere(connectionID string) []string {
	affected := make([]string, 0)
	for id, room := range rr.rooms {
		if _, ok := room.members[connectionID]; ok {
			delete(room.members, connectionID)
			affected = append(affected, id)
		}
	}
	sort.Strings(affected)
	return affected
}

// Destroy removes the room entirely. Destroying an already-removed room is a
// silent no-op; it returns whether a room was actually removed.
func (rr *RoomRegistry) Destroy(roomID string) bool {
	if _, ok := rr.rooms[roomID]; !ok {
		return false
	}
	delete(rr.rooms, roomID)
	return true
}

// ListSummaries computes a live snapshot of all rooms at call time. TimeLeft is
// derived from the wall clock on every call, never from a stored countdown, and
// never goes below zero. Entries are ordered by creation time for stable output.
func (rr *RoomRegistry) ListSummaries() []RoomSummary {
	now := rr.now()

	summaries := lo.MapToSlice(rr.rooms, func(id string, room *Room) RoomSummary {
		return RoomSummary{
			ID:        id,
			Name:      room.Name,
			UserCount: room.MemberCount(),
			TimeLeft:  room.SecondsRemaining(now),
		}
	})

	sort.Slice(summaries, func(i, j int) bool {
		a, b := rr.rooms[summaries[i].ID], rr.rooms[summaries[j].ID]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return summaries
}

// Len returns the number of live rooms.
func (rr *RoomRegistry) Len() int {
	return len(rr.rooms)
}
