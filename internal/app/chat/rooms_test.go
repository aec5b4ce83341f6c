package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaporchat/internal/pkg/randx"
)

// fakeClock is a manually advanced clock for exercising expiry windows without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestRoomRegistry_CreateFixesExpiry(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	rr := NewRoomRegistry(clock.Now)

	room, err := rr.Create("Test", 5*time.Minute)
	req.NoError(err)

	req.True(randx.IsValidRoomID(room.ID))
	req.Equal("Test", room.Name)
	req.Equal(clock.Now(), room.CreatedAt)
	req.Equal(clock.Now().Add(5*time.Minute), room.ExpiresAt)
	req.Equal(0, room.MemberCount())

	req.Same(room, rr.Get(room.ID))
	req.Equal(1, rr.Len())
}

func TestRoomRegistry_AddMemberIsIdempotent(t *testing.T) {
	req := require.New(t)
	rr := NewRoomRegistry(newFakeClock().Now)

	room, err := rr.Create("Test", time.Minute)
	req.NoError(err)

	req.True(rr.AddMember(room.ID, "conn-1"))
	req.True(rr.AddMember(room.ID, "conn-1"))

	req.Equal(1, room.MemberCount())
	req.True(room.HasMember("conn-1"))
}

func TestRoomRegistry_AddMemberMissingRoom(t *testing.T) {
	rr := NewRoomRegistry(newFakeClock().Now)
	require.False(t, rr.AddMember("room_zzzzzzz", "conn-1"))
}

func TestRoomRegistry_AddRemoveRoundTrip(t *testing.T) {
	req := require.New(t)
	rr := NewRoomRegistry(newFakeClock().Now)

	room, err := rr.Create("Test", time.Minute)
	req.NoError(err)
	req.True(rr.AddMember(room.ID, "conn-1"))

	before := room.MemberIDs()

	req.True(rr.AddMember(room.ID, "conn-2"))
	rr.RemoveMember(room.ID, "conn-2")

	req.ElementsMatch(before, room.MemberIDs())

	// Removing from a vanished room or a non-member is a no-op.
	rr.RemoveMember("room_zzzzzzz", "conn-1")
	rr.RemoveMember(room.ID, "ghost")
	req.Equal(1, room.MemberCount())
}

func TestRoomRegistry_RemoveConnectionEverywhere(t *testing.T) {
	req := require.New(t)
	rr := NewRoomRegistry(newFakeClock().Now)

	roomA, err := rr.Create("A", time.Minute)
	req.NoError(err)
	roomB, err := rr.Create("B", time.Minute)
	req.NoError(err)
	roomC, err := rr.Create("C", time.Minute)
	req.NoError(err)

	rr.AddMember(roomA.ID, "conn-1")
	rr.AddMember(roomB.ID, "conn-1")
	rr.AddMember(roomB.ID, "conn-2")

	affected := rr.RemoveConnectionEverywhere("conn-1")

	req.ElementsMatch([]string{roomA.ID, roomB.ID}, affected)
	req.False(roomA.HasMember("conn-1"))
	req.False(roomB.HasMember("conn-1"))
	req.True(roomB.HasMember("conn-2"))
	req.Equal(0, roomC.MemberCount())

	req.Empty(rr.RemoveConnectionEverywhere("conn-1"))
}

func TestRoomRegistry_DestroyIsIdempotent(t *testing.T) {
	req := require.New(t)
	rr := NewRoomRegistry(newFakeClock().Now)

	room, err := rr.Create("Test", time.Minute)
	req.NoError(err)

	req.True(rr.Destroy(room.ID))
	req.Nil(rr.Get(room.ID))
	req.Equal(0, rr.Len())

	// Second destroy is a silent no-op with the same observable effect.
	req.False(rr.Destroy(room.ID))
	req.Equal(0, rr.Len())
}

func TestRoomRegistry_ListSummariesIsLiveSnapshot(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	rr := NewRoomRegistry(clock.Now)

	room, err := rr.Create("Test", time.Minute)
	req.NoError(err)
	rr.AddMember(room.ID, "conn-1")

	summaries := rr.ListSummaries()
	req.Len(summaries, 1)
	req.Equal(room.ID, summaries[0].ID)
	req.Equal("Test", summaries[0].Name)
	req.Equal(1, summaries[0].UserCount)
	req.Equal(int64(60), summaries[0].TimeLeft)

	clock.Advance(25 * time.Second)
	req.Equal(int64(35), rr.ListSummaries()[0].TimeLeft)

	// Once the expiry timestamp has passed but before the expiry action fires,
	// the room is still listed with exactly zero seconds remaining.
	clock.Advance(40 * time.Second)
	summaries = rr.ListSummaries()
	req.Len(summaries, 1)
	req.Equal(int64(0), summaries[0].TimeLeft)
}

func TestRoomRegistry_ListSummariesOrderedByCreation(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	rr := NewRoomRegistry(clock.Now)

	first, err := rr.Create("First", time.Minute)
	req.NoError(err)
	clock.Advance(time.Second)
	second, err := rr.Create("Second", time.Minute)
	req.NoError(err)

	summaries := rr.ListSummaries()
	req.Len(summaries, 2)
	req.Equal(first.ID, summaries[0].ID)
	req.Equal(second.ID, summaries[1].ID)
}

func TestRoom_SecondsRemainingNeverNegative(t *testing.T) {
	req := require.New(t)
	clock := newFakeClock()
	rr := NewRoomRegistry(clock.Now)

	room, err := rr.Create("Test", time.Minute)
	req.NoError(err)

	clock.Advance(10 * time.Minute)
	req.Equal(int64(0), room.SecondsRemaining(clock.Now()))
}
