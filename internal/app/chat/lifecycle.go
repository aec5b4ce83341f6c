/*
Package chat contains the core logic for ephemeral chat rooms.

This file defines the Lifecycle, which enforces the self-destruct contract: exactly
one deferred timer per room, armed at creation and never rescheduled. When a timer
fires it hands the room id to the Gateway event loop over the expired channel; the
loop performs the actual notification, eviction, and destruction so that registry
state is only ever touched from one goroutine.
*/
package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vaporchat/internal/pkg/logx"
)

// Lifecycle schedules one self-destruct timer per room. A room's timer is not
// cancellable; there is no early-destruction or duration-extension path. The only
// time timers are stopped is process shutdown.
type Lifecycle struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	expired chan<- string
	logger  zerolog.Logger
}

// NewLifecycle returns a Lifecycle that reports fired timers on expired.
func NewLifecycle(expired chan<- string) *Lifecycle {
	return &Lifecycle{
		timers:  make(map[string]*time.Timer),
		expired: expired,
		logger:  logx.Logger().With().Str("component", "Lifecycle").Logger(),
	}
}

// Schedule arms the self-destruct timer for a freshly created room. The callback
// only forwards the room id to the event loop; a room that was already destroyed
// by the time the id is processed is handled there as a no-op.
func (l *Lifecycle) Schedule(roomID string, in time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.timers[roomID] = time.AfterFunc(in, func() {
		l.mu.Lock()
		delete(l.timers, roomID)
		l.mu.Unlock()

		l.logger.Info().Str("room_id", roomID).Msg("Room expiry timer fired.")
		l.expired <- roomID
	})
}

// Pending returns the number of armed timers.
func (l *Lifecycle) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// StopAll stops every armed timer. Process shutdown only; rooms themselves are
// never destroyed early.
func (l *Lifecycle) StopAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, timer := range l.timers {
		timer.Stop()
		delete(l.timers, id)
	}
}
