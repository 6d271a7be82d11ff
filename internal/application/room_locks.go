package application

import "sync"

// RoomLocks serializes booking work per room. Checking a room for conflicts
// and writing the reservation must happen under the same lock, otherwise two
// concurrent requests can both pass the check and double-book.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRoomLocks builds an empty lock table.
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for one room, creating it on first use. The
// returned func releases it.
func (l *RoomLocks) Lock(roomID string) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
