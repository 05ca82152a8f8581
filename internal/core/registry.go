package core

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Codes of the pre-provisioned public rooms, in display order.
var defaultPublicRoomIDs = []RoomID{"hub", "dev", "fun", "afk"}

// Registry is the process-wide room table plus the informational
// active-connection counter. Safe for concurrent use by many connection
// goroutines.
type Registry struct {
	mu    sync.RWMutex
	rooms map[RoomID]*Room

	activeConns atomic.Int64
}

// NewRegistry returns an empty registry. Call SeedDefaults before accepting
// connections.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[RoomID]*Room)}
}

// SeedDefaults populates the fixed public rooms. Called exactly once at
// startup.
func (g *Registry) SeedDefaults() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, id := range defaultPublicRoomIDs {
		g.rooms[id] = newRoom(id, fmt.Sprintf("Public Room %d", i+1), true, i)
	}
}

// ListPublic returns the public rooms sorted ascending by display index.
func (g *Registry) ListPublic() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rooms := make([]*Room, 0, len(defaultPublicRoomIDs))
	for _, r := range g.rooms {
		if r.Public {
			rooms = append(rooms, r)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Index < rooms[j].Index })
	return rooms
}

// Get looks a room up by code.
func (g *Registry) Get(id RoomID) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// Insert registers a newly created private room and returns it. A duplicate
// code means the generator is broken, which is an invariant violation rather
// than a recoverable error.
func (g *Registry) Insert(room *Room) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.rooms[room.ID]; exists {
		panic(fmt.Sprintf("room code %q already registered", room.ID))
	}
	g.rooms[room.ID] = room
	return room
}

// ActiveConnections returns the process-wide connection count reported in
// handshakes. Informational only.
func (g *Registry) ActiveConnections() int {
	return int(g.activeConns.Load())
}

// AcquireConn increments the active-connection counter and returns a guard
// whose Release decrements it exactly once, on any teardown path.
func (g *Registry) AcquireConn() *ConnGuard {
	g.activeConns.Add(1)
	return &ConnGuard{reg: g}
}

// ConnGuard scopes one connection's contribution to the active counter.
type ConnGuard struct {
	reg  *Registry
	once sync.Once
}

// Release gives the slot back. Safe to call more than once.
func (c *ConnGuard) Release() {
	c.once.Do(func() {
		c.reg.activeConns.Add(-1)
	})
}
