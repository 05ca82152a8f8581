package core

import (
	"fmt"
	"sync"
)

// MaxRoomConnections bounds both the membership of a room and the backlog of
// each subscriber's delivery queue.
const MaxRoomConnections = 32

// Room is a named, capacity-bounded broadcast domain. All membership and
// collision state is guarded by one mutex; fan-out never blocks on a slow
// subscriber (see RoomSubscription.push).
type Room struct {
	ID     RoomID
	Name   string
	Public bool
	Index  int // display order, meaningful only for public rooms

	mu       sync.Mutex
	subs     map[*RoomSubscription]struct{}
	personas []*Persona // join order, used only for collision detection
}

func newRoom(id RoomID, name string, public bool, index int) *Room {
	return &Room{
		ID:     id,
		Name:   name,
		Public: public,
		Index:  index,
		subs:   make(map[*RoomSubscription]struct{}),
	}
}

// NewPrivateRoom creates an unlisted room with a random code. Private rooms
// carry no display name; the code itself is the handle.
func NewPrivateRoom() *Room {
	return newRoom(NewRoomID(), "", false, 0)
}

// CurrentConnections returns the live subscriber count.
func (r *Room) CurrentConnections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Subscribe atomically checks capacity and joins the persona. It returns nil
// when the room is full; the caller is expected to decline silently. The
// persona joining an occupied name gets a forced color, existing members are
// never recolored by a new joiner.
func (r *Room) Subscribe(p *Persona) *RoomSubscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs) >= MaxRoomConnections {
		return nil
	}

	r.applyCollisionLocked(p)
	r.personas = append(r.personas, p)

	sub := &RoomSubscription{
		room:    r,
		persona: p,
		ch:      make(chan RoomMessage, MaxRoomConnections),
	}
	r.subs[sub] = struct{}{}
	return sub
}

// RecheckCollision re-runs the collision rule for p after a name change, and
// clears overrides on members whose collision dissolved because of it.
func (r *Room) RecheckCollision(p *Persona) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyCollisionLocked(p)
	r.sweepForcedLocked()
}

// applyCollisionLocked sets or clears p's forced color against the current
// member list, excluding p itself.
func (r *Room) applyCollisionLocked(p *Persona) {
	name := p.Name()
	var taken []string
	for _, other := range r.personas {
		if other == p {
			continue
		}
		if other.Name() == name {
			taken = append(taken, other.EffectiveColor())
		}
	}
	if len(taken) == 0 {
		p.clearForcedColor()
		return
	}
	if p.ForcedColor() == "" {
		p.setForcedColor(distinctColor(append(taken, p.EffectiveColor())))
	}
}

// sweepForcedLocked clears forced colors that no longer have a collision to
// justify them. It only ever clears, so members never get recolored by
// someone else's change.
func (r *Room) sweepForcedLocked() {
	for _, p := range r.personas {
		if p.ForcedColor() == "" {
			continue
		}
		name := p.Name()
		collides := false
		for _, other := range r.personas {
			if other != p && other.Name() == name {
				collides = true
				break
			}
		}
		if !collides {
			p.clearForcedColor()
		}
	}
}

// Broadcast pushes a message to every current subscriber and returns the
// number of queues it reached. Zero live receivers is not an error. A
// receiver whose backlog is full loses its oldest message instead of
// blocking the sender.
func (r *Room) Broadcast(msg RoomMessage) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for sub := range r.subs {
		if sub.push(msg) {
			delivered++
		}
	}
	return delivered
}

func (r *Room) unsubscribe(sub *RoomSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub]; !ok {
		return
	}
	delete(r.subs, sub)

	for i, p := range r.personas {
		if p == sub.persona {
			r.personas = append(r.personas[:i], r.personas[i+1:]...)
			break
		}
	}
	r.sweepForcedLocked()
}

// Summary is the read-only view of a room used in room listings.
type Summary struct {
	ID                 RoomID
	Name               string
	Index              int
	CurrentConnections int
	MaxConnections     int
}

// Summarize captures the room's listing view.
func (r *Room) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		ID:                 r.ID,
		Name:               r.Name,
		Index:              r.Index,
		CurrentConnections: len(r.subs),
		MaxConnections:     MaxRoomConnections,
	}
}

func (r *Room) String() string {
	kind := "private"
	if r.Public {
		kind = "public"
	}
	return fmt.Sprintf("%s room %s", kind, r.ID)
}
