package core

import (
	"sync"
	"sync/atomic"
)

// RoomSubscription ties one persona to one room's broadcast stream. Releasing
// it removes the persona from the room and frees its slot exactly once, no
// matter how many times or on which teardown path Release is called.
type RoomSubscription struct {
	room    *Room
	persona *Persona

	ch      chan RoomMessage
	lagged  atomic.Int64
	release sync.Once
}

// Room returns the subscribed room.
func (s *RoomSubscription) Room() *Room { return s.room }

// Events is the subscriber's delivery queue. The channel is never closed by
// the room; callers multiplex it against their other event sources.
func (s *RoomSubscription) Events() <-chan RoomMessage { return s.ch }

// TakeLagged returns the number of messages dropped from this subscriber's
// backlog since the last call and resets the counter.
func (s *RoomSubscription) TakeLagged() int64 { return s.lagged.Swap(0) }

// Release leaves the room: the live count drops by one and the persona is
// removed from the room's member list.
func (s *RoomSubscription) Release() {
	s.release.Do(func() {
		s.room.unsubscribe(s)
	})
}

// push enqueues without ever blocking. When the queue is full the oldest
// entry is discarded and counted as lag; the spot is then offered to the new
// message. Returns false only if the queue is still full after evicting,
// which means the subscriber raced a refill.
func (s *RoomSubscription) push(msg RoomMessage) bool {
	select {
	case s.ch <- msg:
		return true
	default:
	}

	select {
	case <-s.ch:
		s.lagged.Add(1)
	default:
	}

	select {
	case s.ch <- msg:
		return true
	default:
		s.lagged.Add(1)
		return false
	}
}
