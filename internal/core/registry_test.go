package core

import (
	"strings"
	"testing"
)

func TestSeedDefaultsOrderedListing(t *testing.T) {
	reg := NewRegistry()
	reg.SeedDefaults()

	// interleave private rooms; they must not show up in the public listing
	for range 8 {
		reg.Insert(NewPrivateRoom())
	}

	public := reg.ListPublic()
	if len(public) != len(defaultPublicRoomIDs) {
		t.Fatalf("expected %d public rooms, got %d", len(defaultPublicRoomIDs), len(public))
	}
	for i, room := range public {
		if room.Index != i {
			t.Fatalf("listing out of order at %d: index %d", i, room.Index)
		}
		if room.ID != defaultPublicRoomIDs[i] {
			t.Fatalf("unexpected room %q at position %d", room.ID, i)
		}
		if !room.Public {
			t.Fatalf("room %q listed but not public", room.ID)
		}
		if !strings.HasPrefix(room.Name, "Public Room ") {
			t.Fatalf("unexpected public room name %q", room.Name)
		}
	}
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()
	reg.SeedDefaults()

	if _, ok := reg.Get("hub"); !ok {
		t.Fatal("seeded public room not found")
	}
	if _, ok := reg.Get("nope"); ok {
		t.Fatal("unknown code must not resolve")
	}

	private := reg.Insert(NewPrivateRoom())
	got, ok := reg.Get(private.ID)
	if !ok || got != private {
		t.Fatalf("inserted room not retrievable: %v %v", got, ok)
	}
}

func TestRegistryInsertDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	room := NewPrivateRoom()
	reg.Insert(room)

	defer func() {
		if recover() == nil {
			t.Fatal("duplicate insert must panic")
		}
	}()
	reg.Insert(newRoom(room.ID, "", false, 0))
}

func TestConnGuardReleasesOnce(t *testing.T) {
	reg := NewRegistry()

	g1 := reg.AcquireConn()
	g2 := reg.AcquireConn()
	if got := reg.ActiveConnections(); got != 2 {
		t.Fatalf("expected 2 active connections, got %d", got)
	}

	g1.Release()
	g1.Release()
	if got := reg.ActiveConnections(); got != 1 {
		t.Fatalf("double release must decrement once, got %d", got)
	}

	g2.Release()
	if got := reg.ActiveConnections(); got != 0 {
		t.Fatalf("expected 0 active connections, got %d", got)
	}
}

func TestNewRoomIDFormat(t *testing.T) {
	seen := make(map[RoomID]struct{})
	for range 100 {
		id := NewRoomID()
		if len(id) != roomIDLength {
			t.Fatalf("unexpected code length %d for %q", len(id), id)
		}
		for _, ch := range string(id) {
			if !strings.ContainsRune(roomIDAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", id, ch)
			}
		}
		seen[id] = struct{}{}
	}
	// not a collision guarantee, just a sanity check on randomness
	if len(seen) < 50 {
		t.Fatalf("suspiciously few distinct codes: %d", len(seen))
	}
}
