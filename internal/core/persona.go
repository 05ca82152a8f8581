package core

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// MinPersonaNameLength is the shortest display name a client may set.
const MinPersonaNameLength = 3

// Persona is a participant's display identity, independent of any room.
// A persona is owned by one connection but its name and colors are read by
// other connections during collision checks, so access is synchronized.
type Persona struct {
	id uuid.UUID

	mu          sync.Mutex
	name        string
	color       string
	forcedColor string // set only while the name collides inside the current room
}

// NewPersona creates a persona with a randomized placeholder name and color.
func NewPersona(id uuid.UUID) *Persona {
	digits := make([]byte, 12)
	for i := range digits {
		digits[i] = byte('0' + rand.IntN(10))
	}
	return &Persona{
		id:    id,
		name:  fmt.Sprintf("user%s", digits),
		color: RandomColor(),
	}
}

// ID returns the connection-scoped persona identifier.
func (p *Persona) ID() uuid.UUID { return p.id }

// Name returns the current display name.
func (p *Persona) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// SetName applies a name update. Names shorter than MinPersonaNameLength are
// rejected and the previous name is kept; the return value reports whether
// the update was applied.
func (p *Persona) SetName(name string) bool {
	if len(name) < MinPersonaNameLength {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
	return true
}

// SetColor applies a base-color update. Malformed colors are rejected in
// favor of the previous color.
func (p *Persona) SetColor(color string) bool {
	if !ValidColor(color) {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.color = color
	return true
}

// EffectiveColor is the forced color while a name collision exists, the base
// color otherwise.
func (p *Persona) EffectiveColor() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.forcedColor != "" {
		return p.forcedColor
	}
	return p.color
}

// ForcedColor returns the collision override, empty when none is active.
func (p *Persona) ForcedColor() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forcedColor
}

func (p *Persona) setForcedColor(c string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forcedColor = c
}

func (p *Persona) clearForcedColor() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forcedColor = ""
}

// Snapshot resolves the persona into the immutable form carried by messages.
func (p *Persona) Snapshot() MessagePersona {
	p.mu.Lock()
	defer p.mu.Unlock()
	color := p.color
	if p.forcedColor != "" {
		color = p.forcedColor
	}
	return MessagePersona{ID: p.id, Name: p.name, Color: color}
}
