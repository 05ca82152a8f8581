package core

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// RoomID is a short, human-typable room code. Public rooms use a fixed set of
// codes assigned at startup; private rooms get a random code at creation.
type RoomID string

// Code alphabet leaves out glyphs that are easy to misread (0/o, 1/l/i).
const roomIDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

const roomIDLength = 3

// NewRoomID returns a random room code. The code space is small but private
// codes are short-lived in practice; duplicate inserts are treated as a
// generator bug by the registry.
func NewRoomID() RoomID {
	max := big.NewInt(int64(len(roomIDAlphabet)))

	buf := make([]byte, roomIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand unavailable, fall back to the process PRNG
			buf[i] = roomIDAlphabet[mrand.IntN(len(roomIDAlphabet))]
			continue
		}
		buf[i] = roomIDAlphabet[n.Int64()]
	}
	return RoomID(buf)
}
