package core

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

// Colors travel as 0xRRGGBBAA strings; clients render them verbatim.
var colorPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{8}$`)

// ValidColor reports whether s is a well-formed 0xRRGGBBAA color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// RandomColor returns a random fully-opaque color biased toward the light end
// of each channel so names stay readable on a dark background.
func RandomColor() string {
	r := 0x60 + rand.IntN(0xA0)
	g := 0x60 + rand.IntN(0xA0)
	b := 0x60 + rand.IntN(0xA0)
	return fmt.Sprintf("0x%02X%02X%02XFF", r, g, b)
}

// distinctColor picks a random color that differs from every color in taken.
func distinctColor(taken []string) string {
	for range 16 {
		c := RandomColor()
		clash := false
		for _, t := range taken {
			if c == t {
				clash = true
				break
			}
		}
		if !clash {
			return c
		}
	}
	// the color space makes 16 straight collisions vanishingly unlikely
	return RandomColor()
}
