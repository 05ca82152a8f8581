package core

// Illustration payloads attached to system notices. Clients render them as-is
// next to the notice text.
const (
	drawingJoin = `
  o
 /|\   ~ hello ~
 / \
`

	drawingLeave = `
  o
 /|\   ~ bye ~
 / \
`

	drawingInvite = `
 .-----------.
 | + invite  |
 '-----------'
`
)
