package theme

import (
	"image/color"

	"git.lost.host/meutraa/chorus/internal/game"
)

type Theme interface {
	// Note returns the colour and glyph of a note in its current state.
	Note(status game.Status, tint game.Tint, progress float64) (color.RGBA, string)
	Tint(t game.Tint) color.RGBA
	Lane(index int) string
	Text() color.RGBA
	Muted() color.RGBA
	Highlight() color.RGBA
}
