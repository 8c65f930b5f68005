package theme

import (
	"image/color"

	"git.lost.host/meutraa/chorus/internal/game"
)

type DefaultTheme struct{}

var (
	white  = color.RGBA{255, 255, 255, 255}
	green  = color.RGBA{0, 255, 0, 255}
	orange = color.RGBA{255, 165, 0, 255}
	red    = color.RGBA{255, 0, 0, 255}
	grey   = color.RGBA{100, 100, 100, 255}
	yellow = color.RGBA{255, 255, 0, 255}

	tints = map[game.Tint]color.RGBA{
		game.TintWhite:  white,
		game.TintGreen:  green,
		game.TintOrange: orange,
		game.TintRed:    red,
	}

	// a dissipating note swells then shrinks away
	fade = [...]string{"●", "◉", "◎", "○", "◌", "·"}
)

func (t *DefaultTheme) Note(status game.Status, tint game.Tint, progress float64) (color.RGBA, string) {
	switch status {
	case game.Falling:
		return red, fade[0]
	case game.Judged:
		return t.Tint(tint), fade[0]
	case game.Dissipating:
		i := int(progress * float64(len(fade)))
		if i >= len(fade) {
			i = len(fade) - 1
		}
		return t.Tint(tint), fade[i]
	}
	return grey, " "
}

func (t *DefaultTheme) Tint(tint game.Tint) color.RGBA {
	c, ok := tints[tint]
	if !ok {
		return white
	}
	return c
}

func (t *DefaultTheme) Lane(index int) string {
	return "│"
}

func (t *DefaultTheme) Text() color.RGBA      { return white }
func (t *DefaultTheme) Muted() color.RGBA     { return grey }
func (t *DefaultTheme) Highlight() color.RGBA { return yellow }
