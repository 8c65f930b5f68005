package render

import (
	"image/color"
	"time"

	"git.lost.host/meutraa/chorus/internal/session"
)

type Renderer interface {
	Init() error
	Deinit() error
	RenderLoop(period time.Duration, frame func(now time.Time) bool)
	Draw(v session.View)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
}
