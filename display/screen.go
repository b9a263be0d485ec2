// Package display draws weather pages on a small pixel panel.
//
// Screen is the graphics context: clear, centred text and icons over any
// tinygo drivers.Displayer (an ST7735 on the board, a Framebuffer on the
// host). Weather turns an fsm.State into a full repaint.
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorFG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff} // Black.
	colorBG = color.RGBA{R: 0x7f, G: 0xff, B: 0x00, A: 0xff} // Chartreuse.
)

// screenFiller is implemented by panels that can clear faster than
// drawing a full size rectangle, such as st7735.Device.
type screenFiller interface {
	FillScreen(c color.RGBA)
}

// Screen is a graphics context over a display.
type Screen struct {
	d      drivers.Displayer
	font   tinyfont.Fonter
	fg, bg color.RGBA
	width  int16
	height int16
}

// NewScreen returns a black on chartreuse context drawing with the proggy
// 8pt font.
func NewScreen(d drivers.Displayer) *Screen {
	w, h := d.Size()
	return &Screen{
		d:      d,
		font:   &proggy.TinySZ8pt7b,
		fg:     colorFG,
		bg:     colorBG,
		width:  w,
		height: h,
	}
}

// Size returns the panel size in pixels.
func (s *Screen) Size() (width, height int16) { return s.width, s.height }

// Clear fills the panel with the background colour.
func (s *Screen) Clear() {
	if f, ok := s.d.(screenFiller); ok {
		f.FillScreen(s.bg)
		return
	}
	tinydraw.FilledRectangle(s.d, 0, 0, s.width, s.height, s.bg)
}

// DrawCentered writes text centred horizontally with its baseline at y.
// Text wider than the panel is clipped by the display.
func (s *Screen) DrawCentered(text string, y int16) {
	_, outboxWidth := tinyfont.LineWidth(s.font, text)
	x := (s.width - int16(outboxWidth)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(s.d, s.font, x, y, text, s.fg)
}

// DrawIcon draws icon with its top left corner at x, y. IconNone draws
// nothing.
func (s *Screen) DrawIcon(icon Icon, x, y int16) {
	icon.draw(s, x, y)
}

// Flush pushes the drawing to the panel for displays that buffer.
func (s *Screen) Flush() error {
	return s.d.Display()
}
