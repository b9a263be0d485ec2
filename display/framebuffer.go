package display

import (
	"image"
	"image/color"
)

// Framebuffer is an in-memory panel. It satisfies drivers.Displayer so the
// renderer can draw into it on the host: the simulator blits it into a
// window, tests inspect its pixels.
type Framebuffer struct {
	img      *image.RGBA
	presents int
}

// NewFramebuffer returns a width×height panel filled with transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (f *Framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	// image.RGBA ignores out of bounds writes.
	f.img.SetRGBA(int(x), int(y), c)
}

// Display counts presents. There is nothing to flush in memory.
func (f *Framebuffer) Display() error {
	f.presents++
	return nil
}

// FillScreen paints every pixel with c.
func (f *Framebuffer) FillScreen(c color.RGBA) {
	pix := f.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// At returns the pixel at x, y.
func (f *Framebuffer) At(x, y int) color.RGBA {
	return f.img.RGBAAt(x, y)
}

// Pix returns the RGBA bytes, row major, 4 bytes per pixel.
func (f *Framebuffer) Pix() []byte { return f.img.Pix }

// Presents returns how many times Display was called.
func (f *Framebuffer) Presents() int { return f.presents }
