package display

import (
	"image/color"

	"tinygo.org/x/tinydraw"
)

// IconSize is the width and height of every icon.
const IconSize = 32

// Icon is a weather glyph.
type Icon uint8

const (
	IconNone Icon = iota
	IconSunny
	IconPartlyCloudy
	IconCloudy
	IconRainy
	IconThermometer
)

// IconFor picks the icon for a condition. The match is exact and case
// sensitive; an unknown condition gets IconNone.
func IconFor(condition string) Icon {
	switch condition {
	case "Sunny":
		return IconSunny
	case "Partly cloudy":
		return IconPartlyCloudy
	case "Cloudy":
		return IconCloudy
	case "Rainy":
		return IconRainy
	}
	return IconNone
}

func (i Icon) String() string {
	switch i {
	case IconNone:
		return "none"
	case IconSunny:
		return "sunny"
	case IconPartlyCloudy:
		return "partly-cloudy"
	case IconCloudy:
		return "cloudy"
	case IconRainy:
		return "rainy"
	case IconThermometer:
		return "thermometer"
	}
	return "invalid"
}

var (
	colorSun     = color.RGBA{R: 0xff, G: 0xc8, B: 0x00, A: 0xff}
	colorCloud   = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	colorShade   = color.RGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xff}
	colorRain    = color.RGBA{R: 0x20, G: 0x50, B: 0xe0, A: 0xff}
	colorMercury = color.RGBA{R: 0xd0, G: 0x10, B: 0x10, A: 0xff}
)

func (i Icon) draw(s *Screen, x, y int16) {
	switch i {
	case IconSunny:
		tinydraw.FilledCircle(s.d, x+16, y+16, 11, colorSun)
	case IconPartlyCloudy:
		tinydraw.FilledCircle(s.d, x+20, y+11, 8, colorSun)
		drawCloud(s, x, y+6, colorCloud)
	case IconCloudy:
		drawCloud(s, x+4, y, colorShade)
		drawCloud(s, x, y+6, colorCloud)
	case IconRainy:
		drawCloud(s, x, y-2, colorShade)
		for _, dx := range [4]int16{6, 12, 18, 24} {
			tinydraw.FilledRectangle(s.d, x+dx, y+24, 2, 6, colorRain)
		}
	case IconThermometer:
		tinydraw.FilledRectangle(s.d, x+13, y+2, 6, 20, colorShade)
		tinydraw.FilledRectangle(s.d, x+15, y+8, 2, 16, colorMercury)
		tinydraw.FilledCircle(s.d, x+16, y+25, 6, colorMercury)
	}
}

// drawCloud draws a cloud in the lower part of a 32×26 box at x, y.
func drawCloud(s *Screen, x, y int16, c color.RGBA) {
	tinydraw.FilledCircle(s.d, x+10, y+16, 7, c)
	tinydraw.FilledCircle(s.d, x+18, y+12, 9, c)
	tinydraw.FilledCircle(s.d, x+25, y+17, 6, c)
	tinydraw.FilledRectangle(s.d, x+4, y+17, 24, 7, c)
}
