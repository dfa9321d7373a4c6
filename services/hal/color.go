package hal

import (
	"image/color"

	"blinky-go/errcode"
)

// Color is what the LED driver can show.
type Color uint8

const (
	ColorOff Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "off"
	}
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "off":
		return ColorOff, nil
	case "red":
		return ColorRed, nil
	case "green":
		return ColorGreen, nil
	case "blue":
		return ColorBlue, nil
	}
	return ColorOff, &errcode.E{C: errcode.InvalidParams, Op: "hal.ParseColor", Msg: s}
}

// pixelLevel keeps addressable LEDs at a comfortable brightness.
const pixelLevel = 0x40

// RGBA is the colour as an addressable-pixel value.
func (c Color) RGBA() color.RGBA {
	switch c {
	case ColorRed:
		return color.RGBA{R: pixelLevel, A: 0xff}
	case ColorGreen:
		return color.RGBA{G: pixelLevel, A: 0xff}
	case ColorBlue:
		return color.RGBA{B: pixelLevel, A: 0xff}
	default:
		return color.RGBA{A: 0xff}
	}
}

// Levels returns the red, green and blue line levels for a discrete RGB LED.
func (c Color) Levels() [3]int {
	switch c {
	case ColorRed:
		return [3]int{1, 0, 0}
	case ColorGreen:
		return [3]int{0, 1, 0}
	case ColorBlue:
		return [3]int{0, 0, 1}
	default:
		return [3]int{0, 0, 0}
	}
}
