package graphics

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is one of the 16 terminal palette entries or Transparent
type Color uint8

const (
	Black Color = iota
	DarkBlue
	DarkGreen
	Teal
	DarkRed
	Magenta
	Olive
	Silver
	Gray
	Blue
	Green
	Aqua
	Red
	Pink
	Yellow
	White
	Transparent // keeps the color already present in the target cell
)

// PaletteSize is the number of opaque colors
const PaletteSize = 16

var colorNames = [...]string{
	Black:       "Black",
	DarkBlue:    "DarkBlue",
	DarkGreen:   "DarkGreen",
	Teal:        "Teal",
	DarkRed:     "DarkRed",
	Magenta:     "Magenta",
	Olive:       "Olive",
	Silver:      "Silver",
	Gray:        "Gray",
	Blue:        "Blue",
	Green:       "Green",
	Aqua:        "Aqua",
	Red:         "Red",
	Pink:        "Pink",
	Yellow:      "Yellow",
	White:       "White",
	Transparent: "Transparent",
}

// colorToRGB is the 0xRRGGBB value of each palette entry
var colorToRGB = [PaletteSize]uint32{
	0x000000, 0x000080, 0x008000, 0x008080,
	0x800000, 0x800080, 0x808000, 0xC0C0C0,
	0x808080, 0x0000FF, 0x00FF00, 0x00FFFF,
	0xFF0000, 0xFF00FF, 0xFFFF00, 0xFFFFFF,
}

// paletteLab caches the Lab coordinates of the palette for NearestColor
var paletteLab [PaletteSize]colorful.Color

func init() {
	for i, v := range colorToRGB {
		paletteLab[i] = colorful.Color{
			R: float64((v>>16)&0xFF) / 255.0,
			G: float64((v>>8)&0xFF) / 255.0,
			B: float64(v&0xFF) / 255.0,
		}
	}
}

// String returns the color name
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Index returns the palette index, Transparent maps to 16
func (c Color) Index() uint8 {
	return uint8(c)
}

// Valid reports whether c is one of the 17 defined values
func (c Color) Valid() bool {
	return c <= Transparent
}

// RGB returns the palette RGB components, Transparent and invalid values yield black
func (c Color) RGB() (r, g, b uint8) {
	if c >= PaletteSize {
		return 0, 0, 0
	}
	v := colorToRGB[c]
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// ColorFromIndex converts 0..16 to a Color
func ColorFromIndex(i int) (Color, bool) {
	if i < 0 || i > int(Transparent) {
		return Black, false
	}
	return Color(i), true
}

// NearestColor maps an arbitrary RGB value to the closest palette entry (CIE-Lab distance)
func NearestColor(r, g, b uint8) Color {
	src := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	best := Black
	bestDist := src.DistanceLab(paletteLab[0])
	for i := 1; i < PaletteSize; i++ {
		d := src.DistanceLab(paletteLab[i])
		if d < bestDist {
			bestDist = d
			best = Color(i)
		}
	}
	return best
}

// ParseColor accepts a color name (case insensitive) or a #rrggbb value mapped to the nearest entry
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Black, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return NearestColor(r, g, b), nil
	}
	for i, name := range colorNames {
		if strings.EqualFold(name, s) {
			return Color(i), nil
		}
	}
	return Black, fmt.Errorf("unknown color %q", s)
}
