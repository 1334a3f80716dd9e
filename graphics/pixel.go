package graphics

// Pixel is an 8-bit per channel RGBA value
type Pixel struct {
	Red, Green, Blue, Alpha uint8
}

// NewPixel creates a pixel from all four channels
func NewPixel(r, g, b, a uint8) Pixel {
	return Pixel{Red: r, Green: g, Blue: b, Alpha: a}
}

// PixelFromRGB creates an opaque pixel
func PixelFromRGB(r, g, b uint8) Pixel {
	return Pixel{Red: r, Green: g, Blue: b, Alpha: 255}
}

// PixelFromARGB decodes a 0xAARRGGBB value
func PixelFromARGB(v uint32) Pixel {
	return Pixel{
		Alpha: uint8(v >> 24),
		Red:   uint8(v >> 16),
		Green: uint8(v >> 8),
		Blue:  uint8(v),
	}
}

// PixelFromColor returns the opaque RGB of a palette color, Transparent yields a zero pixel
func PixelFromColor(c Color) Pixel {
	if c >= PaletteSize {
		return Pixel{}
	}
	r, g, b := c.RGB()
	return PixelFromRGB(r, g, b)
}

// ARGB encodes the pixel as 0xAARRGGBB
func (p Pixel) ARGB() uint32 {
	return uint32(p.Alpha)<<24 | uint32(p.Red)<<16 | uint32(p.Green)<<8 | uint32(p.Blue)
}
