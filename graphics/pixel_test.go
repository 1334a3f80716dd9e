package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelFromARGB(t *testing.T) {
	p := PixelFromARGB(0x80FF1020)
	assert.Equal(t, Pixel{Red: 0xFF, Green: 0x10, Blue: 0x20, Alpha: 0x80}, p)
	assert.Equal(t, uint32(0x80FF1020), p.ARGB())
}

func TestPixelFromColor(t *testing.T) {
	assert.Equal(t, PixelFromRGB(0xC0, 0xC0, 0xC0), PixelFromColor(Silver))
	assert.Equal(t, PixelFromRGB(0, 0, 0x80), PixelFromColor(DarkBlue))
	assert.Equal(t, Pixel{}, PixelFromColor(Transparent))
}

func TestQuantizeDarkPixels(t *testing.T) {
	for r := 0; r <= 16; r += 4 {
		for g := 0; g <= 16; g += 4 {
			for b := 0; b <= 16; b += 4 {
				p := PixelFromRGB(uint8(r), uint8(g), uint8(b))
				assert.Equal(t, Black, p.ToColor(), "pixel %v", p)
				assert.Equal(t, NewCharacter(' ', Black, Black, NoFlags), p.ToCharacter(), "pixel %v", p)
				assert.Equal(t, 0, p.GrayLevel(), "pixel %v", p)
			}
		}
	}
}

func TestQuantizeBrightPixels(t *testing.T) {
	for r := 224; r <= 255; r += 8 {
		for g := 224; g <= 255; g += 8 {
			for b := 224; b <= 255; b += 8 {
				p := PixelFromRGB(uint8(r), uint8(g), uint8(b))
				assert.Equal(t, White, p.ToColor(), "pixel %v", p)
				assert.Equal(t, NewCharacter(' ', White, White, NoFlags), p.ToCharacter(), "pixel %v", p)
				assert.Equal(t, 10, p.GrayLevel(), "pixel %v", p)
			}
		}
	}
}

func TestQuantizePaletteColors(t *testing.T) {
	tests := []struct {
		pixel Pixel
		want  Color
	}{
		{PixelFromRGB(255, 0, 0), Red},
		{PixelFromRGB(128, 0, 0), DarkRed},
		{PixelFromRGB(0, 255, 0), Green},
		{PixelFromRGB(0, 0, 255), Blue},
		{PixelFromRGB(255, 255, 0), Yellow},
		{PixelFromRGB(0, 128, 128), Teal},
		{PixelFromRGB(128, 128, 128), Gray},
		{PixelFromRGB(255, 0, 255), Pink},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pixel.ToColor(), "pixel %v", tt.pixel)
	}
}

func TestToCharacterShades(t *testing.T) {
	// buckets (1,0,0) pair Red with a 25% shade
	assert.Equal(t, NewCharacter(Block25.Rune(), Red, Black, NoFlags), PixelFromRGB(64, 0, 0).ToCharacter())
	// (0,0,2) is Blue at 50%
	assert.Equal(t, NewCharacter(Block50.Rune(), Blue, Black, NoFlags), PixelFromRGB(0, 0, 128).ToCharacter())
	// (3,0,0) is Red at 75%
	assert.Equal(t, NewCharacter(Block75.Rune(), Red, Black, NoFlags), PixelFromRGB(192, 0, 0).ToCharacter())
	// (0,4,0) is a solid green cell
	assert.Equal(t, NewCharacter(' ', Green, Green, NoFlags), PixelFromRGB(0, 255, 0).ToCharacter())
}

func TestGrayLevelIsMonotonic(t *testing.T) {
	prev := 0
	for v := 0; v <= 255; v++ {
		lvl := PixelFromRGB(uint8(v), uint8(v), uint8(v)).GrayLevel()
		assert.GreaterOrEqual(t, lvl, prev, "value %d", v)
		assert.LessOrEqual(t, lvl, 10)
		prev = lvl
	}
	assert.Equal(t, 10, prev)
}

func TestToGrayScaleEndpoints(t *testing.T) {
	assert.Equal(t, NewCharacter(' ', Black, Black, NoFlags), PixelFromRGB(0, 0, 0).ToGrayScale())
	assert.Equal(t, NewCharacter('█', White, Black, NoFlags), PixelFromRGB(255, 255, 255).ToGrayScale())
	assert.Equal(t, Gray, PixelFromRGB(40, 40, 40).ToGrayScale().Fg)
}
