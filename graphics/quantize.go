package graphics

// colorMap16 is indexed by r*9+g*3+b over three buckets per channel
var colorMap16 = [27]Color{
	Black, DarkBlue, Blue, // r=0 g=0
	DarkGreen, Teal, Teal, // r=0 g=1
	Green, Teal, Aqua, // r=0 g=2
	DarkRed, Magenta, Magenta, // r=1 g=0
	Olive, Gray, Gray, // r=1 g=1
	Olive, Gray, Silver, // r=1 g=2
	Red, Magenta, Pink, // r=2 g=0
	Olive, Gray, Silver, // r=2 g=1
	Yellow, Silver, White, // r=2 g=2
}

// shade is a palette color drawn at a coverage percentage
type shade struct {
	color   Color
	percent uint8
}

// colorMap64 is indexed by r*25+g*5+b over five buckets per channel
var colorMap64 = [125]shade{
	{Black, 0}, {Blue, 25}, {Blue, 50}, {Blue, 75}, {Blue, 100}, // r=0 g=0
	{Green, 25}, {Aqua, 25}, {Blue, 50}, {Blue, 75}, {Blue, 100}, // r=0 g=1
	{Green, 50}, {Aqua, 25}, {Aqua, 50}, {Aqua, 50}, {Aqua, 75}, // r=0 g=2
	{Green, 75}, {Green, 75}, {Aqua, 50}, {Aqua, 75}, {Aqua, 75}, // r=0 g=3
	{Green, 100}, {Green, 100}, {Aqua, 75}, {Aqua, 75}, {Aqua, 100}, // r=0 g=4
	{Red, 25}, {Pink, 25}, {Blue, 50}, {Blue, 75}, {Blue, 100}, // r=1 g=0
	{Yellow, 25}, {White, 25}, {White, 25}, {Blue, 75}, {Blue, 100}, // r=1 g=1
	{Green, 50}, {White, 25}, {Aqua, 50}, {Aqua, 50}, {Aqua, 75}, // r=1 g=2
	{Green, 75}, {Green, 75}, {Aqua, 50}, {Aqua, 75}, {Aqua, 75}, // r=1 g=3
	{Green, 100}, {Green, 100}, {Aqua, 75}, {Aqua, 75}, {Aqua, 100}, // r=1 g=4
	{Red, 50}, {Pink, 25}, {Pink, 50}, {Pink, 50}, {Pink, 75}, // r=2 g=0
	{Yellow, 25}, {White, 25}, {Pink, 50}, {Pink, 50}, {Pink, 75}, // r=2 g=1
	{Yellow, 50}, {Yellow, 50}, {White, 50}, {White, 50}, {White, 50}, // r=2 g=2
	{Yellow, 50}, {Yellow, 50}, {White, 50}, {White, 75}, {White, 75}, // r=2 g=3
	{Yellow, 75}, {Yellow, 75}, {White, 50}, {White, 75}, {Aqua, 100}, // r=2 g=4
	{Red, 75}, {Red, 75}, {Pink, 50}, {Pink, 75}, {Pink, 75}, // r=3 g=0
	{Red, 75}, {Red, 75}, {Pink, 50}, {Pink, 75}, {Pink, 75}, // r=3 g=1
	{Yellow, 50}, {Yellow, 50}, {White, 50}, {White, 75}, {White, 75}, // r=3 g=2
	{Yellow, 75}, {Yellow, 75}, {White, 75}, {White, 75}, {White, 75}, // r=3 g=3
	{Yellow, 75}, {Yellow, 75}, {White, 75}, {White, 75}, {White, 100}, // r=3 g=4
	{Red, 100}, {Red, 100}, {Pink, 75}, {Pink, 75}, {Pink, 100}, // r=4 g=0
	{Red, 100}, {Red, 100}, {Pink, 75}, {Pink, 75}, {Pink, 100}, // r=4 g=1
	{Yellow, 75}, {Yellow, 75}, {White, 50}, {White, 75}, {Pink, 100}, // r=4 g=2
	{Yellow, 75}, {Yellow, 75}, {White, 75}, {White, 75}, {White, 100}, // r=4 g=3
	{Yellow, 100}, {Yellow, 100}, {Yellow, 100}, {White, 100}, {White, 100}, // r=4 g=4
}

// grayLevels maps 11 luminance levels to a glyph over a color pair, darkest first
var grayLevels = [11]Character{
	{Code: ' ', Fg: Black, Bg: Black},
	{Code: '░', Fg: Gray, Bg: Black},
	{Code: '▒', Fg: Gray, Bg: Black},
	{Code: '▓', Fg: Gray, Bg: Black},
	{Code: '█', Fg: Gray, Bg: Black},
	{Code: '░', Fg: Silver, Bg: Gray},
	{Code: '▒', Fg: Silver, Bg: Gray},
	{Code: '▓', Fg: Silver, Bg: Gray},
	{Code: '░', Fg: White, Bg: Silver},
	{Code: '▓', Fg: White, Bg: Silver},
	{Code: '█', Fg: White, Bg: Black},
}

// bucket3 splits a channel into low (<=16), mid (<192) and high
func bucket3(v uint8) int {
	switch {
	case v <= 16:
		return 0
	case v < 192:
		return 1
	default:
		return 2
	}
}

// ToColor quantizes the pixel to the nearest named palette color
func (p Pixel) ToColor() Color {
	return colorMap16[bucket3(p.Red)*9+bucket3(p.Green)*3+bucket3(p.Blue)]
}

// ToCharacter quantizes the pixel to a shaded block in one of the palette colors
func (p Pixel) ToCharacter() Character {
	r := (int(p.Red) + 32) / 64
	g := (int(p.Green) + 32) / 64
	b := (int(p.Blue) + 32) / 64
	sh := colorMap64[r*25+g*5+b]
	switch sh.percent {
	case 0:
		return NewCharacter(' ', Black, Black, NoFlags)
	case 25:
		return NewCharacter(Block25.Rune(), sh.color, Black, NoFlags)
	case 50:
		return NewCharacter(Block50.Rune(), sh.color, Black, NoFlags)
	case 75:
		return NewCharacter(Block75.Rune(), sh.color, Black, NoFlags)
	default:
		return NewCharacter(' ', sh.color, sh.color, NoFlags)
	}
}

// GrayLevel returns the luminance level 0..10 of the pixel
// Averages at or below 16 are level 0, at or above 224 level 10
func (p Pixel) GrayLevel() int {
	val := (int(p.Red) + int(p.Green) + int(p.Blue)) / 3
	switch {
	case val <= 16:
		return 0
	case val >= 224:
		return 10
	default:
		return 1 + (val-17)*9/207
	}
}

// ToGrayScale quantizes the pixel luminance to a shaded glyph
func (p Pixel) ToGrayScale() Character {
	return grayLevels[p.GrayLevel()]
}
