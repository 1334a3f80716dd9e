package graphics

import (
	"image"

	"github.com/pkg/errors"
)

// MaxImageSide bounds both image dimensions
const MaxImageSide = 0xF000

var (
	ErrImageSize       = errors.New("image size must be within 1..0xF000 per side")
	ErrImageBuffer     = errors.New("pixel buffer length does not match image size")
	ErrImageRowWidth   = errors.New("image rows have different widths")
	ErrImageUnmatched  = errors.New("image row is missing its closing '|'")
	ErrImageNoPixelRow = errors.New("image text contains no '|...|' rows")
)

// RenderMethod selects how pixels become characters
type RenderMethod uint8

const (
	// SmallBlocks packs two pixel rows per cell with upper half blocks in 16 colors
	SmallBlocks RenderMethod = iota
	// LargeBlocks draws every pixel as two cells of a 64-color shade
	LargeBlocks
	// GrayScale draws every pixel as two cells of an 11-level luminance glyph
	GrayScale
)

// Scale is the edge length of the pixel square averaged into one rendered pixel
type Scale uint32

const (
	NoScale  Scale = 1
	Scale50  Scale = 2
	Scale33  Scale = 3
	Scale25  Scale = 4
	Scale20  Scale = 5
	Scale10  Scale = 10
	Scale5   Scale = 20
	minScale       = NoScale
)

// Image is an owned grid of pixels
type Image struct {
	width  int
	height int
	pixels []Pixel
}

func validImageSize(w, h int) bool {
	return w >= 1 && h >= 1 && w <= MaxImageSide && h <= MaxImageSide
}

// NewImage creates a width x height image of zero pixels
func NewImage(width, height int) (*Image, error) {
	if !validImageSize(width, height) {
		return nil, errors.Wrapf(ErrImageSize, "%dx%d", width, height)
	}
	return &Image{width: width, height: height, pixels: make([]Pixel, width*height)}, nil
}

// ImageFromBuffer creates an image from row-major 0xAARRGGBB values
func ImageFromBuffer(buf []uint32, width, height int) (*Image, error) {
	img, err := NewImage(width, height)
	if err != nil {
		return nil, err
	}
	if len(buf) != width*height {
		return nil, errors.Wrapf(ErrImageBuffer, "have %d values, want %d", len(buf), width*height)
	}
	for i, v := range buf {
		img.pixels[i] = PixelFromARGB(v)
	}
	return img, nil
}

// ImageFromImage converts any image.Image, channels are reduced to 8 bits
func ImageFromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := NewImage(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			img.pixels[i] = Pixel{Red: uint8(r >> 8), Green: uint8(g >> 8), Blue: uint8(bl >> 8), Alpha: uint8(a >> 8)}
			i++
		}
	}
	return img, nil
}

// pictureColor maps the letters of a text picture to palette colors
func pictureColor(b byte) Color {
	switch b {
	case '0', ' ', '.':
		return Black
	case 'B', '1':
		return DarkBlue
	case 'G', '2':
		return DarkGreen
	case 'T', '3':
		return Teal
	case 'R', '4':
		return DarkRed
	case 'M', 'm', '5':
		return Magenta
	case '6', 'o', 'O':
		return Olive
	case 'S', '7':
		return Silver
	case 's', '8':
		return Gray
	case 'b', '9':
		return Blue
	case 'g':
		return Green
	case 'A', 'a', 't':
		return Aqua
	case 'r':
		return Red
	case 'P', 'p':
		return Pink
	case 'Y', 'y':
		return Yellow
	case 'W', 'w':
		return White
	default:
		return Transparent
	}
}

// ImageFromString builds an image from rows delimited by '|', one palette letter per pixel
// Text outside the delimiters is ignored, so the picture may be indented
func ImageFromString(text string) (*Image, error) {
	var rows []string
	inside := false
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '|' {
			continue
		}
		if inside {
			rows = append(rows, text[start:i])
		} else {
			start = i + 1
		}
		inside = !inside
	}
	if inside {
		return nil, ErrImageUnmatched
	}
	if len(rows) == 0 {
		return nil, ErrImageNoPixelRow
	}
	w := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != w {
			return nil, ErrImageRowWidth
		}
	}
	img, err := NewImage(w, len(rows))
	if err != nil {
		return nil, err
	}
	i := 0
	for _, r := range rows {
		for j := 0; j < len(r); j++ {
			img.pixels[i] = PixelFromColor(pictureColor(r[j]))
			i++
		}
	}
	return img, nil
}

// Width returns the number of pixel columns
func (img *Image) Width() int {
	return img.width
}

// Height returns the number of pixel rows
func (img *Image) Height() int {
	return img.height
}

// Size returns the pixel dimensions
func (img *Image) Size() Size {
	return Size{Width: img.width, Height: img.height}
}

// Clear sets every pixel to p
func (img *Image) Clear(p Pixel) {
	for i := range img.pixels {
		img.pixels[i] = p
	}
}

// SetPixel writes p at (x,y), out of range coordinates are ignored
func (img *Image) SetPixel(x, y int, p Pixel) {
	if x >= 0 && y >= 0 && x < img.width && y < img.height {
		img.pixels[y*img.width+x] = p
	}
}

// Pixel returns the pixel at (x,y)
func (img *Image) Pixel(x, y int) (Pixel, bool) {
	if x < 0 || y < 0 || x >= img.width || y >= img.height {
		return Pixel{}, false
	}
	return img.pixels[y*img.width+x], true
}

func (img *Image) pixelOrZero(x, y int) Pixel {
	p, _ := img.Pixel(x, y)
	return p
}

// squareAverage averages the sz x sz block at (x,y)
// The divisor is always sz*sz so partial blocks at the edges fade toward black
func (img *Image) squareAverage(x, y, sz int) Pixel {
	if x >= img.width || y >= img.height || sz <= 0 {
		return Pixel{}
	}
	ex := min(x+sz, img.width)
	ey := min(y+sz, img.height)
	var sr, sg, sb int
	for py := y; py < ey; py++ {
		row := img.pixels[py*img.width+x : py*img.width+ex]
		for _, p := range row {
			sr += int(p.Red)
			sg += int(p.Green)
			sb += int(p.Blue)
		}
	}
	n := sz * sz
	return PixelFromRGB(uint8(sr/n), uint8(sg/n), uint8(sb/n))
}

func (img *Image) sample(x, y, rap int) Pixel {
	if rap == 1 {
		return img.pixelOrZero(x, y)
	}
	return img.squareAverage(x, y, rap)
}

// RenderSize returns the number of cells DrawImage covers
func (img *Image) RenderSize(method RenderMethod, scale Scale) Size {
	rap := int(max(scale, minScale))
	w := (img.width + rap - 1) / rap
	switch method {
	case SmallBlocks:
		return Size{Width: w, Height: (img.height + 2*rap - 1) / (2 * rap)}
	default:
		return Size{Width: w * 2, Height: (img.height + rap - 1) / rap}
	}
}

// DrawImage renders img with its top-left cell at (x,y)
func (s *Surface) DrawImage(x, y int, img *Image, method RenderMethod, scale Scale) {
	rap := int(max(scale, minScale))
	switch method {
	case SmallBlocks:
		s.paintSmallBlocks(img, x, y, rap)
	case LargeBlocks:
		s.paintWide(img, x, y, rap, Pixel.ToCharacter)
	case GrayScale:
		s.paintWide(img, x, y, rap, Pixel.ToGrayScale)
	}
}

func (s *Surface) paintSmallBlocks(img *Image, x, y, rap int) {
	cp := DefaultCharacter
	py := y
	for iy := 0; iy < img.height; iy += 2 * rap {
		px := x
		for ix := 0; ix < img.width; ix += rap {
			cp.Fg = img.sample(ix, iy, rap).ToColor()
			cp.Bg = img.sample(ix, iy+rap, rap).ToColor()
			switch {
			case cp.Fg != cp.Bg:
				cp.Code = BlockUpperHalf.Rune()
			case cp.Bg == Black:
				cp.Code = ' '
			default:
				cp.Code = Block100.Rune()
			}
			s.Set(px, py, cp)
			px++
		}
		py++
	}
}

func (s *Surface) paintWide(img *Image, x, y, rap int, convert func(Pixel) Character) {
	py := y
	for iy := 0; iy < img.height; iy += rap {
		px := x
		for ix := 0; ix < img.width; ix += rap {
			s.FillHorizontalLine(px, py, px+1, convert(img.sample(ix, iy, rap)))
			px += 2
		}
		py++
	}
}
