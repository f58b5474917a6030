package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Image is a produced raster with its mip chain. Levels[0] is the full
// size image; every further level halves the previous one.
type Image struct {
	Levels     []*image.RGBA
	ColorSpace ColorSpace
}

// Base returns the full size level.
func (img *Image) Base() *image.RGBA {
	return img.Levels[0]
}

// Width returns the base level width in pixels.
func (img *Image) Width() int {
	return img.Levels[0].Bounds().Dx()
}

// Height returns the base level height in pixels.
func (img *Image) Height() int {
	return img.Levels[0].Bounds().Dy()
}

// newImage finalises a canvas: converts it to the requested colour space
// and builds the mip chain.
func newImage(canvas *image.RGBA, mipmaps int, space ColorSpace) *Image {
	if space == Linear {
		toLinear(canvas)
	}
	img := &Image{
		Levels:     []*image.RGBA{canvas},
		ColorSpace: space,
	}

	limit := mipLevels(canvas.Bounds().Dx(), canvas.Bounds().Dy())
	if mipmaps >= 0 && mipmaps < limit {
		limit = max(mipmaps, 1)
	}
	prev := canvas
	for len(img.Levels) < limit {
		w := max(prev.Bounds().Dx()/2, 1)
		h := max(prev.Bounds().Dy()/2, 1)
		prev = transform.Resize(prev, w, h, transform.Box)
		img.Levels = append(img.Levels, prev)
	}
	return img
}

// mipLevels is the length of a full mip chain down to 1x1.
func mipLevels(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		n++
	}
	return n
}

var linearTable = sync.OnceValue(func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		v := float64(i) / 255
		r, _, _ := colorful.Color{R: v, G: v, B: v}.LinearRgb()
		t[i] = byte8(r)
	}
	return t
})

// toLinear re-encodes sRGB colour channels as linear values in place.
func toLinear(img *image.RGBA) {
	table := linearTable()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
			c.R, c.G, c.B = table[c.R], table[c.G], table[c.B]
			img.Set(x, y, c)
		}
	}
}
