package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEdges(t *testing.T) {
	t.Run("transparent background", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 10, 10))
		img.Set(3, 4, color.RGBA{A: 1})
		img.Set(6, 2, color.RGBA{R: 255, A: 255})

		rect, ok := findEdges(img, color.NRGBA{})
		assert.True(t, ok)
		assert.Equal(t, image.Rect(3, 2, 7, 5), rect)
	})

	t.Run("empty", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		_, ok := findEdges(img, color.NRGBA{})
		assert.False(t, ok)
	})

	t.Run("translucent background matches premultiplied pixels", func(t *testing.T) {
		bg := color.NRGBA{R: 255, A: 128}
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, bg)
			}
		}
		_, ok := findEdges(img, bg)
		assert.False(t, ok)

		img.Set(0, 3, color.RGBA{G: 255, A: 255})
		rect, ok := findEdges(img, bg)
		assert.True(t, ok)
		assert.Equal(t, image.Rect(0, 3, 1, 4), rect)
	})
}

func TestSpansAxis(t *testing.T) {
	inner := image.Rect(2, 2, 10, 10)
	tests := []struct {
		name    string
		content image.Rectangle
		want    bool
	}{
		{"exact fit", inner, true},
		{"full width", image.Rect(2, 4, 10, 6), true},
		{"full height", image.Rect(5, 2, 6, 10), true},
		{"touches left only", image.Rect(2, 4, 8, 6), false},
		{"centred", image.Rect(4, 4, 8, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spansAxis(tt.content, inner))
		})
	}
}
