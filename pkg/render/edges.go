package render

import (
	"image"
	"image/color"
)

// findEdges returns the bounding rectangle of pixels that differ from the
// background. Against a fully transparent background any pixel with alpha
// counts as content.
func findEdges(img *image.RGBA, bg color.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	key := color.RGBAModel.Convert(bg).(color.RGBA)
	transparent := bg.A == 0

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.RGBAAt(x, y)
			if transparent {
				if px.A == 0 {
					continue
				}
			} else if px == key {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// spansAxis reports whether content reaches both inner boundaries on at
// least one axis, i.e. the framing is already as tight as it can get.
func spansAxis(content, inner image.Rectangle) bool {
	horizontal := content.Min.X <= inner.Min.X && content.Max.X >= inner.Max.X
	vertical := content.Min.Y <= inner.Min.Y && content.Max.Y >= inner.Max.Y
	return horizontal || vertical
}
