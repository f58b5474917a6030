package render

import (
	"image"
	"image/color"
	gomath "math"
)

// keyBackgrounds are the solid backgrounds used to separate object colour
// from background bleed.
var keyBackgrounds = [3]color.NRGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
}

// commonColor reconstructs a straight-alpha object colour from the same
// pixel rendered against pure red, green and blue backgrounds.
//
// The reconstruction is approximate: an object colour that matches a key
// channel is indistinguishable from background there.
func commonColor(onRed, onGreen, onBlue color.RGBA) color.NRGBA {
	if onRed == onGreen {
		return color.NRGBAModel.Convert(onRed).(color.NRGBA)
	}

	rr, rg, rb := unit(onRed.R), unit(onRed.G), unit(onRed.B)
	gr, gg, gb := unit(onGreen.R), unit(onGreen.G), unit(onGreen.B)
	br, bg, bb := unit(onBlue.R), unit(onBlue.G), unit(onBlue.B)

	// Each channel as seen through the two keys that do not light it.
	r := max(gr, br)
	g := max(rg, bg)
	b := max(rb, gb)

	// Background leaking into its own key channel is 1 - alpha.
	a := max(1-(rr-r), 1-(gg-g), 1-(bb-b))
	a = clamp01(a)
	if a == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: byte8(r / a),
		G: byte8(g / a),
		B: byte8(b / a),
		A: byte8(a),
	}
}

// over composites straight-alpha src over dst.
func over(src, dst color.NRGBA) color.NRGBA {
	if src.A == 255 || dst.A == 0 {
		return src
	}
	if src.A == 0 {
		return dst
	}
	sa, da := unit(src.A), unit(dst.A)
	oa := sa + da*(1-sa)
	mix := func(s, d uint8) uint8 {
		return byte8((unit(s)*sa + unit(d)*da*(1-sa)) / oa)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: byte8(oa),
	}
}

// composeKeyed writes the colour-keyed reconstruction of three passes into
// dst at rect, laying the result over bg when bg is not transparent.
func composeKeyed(dst *image.RGBA, rect image.Rectangle, passes [3]*image.RGBA, bg color.NRGBA) {
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			c := commonColor(passes[0].RGBAAt(x, y), passes[1].RGBAAt(x, y), passes[2].RGBAAt(x, y))
			if bg.A > 0 {
				c = over(c, bg)
			}
			dst.Set(rect.Min.X+x, rect.Min.Y+y, c)
		}
	}
}

func unit(v uint8) float64 {
	return float64(v) / 255
}

func clamp01(f float64) float64 {
	return gomath.Min(gomath.Max(f, 0), 1)
}

func byte8(f float64) uint8 {
	return uint8(gomath.Round(clamp01(f) * 255))
}
