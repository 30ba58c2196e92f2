package chart

import (
	"fmt"
	"image/color"
	"strconv"
)

// Categorical schemes, as published by ColorBrewer and Tableau.
var (
	set2 = hexColors("#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3")

	pastel1 = hexColors("#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6", "#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2")

	tableau10 = hexColors("#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f", "#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab")

	// purple-red sequential stops, light to dark
	puRdStops = hexColors("#f7f4f9", "#e7e1ef", "#d4b9da", "#c994c7", "#df65b0", "#e7298a", "#ce1256", "#980043", "#67001f")
)

func hexColors(hex ...string) []color.RGBA {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		v, err := strconv.ParseUint(h[1:], 16, 32)
		if err != nil {
			panic(fmt.Sprintf("chart: bad colour %q", h))
		}
		out[i] = color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	}
	return out
}

// ordinal assigns colours from scheme to keys in first-request order, cycling
// when the scheme runs out.
type ordinal struct {
	scheme []color.RGBA
	index  map[string]int
}

func newOrdinal(scheme []color.RGBA) *ordinal {
	return &ordinal{scheme: scheme, index: make(map[string]int)}
}

func (o *ordinal) color(key string) color.RGBA {
	i, ok := o.index[key]
	if !ok {
		i = len(o.index)
		o.index[key] = i
	}
	return o.scheme[i%len(o.scheme)]
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

func hexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// sequential is a palette.Palette interpolated linearly between stops.
type sequential []color.Color

func (s sequential) Colors() []color.Color { return s }

func newSequential(stops []color.RGBA, n int) sequential {
	if n < 2 {
		n = 2
	}
	out := make(sequential, n)
	for i := range out {
		out[i] = interpolate(stops, float64(i)/float64(n-1))
	}
	return out
}

// interpolate returns the colour at t in [0,1] along stops.
func interpolate(stops []color.RGBA, t float64) color.RGBA {
	switch {
	case t <= 0:
		return stops[0]
	case t >= 1:
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}
