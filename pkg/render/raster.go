package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// canvas wraps an RGBA image with helpers for the few shapes a wheel needs. All shape
// tests are made against pixel centres so output is independent of call order.
type canvas struct {
	img    *image.RGBA
	cx, cy float64
}

func newCanvas(w, h int, bg color.Color) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	return &canvas{
		img: img,
		cx:  float64(w) / 2,
		cy:  float64(h) / 2,
	}
}

// each calls fn for every pixel within r of the centre, passing the offset of the pixel
// centre from the canvas centre.
func (c *canvas) each(r float64, fn func(x, y int, dx, dy float64)) {
	bounds := image.Rect(
		int(math.Floor(c.cx-r)), int(math.Floor(c.cy-r)),
		int(math.Ceil(c.cx+r)), int(math.Ceil(c.cy+r)),
	).Intersect(c.img.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - c.cx
			dy := float64(y) + 0.5 - c.cy

			if math.Hypot(dx, dy) <= r {
				fn(x, y, dx, dy)
			}
		}
	}
}

func (c *canvas) disc(r float64, col color.Color) {
	c.each(r, func(x, y int, _, _ float64) {
		c.img.Set(x, y, col)
	})
}

func (c *canvas) ring(inner, outer float64, col color.Color) {
	c.each(outer, func(x, y int, dx, dy float64) {
		if math.Hypot(dx, dy) > inner {
			c.img.Set(x, y, col)
		}
	})
}

// angleOf returns the clockwise angle in degrees, in [0, 360), of an offset measured
// from the 3 o'clock direction. Image y grows downwards, which makes atan2 clockwise.
func angleOf(dx, dy float64) float64 {
	a := math.Atan2(dy, dx) * 180 / math.Pi
	if a < 0 {
		a += 360
	}

	return a
}

// slice is one pie wedge in degrees.
type slice struct {
	start, end float64
	fill       color.Color
	outline    color.Color
	width      float64
}

// wedges fills every slice within radius r.
func (c *canvas) wedges(r float64, slices []slice) {
	c.each(r, func(x, y int, dx, dy float64) {
		a := angleOf(dx, dy)

		for _, s := range slices {
			if a >= s.start && a < s.end {
				c.img.Set(x, y, s.fill)

				return
			}
		}
	})
}

// wedgeOutline strokes the arc and both radial edges of s inwards from radius r.
func (c *canvas) wedgeOutline(r float64, s slice) {
	half := s.width / 2

	edges := [2][2]float64{}
	for i, deg := range []float64{s.start, s.end} {
		rad := deg * math.Pi / 180
		edges[i] = [2]float64{math.Cos(rad), math.Sin(rad)}
	}

	c.each(r, func(x, y int, dx, dy float64) {
		d := math.Hypot(dx, dy)

		if d > r-s.width {
			if a := angleOf(dx, dy); a >= s.start && a <= s.end {
				c.img.Set(x, y, s.outline)

				return
			}
		}

		for _, e := range edges {
			along := dx*e[0] + dy*e[1]
			across := math.Abs(dx*e[1] - dy*e[0])

			if along >= 0 && across <= half {
				c.img.Set(x, y, s.outline)

				return
			}
		}
	})
}

type point struct {
	x, y float64
}

// triangle fills the triangle abc and strokes its edges with width w.
func (c *canvas) triangle(a, b, p point, fill, outline color.Color, w float64) {
	minX := math.Min(a.x, math.Min(b.x, p.x)) - w
	maxX := math.Max(a.x, math.Max(b.x, p.x)) + w
	minY := math.Min(a.y, math.Min(b.y, p.y)) - w
	maxY := math.Max(a.y, math.Max(b.y, p.y)) + w

	bounds := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(c.img.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			q := point{float64(x) + 0.5, float64(y) + 0.5}

			switch {
			case segmentDistance(q, a, b) <= w/2,
				segmentDistance(q, b, p) <= w/2,
				segmentDistance(q, p, a) <= w/2:
				c.img.Set(x, y, outline)
			case insideTriangle(q, a, b, p):
				c.img.Set(x, y, fill)
			}
		}
	}
}

func cross(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

func insideTriangle(q, a, b, c point) bool {
	d1, d2, d3 := cross(a, b, q), cross(b, c, q), cross(c, a, q)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

func segmentDistance(q, a, b point) float64 {
	abx, aby := b.x-a.x, b.y-a.y
	lenSq := abx*abx + aby*aby

	t := 0.0
	if lenSq > 0 {
		t = math.Max(0, math.Min(1, ((q.x-a.x)*abx+(q.y-a.y)*aby)/lenSq))
	}

	return math.Hypot(q.x-(a.x+t*abx), q.y-(a.y+t*aby))
}

// blendRect composites col over the rectangle r.
func (c *canvas) blendRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, &image.Uniform{C: col}, image.Point{}, draw.Over)
}
