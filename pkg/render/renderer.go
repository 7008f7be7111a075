// Package render draws wheels as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canvas and wheel geometry, in pixels.
const (
	Width  = 800
	Height = 800
	Radius = 350

	borderWidth   = 5
	sliceOutline  = 2
	winnerOutline = 4
	hubRadius     = 30
	hubOutline    = 3
	pointerSize   = 20
	pointerStroke = 2

	labelRadius  = 0.7
	lineHeight   = 20
	labelPadding = 2

	nameSize    = 16
	percentSize = 12
	emptySize   = 24

	emptyText = "Empty Wheel"
)

var (
	colorBlack      = color.RGBA{A: 255}
	colorWhite      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorRed        = color.RGBA{R: 255, A: 255}
	colorDarkRed    = color.RGBA{R: 139, A: 255}
	colorLightGray  = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	labelBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 180}
)

// Renderer draws wheels. It is safe for concurrent use.
type Renderer struct {
	font *opentype.Font
}

// NewRenderer creates a Renderer using the embedded Go Regular font.
func NewRenderer() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &Renderer{font: f}, nil
}

// Render draws sections and returns PNG bytes. The section whose name equals winner
// exactly is outlined in red.
func (r *Renderer) Render(sections wheel.Sections, winner string) ([]byte, error) {
	img, err := r.Image(sections, winner)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// Image draws sections onto a new RGBA image.
func (r *Renderer) Image(sections wheel.Sections, winner string) (*image.RGBA, error) {
	// opentype faces hold scratch buffers, so each render gets its own.
	faces, err := r.faces()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	c := newCanvas(Width, Height, colorWhite)

	c.ring(Radius, Radius+borderWidth, colorBlack)

	if len(sections) == 0 {
		c.disc(Radius, colorLightGray)
		c.ring(Radius-sliceOutline, Radius, colorBlack)
		drawCentered(c, faces.empty, emptyText, c.cx, c.cy)
	} else {
		drawSections(c, faces, sections, winner)
	}

	c.disc(hubRadius, colorWhite)
	c.ring(hubRadius-hubOutline, hubRadius, colorBlack)

	c.triangle(
		point{c.cx, c.cy - Radius - 10},
		point{c.cx - pointerSize, c.cy - Radius + pointerSize},
		point{c.cx + pointerSize, c.cy - Radius + pointerSize},
		colorRed, colorDarkRed, pointerStroke,
	)

	return c.img, nil
}

// layout converts sections into wedges. Sweeps use a fixed 100% denominator, so an
// incomplete wheel leaves a gap, and the cumulative angle is capped at a full turn.
func layout(sections wheel.Sections, winner string) []slice {
	slices := make([]slice, 0, len(sections))

	var angle float64

	for _, section := range sections {
		sweep := section.Percentage / wheel.MaxPercentage * 360
		end := math.Min(angle+sweep, 360)

		s := slice{
			start:   angle,
			end:     end,
			fill:    parseColor(section.Color),
			outline: colorBlack,
			width:   sliceOutline,
		}

		if winner != "" && section.Name == winner {
			s.outline = colorRed
			s.width = winnerOutline
		}

		slices = append(slices, s)
		angle = end
	}

	return slices
}

func drawSections(c *canvas, faces *faceSet, sections wheel.Sections, winner string) {
	slices := layout(sections, winner)

	c.wedges(Radius, slices)

	// The winner is stroked last so its outline is not covered by a neighbour's.
	winnerIdx := -1

	for i, s := range slices {
		if s.outline == colorRed {
			winnerIdx = i

			continue
		}

		c.wedgeOutline(Radius, s)
	}

	if winnerIdx >= 0 {
		c.wedgeOutline(Radius, slices[winnerIdx])
	}

	for i, section := range sections {
		s := slices[i]
		mid := (s.start + (s.end-s.start)/2) * math.Pi / 180
		tx := c.cx + Radius*labelRadius*math.Cos(mid)
		ty := c.cy + Radius*labelRadius*math.Sin(mid)

		drawLabel(c, faces, tx, ty, section.Name, wheel.FormatPercent(section.Percentage))
	}
}

// drawLabel writes two lines centred on (tx, ty), each over a translucent white box.
func drawLabel(c *canvas, faces *faceSet, tx, ty float64, lines ...string) {
	top := ty - float64(len(lines)*lineHeight)/2

	for i, line := range lines {
		face := faces.name
		if i > 0 {
			face = faces.percent
		}

		w := font.MeasureString(face, line).Ceil()
		x := int(math.Round(tx)) - w/2
		y := int(math.Round(top)) + i*lineHeight

		c.blendRect(image.Rect(x-labelPadding, y-labelPadding, x+w+labelPadding, y+lineHeight-labelPadding), labelBackground)
		drawText(c, face, line, x, y)
	}
}

// drawCentered writes text centred on (x, y).
func drawCentered(c *canvas, face font.Face, text string, x, y float64) {
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()

	drawText(c, face, text, int(math.Round(x))-w/2, int(math.Round(y))-h/2)
}

// drawText writes text with its top-left corner at (x, y).
func drawText(c *canvas, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(colorBlack),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// parseColor converts a stored #RRGGBB colour, falling back to light gray.
func parseColor(hex string) color.Color {
	if !wheel.IsHexColor(hex) {
		return colorLightGray
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return colorLightGray
	}

	r, g, b := c.RGB255()

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

type faceSet struct {
	name, percent, empty font.Face
}

func (f *faceSet) close() {
	for _, face := range []font.Face{f.name, f.percent, f.empty} {
		if face != nil {
			_ = face.Close()
		}
	}
}

func (r *Renderer) faces() (*faceSet, error) {
	set := &faceSet{}

	for _, fc := range []struct {
		dst  *font.Face
		size float64
	}{
		{&set.name, nameSize},
		{&set.percent, percentSize},
		{&set.empty, emptySize},
	} {
		face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
			Size:    fc.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			set.close()

			return nil, fmt.Errorf("failed to create font face: %w", err)
		}

		*fc.dst = face
	}

	return set, nil
}
