// Package render turns a persisted claim record into a paginated,
// legally-formatted PDF. The pipeline has four independent stages: compose a
// layout tree, rasterize it into a single tall bitmap at 2x density, slice
// the bitmap into fixed-size A4-proportion pages with forced breaks before
// each authorization form, and assemble the pages into a PDF document.
package render

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Page geometry. The document is composed at a fixed logical width and
// rasterized at Scale-times pixel density for print fidelity. Page height
// follows A4 proportions (297:210).
const (
	Scale      = 2
	PageWidth  = 800
	PageHeight = PageWidth * 297 / 210 // 1131

	RasterWidth  = PageWidth * Scale
	RasterHeight = PageHeight * Scale

	marginX = 48 * Scale
	marginY = 40 * Scale

	// Signature images are fitted into a fixed maximum box.
	signatureBoxW = 240 * Scale
	signatureBoxH = 60 * Scale
)

// Style is the hermetic presentation context for the rendered document. It is
// constructed explicitly and never inherits ambient theme state from the host
// UI, so dark mode can never leak into the generated document: the palette is
// always black-on-white.
type Style struct {
	Background color.Color
	Ink        color.Color
	Rule       color.Color

	Title   font.Face // document title
	Heading font.Face // section titles
	Label   font.Face // field labels
	Value   font.Face // field values, monospaced

	TitleLineHeight   int
	HeadingLineHeight int
	LineHeight        int
	SectionGap        int
}

// NewStyle builds the fixed legal-document style at raster density.
func NewStyle() (*Style, error) {
	title, err := newFace(gobold.TTF, 18*Scale)
	if err != nil {
		return nil, err
	}
	heading, err := newFace(gobold.TTF, 13*Scale)
	if err != nil {
		return nil, err
	}
	label, err := newFace(goregular.TTF, 11*Scale)
	if err != nil {
		return nil, err
	}
	value, err := newFace(gomono.TTF, 11*Scale)
	if err != nil {
		return nil, err
	}

	return &Style{
		Background: color.White,
		Ink:        color.Black,
		Rule:       color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff},

		Title:   title,
		Heading: heading,
		Label:   label,
		Value:   value,

		TitleLineHeight:   28 * Scale,
		HeadingLineHeight: 22 * Scale,
		LineHeight:        17 * Scale,
		SectionGap:        14 * Scale,
	}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}
	return face, nil
}
