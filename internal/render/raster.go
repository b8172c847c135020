package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"

	// Signature data URIs may carry PNG or JPEG payloads.
	_ "image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	labelColumn  = 260 * Scale
	checkboxGap  = 36 * Scale
	signatureGap = 8 * Scale
)

type opKind int

const (
	opText opKind = iota
	opRule
	opImage
)

// drawOp is one drawing instruction produced by layout and applied by the
// rasterizer. Splitting measure from draw keeps the slicing offsets exact:
// the tall surface is allocated once, at the final measured height.
type drawOp struct {
	kind opKind
	x, y int // baseline for text, top-left otherwise
	w, h int
	text string
	face font.Face
	img  image.Image
}

// Rasterize draws the composed document into a single tall bitmap at 2x
// density. It returns the bitmap together with the raster offsets at which
// forced page breaks occur. The off-screen surface is exclusively owned for
// the duration of the call; on failure it is released before the error
// propagates.
func Rasterize(doc *Document, style *Style) (*image.RGBA, []int, error) {
	ops, height, breaks, err := layoutDocument(doc, style)
	if err != nil {
		return nil, nil, err
	}

	surface := image.NewRGBA(image.Rect(0, 0, RasterWidth, height))
	draw.Draw(surface, surface.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	ink := image.NewUniform(style.Ink)
	rule := image.NewUniform(style.Rule)
	for _, op := range ops {
		switch op.kind {
		case opText:
			d := font.Drawer{
				Dst:  surface,
				Src:  ink,
				Face: op.face,
				Dot:  fixed.P(op.x, op.y),
			}
			d.DrawString(op.text)
		case opRule:
			r := image.Rect(op.x, op.y, op.x+op.w, op.y+op.h)
			draw.Draw(surface, r, rule, image.Point{}, draw.Src)
		case opImage:
			r := image.Rect(op.x, op.y, op.x+op.w, op.y+op.h)
			xdraw.BiLinear.Scale(surface, r, op.img, op.img.Bounds(), xdraw.Over, nil)
		}
	}

	return surface, breaks, nil
}

// layoutDocument walks the layout tree, measuring every row and emitting draw
// ops. Signature images are decoded here so a malformed image fails the
// render before any surface is allocated.
func layoutDocument(doc *Document, style *Style) (ops []drawOp, height int, breaks []int, err error) {
	l := &layouter{style: style}

	l.title(doc.Title)
	l.section(doc.Header)
	l.horizontalRule()

	for _, block := range doc.Blocks {
		if block.PageBreak {
			l.pageBreak()
		}
		if block.Title != "" {
			l.blockTitle(block.Title)
		}
		for _, s := range block.Sections {
			if err := l.sectionErr(s); err != nil {
				return nil, 0, nil, err
			}
		}
	}

	l.gap(style.SectionGap)
	l.horizontalRule()
	l.footer(doc.Footer)
	l.gap(marginY)

	return l.ops, l.y, l.breaks, nil
}

type layouter struct {
	style  *Style
	ops    []drawOp
	y      int
	breaks []int
}

func (l *layouter) gap(h int) {
	l.y += h
}

func (l *layouter) pageBreak() {
	l.breaks = append(l.breaks, l.y)
	// The fresh page opens with the same top margin as the first.
	l.y += marginY
}

func (l *layouter) text(face font.Face, x int, s string) {
	ascent := face.Metrics().Ascent.Ceil()
	l.ops = append(l.ops, drawOp{kind: opText, x: x, y: l.y + ascent, text: s, face: face})
}

func (l *layouter) horizontalRule() {
	l.ops = append(l.ops, drawOp{
		kind: opRule,
		x:    marginX, y: l.y,
		w: RasterWidth - 2*marginX, h: Scale,
	})
	l.y += 6 * Scale
}

func (l *layouter) title(s string) {
	l.y += marginY
	w := font.MeasureString(l.style.Title, s).Ceil()
	l.text(l.style.Title, (RasterWidth-w)/2, s)
	l.y += l.style.TitleLineHeight
}

func (l *layouter) blockTitle(s string) {
	w := font.MeasureString(l.style.Title, s).Ceil()
	l.text(l.style.Title, (RasterWidth-w)/2, s)
	l.y += l.style.TitleLineHeight
	l.horizontalRule()
}

func (l *layouter) footer(s string) {
	l.text(l.style.Label, marginX, s)
	l.y += l.style.LineHeight
}

func (l *layouter) section(s Section) {
	// Sections without signature rows cannot fail.
	_ = l.sectionErr(s)
}

func (l *layouter) sectionErr(s Section) error {
	if s.Title != "" {
		l.gap(l.style.SectionGap)
		l.text(l.style.Heading, marginX, s.Title)
		l.y += l.style.HeadingLineHeight
	}
	for _, row := range s.Rows {
		if err := l.row(row); err != nil {
			return err
		}
	}
	return nil
}

func (l *layouter) row(row Row) error {
	switch row.Kind {
	case RowField:
		l.text(l.style.Label, marginX, row.Label+":")
		lines := wrapText(l.style.Value, row.Value, RasterWidth-marginX-labelColumn-marginX)
		for i, line := range lines {
			l.text(l.style.Value, marginX+labelColumn, line)
			if i < len(lines)-1 {
				l.y += l.style.LineHeight
			}
		}
		l.y += l.style.LineHeight

	case RowCheckbox:
		glyph := "[ ]"
		if row.Checked {
			glyph = "[X]"
		}
		l.text(l.style.Value, marginX, glyph)
		l.text(l.style.Label, marginX+checkboxGap, row.Label)
		l.y += l.style.LineHeight

	case RowText:
		if row.Label != "" {
			l.text(l.style.Label, marginX, row.Label+":")
			l.y += l.style.LineHeight
		}
		for _, line := range wrapText(l.style.Value, row.Value, RasterWidth-2*marginX) {
			l.text(l.style.Value, marginX, line)
			l.y += l.style.LineHeight
		}

	case RowSignature:
		l.text(l.style.Label, marginX, row.Label+":")
		l.y += l.style.LineHeight
		if row.ImageURI != "" {
			img, err := decodeDataURI(row.ImageURI)
			if err != nil {
				return fmt.Errorf("failed to decode signature image: %w", err)
			}
			w, h := fitBox(img.Bounds().Dx(), img.Bounds().Dy(), signatureBoxW, signatureBoxH)
			l.ops = append(l.ops, drawOp{kind: opImage, x: marginX, y: l.y, w: w, h: h, img: img})
			l.y += signatureBoxH + signatureGap
		} else {
			// A blank signature renders as a blank line, with no
			// placeholder text.
			l.y += signatureBoxH
		}
		l.ops = append(l.ops, drawOp{
			kind: opRule,
			x:    marginX, y: l.y,
			w: signatureBoxW, h: Scale,
		})
		l.y += l.style.LineHeight
	}
	return nil
}

// wrapText greedily wraps s to lines no wider than maxWidth under face.
// Explicit newlines are honored.
func wrapText(face font.Face, s string, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if font.MeasureString(face, candidate).Ceil() > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// fitBox scales (w, h) to fit within (maxW, maxH) preserving aspect ratio.
func fitBox(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	if scale > 1 {
		scale = 1
	}
	return int(float64(w) * scale), int(float64(h) * scale)
}

// decodeDataURI decodes a base64 image data URI into an image.
func decodeDataURI(uri string) (image.Image, error) {
	_, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(uri, "data:image/") {
		return nil, fmt.Errorf("not an image data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unsupported embedded image: %w", err)
	}
	return img, nil
}
