// Package thumbnail renders gradient cover images with centered text.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	MinWidth  = 320
	MaxWidth  = 1920
	MinHeight = 180
	MaxHeight = 1080

	MaxOverlayBytes = 5 << 20
	// MaxOverlayPixels bounds the decoded overlay, whatever its compressed size.
	MaxOverlayPixels = 4096 * 4096
)

type Direction string

const (
	Vertical   Direction = "vertical"
	Horizontal Direction = "horizontal"
	Diagonal   Direction = "diagonal"
)

var (
	ErrInvalidSize     = errors.New("thumbnail size out of range")
	ErrOverlayTooLarge = errors.New("overlay too large")
)

type Options struct {
	Width     int
	Height    int
	Start     color.RGBA
	End       color.RGBA
	Direction Direction
	Headline  string
	Subtitle  string
	TextColor color.RGBA
	// Overlay, when set, is scaled to cover the right part of the canvas.
	Overlay image.Image
}

var (
	fontsOnce         sync.Once
	boldFont, regFont *opentype.Font
	fontsErr          error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
		if fontsErr != nil {
			return
		}
		regFont, fontsErr = opentype.Parse(goregular.TTF)
	})
	return fontsErr
}

// DecodeOverlay accepts PNG or JPEG data.
func DecodeOverlay(data []byte) (image.Image, error) {
	if len(data) > MaxOverlayBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOverlayTooLarge, MaxOverlayBytes)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unsupported overlay format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxOverlayPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrOverlayTooLarge, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unsupported overlay format %q", format)
	}
	return img, nil
}

func Render(opts Options) (*image.RGBA, error) {
	if opts.Width < MinWidth || opts.Width > MaxWidth || opts.Height < MinHeight || opts.Height > MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fillGradient(canvas, opts.Start, opts.End, opts.Direction)

	textArea := canvas.Bounds()
	if opts.Overlay != nil {
		split := opts.Width * 6 / 10
		region := image.Rect(split, 0, opts.Width, opts.Height)
		drawCover(canvas, region, opts.Overlay)
		textArea.Max.X = split
	}

	if err := drawText(canvas, textArea, opts); err != nil {
		return nil, err
	}
	return canvas, nil
}

func RenderPNG(opts Options) ([]byte, error) {
	img, err := Render(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fillGradient(dst *image.RGBA, from, to color.RGBA, dir Direction) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var t float64
			switch dir {
			case Vertical:
				t = ratio(y, h-1)
			case Horizontal:
				t = ratio(x, w-1)
			default:
				t = ratio(x+y, w+h-2)
			}
			i := dst.PixOffset(x+b.Min.X, y+b.Min.Y)
			dst.Pix[i+0] = lerp(from.R, to.R, t)
			dst.Pix[i+1] = lerp(from.G, to.G, t)
			dst.Pix[i+2] = lerp(from.B, to.B, t)
			dst.Pix[i+3] = lerp(from.A, to.A, t)
		}
	}
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// drawCover scales src to fill region, cropping the excess around the center.
func drawCover(dst *image.RGBA, region image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() || region.Empty() {
		return
	}

	srcRatio := float64(sb.Dx()) / float64(sb.Dy())
	dstRatio := float64(region.Dx()) / float64(region.Dy())

	crop := sb
	if srcRatio > dstRatio {
		w := int(float64(sb.Dy()) * dstRatio)
		off := (sb.Dx() - w) / 2
		crop = image.Rect(sb.Min.X+off, sb.Min.Y, sb.Min.X+off+w, sb.Max.Y)
	} else if srcRatio < dstRatio {
		h := int(float64(sb.Dx()) / dstRatio)
		off := (sb.Dy() - h) / 2
		crop = image.Rect(sb.Min.X, sb.Min.Y+off, sb.Max.X, sb.Min.Y+off+h)
	}

	draw.CatmullRom.Scale(dst, region, src, crop, draw.Over, nil)
}

type textBlock struct {
	face  font.Face
	lines []string
}

func drawText(dst *image.RGBA, area image.Rectangle, opts Options) error {
	headline := strings.TrimSpace(opts.Headline)
	subtitle := strings.TrimSpace(opts.Subtitle)
	if headline == "" && subtitle == "" {
		return nil
	}

	maxWidth := fixed.I(area.Dx() * 88 / 100)
	var blocks []textBlock

	if headline != "" {
		face, err := newFace(boldFont, float64(opts.Height)/9)
		if err != nil {
			return err
		}
		defer face.Close()
		blocks = append(blocks, textBlock{face: face, lines: Wrap(face, headline, maxWidth)})
	}
	if subtitle != "" {
		face, err := newFace(regFont, float64(opts.Height)/20)
		if err != nil {
			return err
		}
		defer face.Close()
		blocks = append(blocks, textBlock{face: face, lines: Wrap(face, subtitle, maxWidth)})
	}

	gap := fixed.I(opts.Height / 30)
	var total fixed.Int26_6
	for i, b := range blocks {
		total += b.face.Metrics().Height * fixed.Int26_6(len(b.lines))
		if i > 0 {
			total += gap
		}
	}

	top := fixed.I(area.Min.Y) + (fixed.I(area.Dy())-total)/2
	src := image.NewUniform(opts.TextColor)
	for i, b := range blocks {
		if i > 0 {
			top += gap
		}
		m := b.face.Metrics()
		for _, line := range b.lines {
			d := &font.Drawer{Dst: dst, Src: src, Face: b.face}
			width := d.MeasureString(line)
			x := fixed.I(area.Min.X) + (fixed.I(area.Dx())-width)/2
			d.Dot = fixed.Point26_6{X: x, Y: top + m.Ascent}
			d.DrawString(line)
			top += m.Height
		}
	}
	return nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new font face: %w", err)
	}
	return face, nil
}

// Wrap breaks text into lines no wider than maxWidth. A single word wider
// than maxWidth gets a line of its own.
func Wrap(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if font.MeasureString(face, candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
