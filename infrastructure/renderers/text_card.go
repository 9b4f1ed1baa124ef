package renderers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"wa-highlighter/core"
)

const (
	defaultWidth    = 1080
	defaultFontSize = 44
	defaultMaxLines = 14
	cardPadding     = 72
	accentWidth     = 12
	ellipsis        = "…"
)

var (
	backgroundColor = color.RGBA{R: 0x11, G: 0x1b, B: 0x21, A: 0xff}
	textColor       = color.RGBA{R: 0xe9, G: 0xed, B: 0xef, A: 0xff}
	accentColor     = color.RGBA{R: 0x25, G: 0xd3, B: 0x66, A: 0xff}
)

// TextCardRenderer draws message text word wrapped onto a PNG card. The card
// width is fixed and its height follows the number of lines.
type TextCardRenderer struct {
	font     *opentype.Font
	fontSize float64
	width    int
	maxLines int
}

func InitializeTextCardRenderer(fontSize float64, width, maxLines int) (*TextCardRenderer, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %v", err)
	}
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	if width <= 0 {
		width = defaultWidth
	}
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	if width <= 2*cardPadding {
		return nil, fmt.Errorf("width=%d leaves no room for text", width)
	}
	return &TextCardRenderer{font: parsed, fontSize: fontSize, width: width, maxLines: maxLines}, nil
}

func (renderer *TextCardRenderer) GenerateImage(ctx context.Context, text string) (core.GeneratedImage, error) {
	if text == "" {
		return nil, errors.New("cannot render empty text")
	}
	// whitespace-only text still renders, as a blank card
	text = strings.TrimSpace(text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// faces cache glyphs and are not safe for concurrent use, so each call gets its own
	face, err := opentype.NewFace(renderer.font, &opentype.FaceOptions{Size: renderer.fontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("error creating font face: %v", err)
	}
	defer face.Close()

	lines := wrapText(face, text, renderer.width-2*cardPadding, renderer.maxLines)
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	height := 2*cardPadding + len(lines)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, renderer.width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	accent := image.Rect(cardPadding/2, cardPadding, cardPadding/2+accentWidth, height-cardPadding)
	draw.Draw(img, accent, image.NewUniform(accentColor), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: face}
	for i, line := range lines {
		drawer.Dot = fixed.P(cardPadding, cardPadding+i*lineHeight+metrics.Ascent.Ceil())
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("error encoding png: %v", err)
	}
	return core.GeneratedImage(buf.Bytes()), nil
}

// wrapText breaks text into lines no wider than maxWidth. Explicit newlines
// are kept, words wider than a line are split by rune, and text beyond
// maxLines is cut with an ellipsis.
func wrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	limit := fixed.I(maxWidth)
	fits := func(s string) bool { return font.MeasureString(face, s) <= limit }

	lines := make([]string, 0)
	for _, paragraph := range strings.Split(text, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if fits(candidate) {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = ""
			for _, r := range word {
				if fits(current + string(r)) {
					current += string(r)
					continue
				}
				lines = append(lines, current)
				current = string(r)
			}
		}
		lines = append(lines, current)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		for last != "" && !fits(last+ellipsis) {
			runes := []rune(last)
			last = string(runes[:len(runes)-1])
		}
		lines[maxLines-1] = last + ellipsis
	}
	return lines
}
