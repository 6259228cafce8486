// Package geometry provides the coordinate conversions and box heuristics
// shared by the OCR providers.
//
// Two coordinate spaces are involved: recognizers report boxes either in
// image pixel space with the origin at the top-left, or in normalized unit
// space ([0,1] on both axes) with the origin at the bottom-left. Everything
// downstream of this package works in pixel space, top-left origin. All
// arithmetic stays in floating point; rounding to whole pixels is deferred
// to the serialization boundary to avoid compounding error.
package geometry

import (
	"math"
	"strings"

	"docscan/pkg/models"
)

// Fixed layout policy for estimated boxes. These are heuristics, not
// measured values: they produce plausible overlay positions for recognizers
// that return text lines without geometry.
const (
	// AvgCharWidthRatio is the assumed character width, ~1.2% of image width.
	AvgCharWidthRatio = 0.012

	// LineHeightRatio is the assumed line height, ~4% of image height.
	LineHeightRatio = 0.04

	// MinLineHeightPx is the floor for line height on small images.
	MinLineHeightPx = 20.0

	// MarginRatio is the assumed page margin on every edge, 5% of the
	// corresponding dimension.
	MarginRatio = 0.05

	// LineSpacing is the line pitch as a multiple of line height.
	LineSpacing = 1.2

	// EstimatedConfidence is reported for synthesized boxes, which carry no
	// real confidence value.
	EstimatedConfidence = 0.8
)

// NormalizedBox is a bounding box in unit coordinates with the origin at
// the bottom-left, as reported by recognizers that normalize their output.
// MinX and MaxY locate the top-left corner of the box.
type NormalizedBox struct {
	MinX   float64
	MaxY   float64
	Width  float64
	Height float64
}

// PixelBox is a bounding box in image pixel coordinates, origin top-left.
type PixelBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ToPixelBox converts a normalized bottom-left-origin box into pixel
// coordinates with the origin at the top-left. The Y axis flips: the box's
// top edge (MaxY in normalized space) becomes its pixel Y.
func ToPixelBox(b NormalizedBox, imageWidth, imageHeight float64) PixelBox {
	return PixelBox{
		X:      b.MinX * imageWidth,
		Y:      (1.0 - b.MaxY) * imageHeight,
		Width:  b.Width * imageWidth,
		Height: b.Height * imageHeight,
	}
}

// EstimateLineBoxes synthesizes bounding boxes for recognizers that return
// text lines without geometry. Blank lines produce no box but still advance
// the vertical position of the lines after them, so the estimated layout
// mirrors the spacing of the source text.
func EstimateLineBoxes(lines []string, imageWidth, imageHeight int) []models.OcrWord {
	w := float64(imageWidth)
	h := float64(imageHeight)

	charWidth := w * AvgCharWidthRatio
	lineHeight := math.Max(h*LineHeightRatio, MinLineHeightPx)
	marginX := w * MarginRatio
	marginY := h * MarginRatio
	pitch := lineHeight * LineSpacing

	var words []models.OcrWord
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		textWidth := float64(len([]rune(line))) * charWidth
		y := marginY + float64(i)*pitch

		words = append(words, models.OcrWord{
			Text:       line,
			X:          marginX,
			Y:          math.Min(y, h-lineHeight),
			Width:      math.Min(textWidth, w-2*marginX),
			Height:     lineHeight,
			Confidence: EstimatedConfidence,
		})
	}
	return words
}
