package ocr

import (
	"math"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"docscan/internal/geometry"
	"docscan/pkg/models"
)

// boxFromPoly converts a Vision bounding poly into a pixel-space word box.
// Pixel vertices pass through; normalized vertices (top-left origin, unit
// coordinates) are reoriented into the geometry package's bottom-left
// convention and converted from there.
func boxFromPoly(poly *visionpb.BoundingPoly, imageWidth, imageHeight int) models.OcrWord {
	if poly == nil {
		return models.OcrWord{}
	}

	if len(poly.Vertices) > 0 {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, v := range poly.Vertices {
			minX = math.Min(minX, float64(v.X))
			minY = math.Min(minY, float64(v.Y))
			maxX = math.Max(maxX, float64(v.X))
			maxY = math.Max(maxY, float64(v.Y))
		}
		return models.OcrWord{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}

	if len(poly.NormalizedVertices) > 0 {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, v := range poly.NormalizedVertices {
			minX = math.Min(minX, float64(v.X))
			minY = math.Min(minY, float64(v.Y))
			maxX = math.Max(maxX, float64(v.X))
			maxY = math.Max(maxY, float64(v.Y))
		}
		return pixelWord(minX, minY, maxX, maxY, imageWidth, imageHeight)
	}

	return models.OcrWord{}
}

// pixelWord converts a normalized top-left-origin rect (minX/minY/maxX/maxY
// in unit coordinates, y down) into a pixel-space word box. The rect's top
// edge at minY sits at 1-minY in the bottom-left-origin space the geometry
// conversion expects.
func pixelWord(minX, minY, maxX, maxY float64, imageWidth, imageHeight int) models.OcrWord {
	box := geometry.ToPixelBox(geometry.NormalizedBox{
		MinX:   minX,
		MaxY:   1.0 - minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}, float64(imageWidth), float64(imageHeight))

	return models.OcrWord{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
}
