package ocr

import (
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ProbeImageSize reads the pixel dimensions of the image at the given path
// without decoding the full raster. The path may be scheme-qualified or
// plain. It is used on the fallback path, where the line recognizer cannot
// report dimensions itself.
func ProbeImageSize(imagePath string) (width, height int, err error) {
	const op = "ProbeImageSize"

	f, err := os.Open(resolvePaths(imagePath).plain)
	if err != nil {
		return 0, 0, NewOCRError(op, ErrImageLoad, fmt.Sprintf("open %s: %v", imagePath, err))
	}
	defer f.Close()

	width, height, err = decodeImageSize(f)
	if err != nil {
		return 0, 0, NewOCRError(op, ErrImageDecode, err.Error())
	}
	return width, height, nil
}

func decodeImageSize(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
