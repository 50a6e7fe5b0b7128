package util

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Downscale fits the image into maxSide x maxSide and re-encodes it as JPEG.
// Images already within the bound, or maxSide <= 0, are returned untouched with changed=false.
func Downscale(data []byte, maxSide int) (out []byte, mime string, changed bool, err error) {
	if maxSide <= 0 {
		return data, "", false, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", false, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return data, "", false, nil
	}

	fitted := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", false, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", true, nil
}
