package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/saathi-labs/saathi/config"
)

// ProcessScreenshot validates and normalizes a screenshot before it is sent to
// the vision model: enforce the size cap, decode, downscale so the longest side
// fits cfg.MaxImageDimension, and re-encode as JPEG. Returns the normalized
// JPEG bytes.
func ProcessScreenshot(raw []byte, cfg config.LimitsConfig) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	if int64(len(raw)) > cfg.MaxImageBytes {
		return nil, fmt.Errorf("image size %.2fMB exceeds maximum %.2fMB",
			float64(len(raw))/(1<<20), float64(cfg.MaxImageBytes)/(1<<20))
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("invalid image file: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > cfg.MaxImageDimension || bounds.Dy() > cfg.MaxImageDimension {
		img = imaging.Fit(img, cfg.MaxImageDimension, cfg.MaxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
