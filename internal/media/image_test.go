package media

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"testing"

	"github.com/saathi-labs/saathi/config"
)

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{
		MaxImageBytes:     10 << 20,
		MaxAudioBytes:     25 << 20,
		MaxImageDimension: 2048,
		JPEGQuality:       85,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessScreenshotConvertsToJPEG(t *testing.T) {
	out, err := ProcessScreenshot(pngBytes(t, 64, 48), testLimits())
	if err != nil {
		t.Fatalf("ProcessScreenshot: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output, got %s", format)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Fatalf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessScreenshotDownscalesLargeImage(t *testing.T) {
	limits := testLimits()
	limits.MaxImageDimension = 32

	out, err := ProcessScreenshot(pngBytes(t, 100, 50), limits)
	if err != nil {
		t.Fatalf("ProcessScreenshot: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 16 {
		t.Fatalf("expected 32x16 after downscale, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessScreenshotRejectsOversized(t *testing.T) {
	limits := testLimits()
	limits.MaxImageBytes = 16

	if _, err := ProcessScreenshot(pngBytes(t, 64, 64), limits); err == nil {
		t.Fatal("expected error for oversized image")
	}
}

func TestProcessScreenshotRejectsGarbage(t *testing.T) {
	if _, err := ProcessScreenshot([]byte("not an image"), testLimits()); err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if _, err := ProcessScreenshot(nil, testLimits()); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
