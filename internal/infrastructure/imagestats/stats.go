// Package imagestats computes the aggregate pixel statistics consumed by the freshness scorer.
package imagestats

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"

	"github.com/groceryai/backend/internal/domain"
)

// Decode reads a JPEG or PNG image and returns its statistics.
// Images whose declared canvas exceeds maxPixels are rejected before any pixel data is decoded.
func Decode(r io.Reader, maxPixels int64) (domain.ImageStats, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ImageStats{}, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.ImageStats{}, "", fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > maxPixels {
		return domain.ImageStats{}, "", fmt.Errorf("%w: %dx%d exceeds %d pixels",
			domain.ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ImageStats{}, "", fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	return Compute(img), format, nil
}

// Compute returns channel count, mean and population standard deviation of every channel sample.
// Single-channel models report 1 channel, models with alpha or CMYK report 4; all others are 3-channel color.
// Samples are taken as 8-bit gray for single-channel images and 8-bit R, G, B otherwise.
func Compute(img image.Image) domain.ImageStats {
	channels := channelCount(img.ColorModel())
	bounds := img.Bounds()
	if bounds.Empty() {
		return domain.ImageStats{Channels: channels}
	}

	var sum, sumSquares float64
	var n int
	add := func(v uint8) {
		f := float64(v)
		sum += f
		sumSquares += f * f
		n++
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			if channels == 1 {
				add(color.GrayModel.Convert(c).(color.Gray).Y)
				continue
			}
			rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
			add(rgba.R)
			add(rgba.G)
			add(rgba.B)
		}
	}

	mean := sum / float64(n)
	variance := sumSquares/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}

	return domain.ImageStats{
		Channels:   channels,
		Brightness: mean,
		Contrast:   math.Sqrt(variance),
	}
}

func channelCount(model color.Model) int {
	if _, ok := model.(color.Palette); ok {
		return 1
	}
	switch model {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.NRGBAModel, color.NRGBA64Model, color.CMYKModel:
		return 4
	}
	return 3
}
