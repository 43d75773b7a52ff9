// Package matting removes image backgrounds for the cutout demo service.
//
// The removal algorithm is a deliberately simple stand-in so the service runs
// without native dependencies; Remover is the seam where a real engine plugs
// in.
package matting

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrUnprocessableImage is returned when an image cannot be processed, for
// example when it has no pixels.
var ErrUnprocessableImage = errors.New("image cannot be processed")

// Remover removes the background from an image, returning an image with an
// alpha channel where the background was.
type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// ChromaRemover removes backgrounds by sampling the corner pixels for a
// background color and clearing every pixel within a distance threshold.
type ChromaRemover struct {
	// Threshold is the maximum per-channel euclidean distance (0-255 scale)
	// at which a pixel still counts as background.
	Threshold float64
}

var _ Remover = (*ChromaRemover)(nil)

// DefaultThreshold matches typical flat studio backgrounds without eating
// into foreground subjects.
const DefaultThreshold = 48.0

// NewChromaRemover creates a remover with the default threshold.
func NewChromaRemover() *ChromaRemover {
	return &ChromaRemover{Threshold: DefaultThreshold}
}

// Remove clears background-colored pixels to transparent.
func (r *ChromaRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if img == nil {
		return nil, ErrUnprocessableImage
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds", ErrUnprocessableImage)
	}

	background := cornerColor(img)
	threshold := r.Threshold

	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		err := ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("background removal cancelled: %w", err)
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixel := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

			if colorDistance(pixel, background) <= threshold {
				pixel.A = 0
			}

			out.SetNRGBA(x, y, pixel)
		}
	}

	return out, nil
}

// cornerColor averages the four corner pixels as the background estimate.
func cornerColor(img image.Image) color.NRGBA {
	bounds := img.Bounds()

	corners := []image.Point{
		{bounds.Min.X, bounds.Min.Y},
		{bounds.Max.X - 1, bounds.Min.Y},
		{bounds.Min.X, bounds.Max.Y - 1},
		{bounds.Max.X - 1, bounds.Max.Y - 1},
	}

	var sumR, sumG, sumB int

	for _, corner := range corners {
		pixel := color.NRGBAModel.Convert(img.At(corner.X, corner.Y)).(color.NRGBA)
		sumR += int(pixel.R)
		sumG += int(pixel.G)
		sumB += int(pixel.B)
	}

	count := len(corners)

	return color.NRGBA{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
		A: 255,
	}
}

func colorDistance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)

	return math.Sqrt(dr*dr + dg*dg + db*db)
}
