// Package diff computes per-pair difference images, the scalar RMS
// dissimilarity score, and the verdict derived from it.
package diff

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/screenshot-differ/internal/imaging"
)

// Compare computes the per-pixel absolute difference between two
// same-sized images and the scalar RMS score over that difference.
//
// The score is computed in two levels: first the RMS of each channel
// over all pixels, then the RMS of the (three) channel values. This is
// not the same number as a single flat RMS over every channel-pixel
// value; the thresholds were tuned against the two-level form, so it
// must stay that way.
func Compare(a, b *imaging.Image) (*imaging.Image, float64) {
	n := a.Width * a.Height
	out := imaging.New(a.Width, a.Height)
	if n == 0 {
		return out, 0
	}

	squared := [3][]float64{}
	for c := range squared {
		squared[c] = make([]float64, 0, n)
	}

	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			d := int(a.Pix[i*3+c]) - int(b.Pix[i*3+c])
			if d < 0 {
				d = -d
			}
			out.Pix[i*3+c] = uint8(d)
			squared[c] = append(squared[c], float64(d)*float64(d))
		}
	}

	var sumOfSquares float64
	for c := 0; c < 3; c++ {
		channelRMS := math.Sqrt(stat.Mean(squared[c], nil))
		sumOfSquares += channelRMS * channelRMS
	}
	return out, math.Sqrt(sumOfSquares / 3)
}
