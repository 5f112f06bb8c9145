package diff

import (
	"github.com/corona10/goimagehash"

	"github.com/anime-shed/screenshot-differ/internal/imaging"
)

// HashDistance computes the perceptual hash distance between two images.
// It is reported alongside the RMS score as a structural cross-check but
// never feeds the classifier: the verdict is a function of RMS alone.
func HashDistance(a, b *imaging.Image) (int, error) {
	hashA, err := goimagehash.PerceptionHash(a.ToNRGBA())
	if err != nil {
		return 0, err
	}
	hashB, err := goimagehash.PerceptionHash(b.ToNRGBA())
	if err != nil {
		return 0, err
	}
	return hashA.Distance(hashB)
}
