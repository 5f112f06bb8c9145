// Package imaging decodes screenshots into a uniform 3-channel pixel grid
// and normalizes pair dimensions before diffing.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
)

// Image is an RGB pixel grid with explicit dimensions. Pix holds three
// bytes per pixel in row-major order; alpha is dropped at decode time.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New creates a zero-filled image of the given dimensions
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Size formats the dimensions as "WxH"
func (im *Image) Size() string {
	return fmt.Sprintf("%dx%d", im.Width, im.Height)
}

// At returns the RGB channels of the pixel at (x, y)
func (im *Image) At(x, y int) (r, g, b uint8) {
	i := (y*im.Width + x) * 3
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
}

// ToNRGBA converts the image back to a standard library image for
// encoding and hashing. Alpha is fully opaque.
func (im *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			src := (y*im.Width + x) * 3
			dst := out.PixOffset(x, y)
			out.Pix[dst] = im.Pix[src]
			out.Pix[dst+1] = im.Pix[src+1]
			out.Pix[dst+2] = im.Pix[src+2]
			out.Pix[dst+3] = 0xff
		}
	}
	return out
}

// Load decodes the image file at path into RGB form
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads any registered image format and flattens it to RGB.
// Grayscale sources replicate luminance across the channels; alpha is
// dropped, not composited.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, apperrors.NewDecodeError("cannot decode image", err)
	}
	return FromImage(src), nil
}

// FromImage flattens a standard library image into RGB form
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	out := New(bounds.Dx(), bounds.Dy())

	// PNG screenshots decode as NRGBA. Read the channels directly so
	// transparent pixels keep their color: alpha is dropped, not
	// composited toward black.
	if n, ok := src.(*image.NRGBA); ok {
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				j := n.PixOffset(x, y)
				out.Pix[i] = n.Pix[j]
				out.Pix[i+1] = n.Pix[j+1]
				out.Pix[i+2] = n.Pix[j+2]
				i += 3
			}
		}
		return out
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			// 16-bit color values down to 8-bit channels
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return out
}

// NormalizePair places both images on a zero-filled canvas sized to the
// maximum width and height of the two inputs, each anchored at (0,0).
// Images that already share dimensions are returned unchanged. The
// returned flag reports whether the original dimensions differed.
//
// Anchoring at the origin means a pair whose second image is simply
// shorter will diff in the added border region. That is intentional:
// the mismatch is surfaced, never masked by scaling.
func NormalizePair(a, b *Image) (*Image, *Image, bool) {
	if a.Width == b.Width && a.Height == b.Height {
		return a, b, false
	}

	maxW := a.Width
	if b.Width > maxW {
		maxW = b.Width
	}
	maxH := a.Height
	if b.Height > maxH {
		maxH = b.Height
	}

	return padTo(a, maxW, maxH), padTo(b, maxW, maxH), true
}

func padTo(im *Image, width, height int) *Image {
	if im.Width == width && im.Height == height {
		return im
	}
	out := New(width, height)
	for y := 0; y < im.Height; y++ {
		srcRow := y * im.Width * 3
		dstRow := y * width * 3
		copy(out.Pix[dstRow:dstRow+im.Width*3], im.Pix[srcRow:srcRow+im.Width*3])
	}
	return out
}
