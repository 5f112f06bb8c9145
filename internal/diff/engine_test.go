package diff

import (
	"math"
	"testing"

	"github.com/anime-shed/screenshot-differ/internal/imaging"
)

func fillImage(width, height int, r, g, b uint8) *imaging.Image {
	img := imaging.New(width, height)
	for i := 0; i < width*height; i++ {
		img.Pix[i*3] = r
		img.Pix[i*3+1] = g
		img.Pix[i*3+2] = b
	}
	return img
}

func TestCompare_IdenticalImages(t *testing.T) {
	a := fillImage(4, 4, 120, 30, 200)
	b := fillImage(4, 4, 120, 30, 200)

	diffImg, rms := Compare(a, b)

	if rms != 0 {
		t.Errorf("Expected RMS 0 for identical images, got %f", rms)
	}
	for i, v := range diffImg.Pix {
		if v != 0 {
			t.Fatalf("Expected all-zero diff image, got %d at index %d", v, i)
		}
	}
}

func TestCompare_BlackVsWhite(t *testing.T) {
	black := fillImage(2, 2, 0, 0, 0)
	white := fillImage(2, 2, 255, 255, 255)

	diffImg, rms := Compare(black, white)

	// Constant difference of 255 in every channel: per-channel RMS is
	// 255, and so is the combined score.
	if math.Abs(rms-255.0) > 1e-9 {
		t.Errorf("Expected RMS 255.0, got %f", rms)
	}
	for i, v := range diffImg.Pix {
		if v != 255 {
			t.Fatalf("Expected diff value 255, got %d at index %d", v, i)
		}
	}
}

func TestCompare_Symmetry(t *testing.T) {
	a := fillImage(3, 3, 10, 200, 90)
	b := fillImage(3, 3, 90, 15, 230)

	_, rmsAB := Compare(a, b)
	_, rmsBA := Compare(b, a)

	if rmsAB != rmsBA {
		t.Errorf("Expected symmetric RMS, got %f vs %f", rmsAB, rmsBA)
	}
}

func TestCompare_SingleChannelDifference(t *testing.T) {
	a := fillImage(2, 2, 0, 0, 0)
	b := fillImage(2, 2, 30, 0, 0)

	_, rms := Compare(a, b)

	// One channel at constant 30, two at 0: sqrt((30^2+0+0)/3)
	expected := math.Sqrt(900.0 / 3.0)
	if math.Abs(rms-expected) > 1e-9 {
		t.Errorf("Expected RMS %f, got %f", expected, rms)
	}
}

func TestCompare_UnevenChannelSplit(t *testing.T) {
	// Pin the two-level combination: per-channel RMS over pixels first,
	// then RMS across the three channel values.
	a := imaging.New(2, 1)
	b := imaging.New(2, 1)
	// Pixel 0 differs by 60 in red, pixel 1 by 80 in green.
	b.Pix[0] = 60
	b.Pix[4] = 80

	_, rms := Compare(a, b)

	redRMS := math.Sqrt((60.0*60.0 + 0) / 2.0)
	greenRMS := math.Sqrt((0 + 80.0*80.0) / 2.0)
	expected := math.Sqrt((redRMS*redRMS + greenRMS*greenRMS + 0) / 3.0)
	if math.Abs(rms-expected) > 1e-9 {
		t.Errorf("Expected two-level RMS %f, got %f", expected, rms)
	}
}

func TestCompare_EmptyImage(t *testing.T) {
	a := imaging.New(0, 0)
	b := imaging.New(0, 0)

	_, rms := Compare(a, b)

	if rms != 0 {
		t.Errorf("Expected RMS 0 for empty images, got %f", rms)
	}
}
