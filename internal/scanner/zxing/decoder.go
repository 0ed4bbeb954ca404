// Package zxing provides the production frame decoder on top of gozxing.
package zxing

import (
	"image"
	"image/draw"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/mkravets/pantry-backend/internal/scanner"
)

// Decoder decodes a fixed central region of each frame, trying every
// supported symbol format until one reads.
type Decoder struct {
	boxSize int
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewDecoder creates a Decoder with the given central detection region size.
func NewDecoder(boxSize int) *Decoder {
	return &Decoder{
		boxSize: boxSize,
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewEAN13Reader(),
			oned.NewUPCAReader(),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			oned.NewEAN8Reader(),
			oned.NewUPCEReader(),
			oned.NewITFReader(),
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode implements scanner.Decoder. Anything that prevents a read — an
// unreadable frame or no code in the detection region — is a per-frame miss.
func (d *Decoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(cropCenter(img, d.boxSize))
	if err != nil {
		return "", scanner.ErrNoCode
	}

	for _, r := range d.readers {
		result, err := r.Decode(bmp, d.hints)
		if err == nil {
			return result.GetText(), nil
		}
	}
	return "", scanner.ErrNoCode
}

// cropCenter extracts the central square detection region. Frames already
// smaller than the region pass through untouched.
func cropCenter(img image.Image, box int) image.Image {
	b := img.Bounds()
	if box <= 0 || (b.Dx() <= box && b.Dy() <= box) {
		return img
	}

	side := box
	if b.Dx() < side {
		side = b.Dx()
	}
	if b.Dy() < side {
		side = b.Dy()
	}

	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	region := image.Rect(x0, y0, x0+side, y0+side)

	out := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(out, out.Bounds(), img, region.Min, draw.Src)
	return out
}
