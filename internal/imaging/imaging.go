// Package imaging normalizes item photos before they leave the server:
// every accepted photo is decoded, bounded in size and re-encoded as JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension is the maximum width or height of a normalized photo.
const MaxDimension = 1600

// JPEGQuality matches the quality the browser uses for camera captures.
const JPEGQuality = 92

// MaxInputBytes caps how much of an upload is read.
const MaxInputBytes = 10 << 20

// ErrUnsupportedFormat is returned for anything that is not JPEG, PNG or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooLarge is returned when the input exceeds MaxInputBytes.
var ErrTooLarge = errors.New("image too large")

var decoders = map[string]func(io.Reader) (image.Image, error){
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/webp": webp.Decode,
}

// Photo is a normalized photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Sniff returns the detected MIME type of data and whether it is accepted.
// Client-supplied content types are never trusted.
func Sniff(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	_, ok := decoders[mime]
	return mime, ok
}

// Normalize reads an image, checks its format by sniffing bytes, downscales
// it to fit MaxDimension and re-encodes it as JPEG.
func Normalize(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxInputBytes {
		return nil, ErrTooLarge
	}

	mime, ok := Sniff(data)
	if !ok {
		return nil, fmt.Errorf("%w: %s (JPEG, PNG and WebP accepted)", ErrUnsupportedFormat, mime)
	}

	img, err := decoders[mime](bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscale resizes img so neither side exceeds maxDim, keeping the aspect
// ratio. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
