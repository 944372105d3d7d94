package logo

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// canvasSize is the side of the square canvas every resolved logo is
// rendered onto.
const canvasSize = 48

// minBlobSize is the minimum body size considered a real image; provider
// error pages and empty responses fall under it.
const minBlobSize = 50

// minDimension is the smallest acceptable logo side in pixels.
const minDimension = 8

var errNotAnImage = errors.New("not a decodable image")

// probeDims returns the pixel dimensions of the image payload. Standard
// formats go through image.DecodeConfig; .ico payloads are probed through
// their directory header.
func probeDims(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg.Width, cfg.Height, nil
	}
	if w, h, ok := icoDims(data); ok {
		return w, h, nil
	}
	return 0, 0, errNotAnImage
}

// Usable reports whether the payload passes the size and dimension
// thresholds required of a provider response.
func Usable(data []byte) bool {
	if len(data) < minBlobSize {
		return false
	}
	w, h, err := probeDims(data)
	if err != nil {
		return false
	}
	return w >= minDimension && h >= minDimension
}

// Normalize renders the image payload onto the fixed square canvas, scaled
// preserving aspect ratio and centered, and returns it as a PNG data URL.
// An .ico payload whose best entry is PNG-encoded is unwrapped first; other
// .ico payloads are embedded as-is since they already render in browsers.
func Normalize(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if payload, ok := icoPNGEntry(data); ok {
			src, err = png.Decode(bytes.NewReader(payload))
		}
		if err != nil {
			if _, _, ok := icoDims(data); ok {
				return "data:image/x-icon;base64," + base64.StdEncoding.EncodeToString(data), nil
			}
			return "", errNotAnImage
		}
	}

	b := src.Bounds()
	scale := float64(canvasSize) / float64(b.Dx())
	if s := float64(canvasSize) / float64(b.Dy()); s < scale {
		scale = s
	}
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	x := (canvasSize - w) / 2
	y := (canvasSize - h) / 2

	dst := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// icoDims parses the ICO directory header and returns the dimensions of the
// largest entry. A stored size byte of 0 means 256.
func icoDims(data []byte) (int, int, bool) {
	if len(data) < 22 {
		return 0, 0, false
	}
	if binary.LittleEndian.Uint16(data[0:2]) != 0 || binary.LittleEndian.Uint16(data[2:4]) != 1 {
		return 0, 0, false
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count == 0 || len(data) < 6+count*16 {
		return 0, 0, false
	}

	bestW, bestH := 0, 0
	for i := 0; i < count; i++ {
		entry := data[6+i*16:]
		w, h := int(entry[0]), int(entry[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		if w*h > bestW*bestH {
			bestW, bestH = w, h
		}
	}
	return bestW, bestH, true
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// icoPNGEntry returns the payload of the largest ICO entry when that entry
// is PNG-encoded (common for modern favicons).
func icoPNGEntry(data []byte) ([]byte, bool) {
	if _, _, ok := icoDims(data); !ok {
		return nil, false
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))

	var best []byte
	bestArea := 0
	for i := 0; i < count; i++ {
		entry := data[6+i*16:]
		w, h := int(entry[0]), int(entry[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		size := int(binary.LittleEndian.Uint32(entry[8:12]))
		offset := int(binary.LittleEndian.Uint32(entry[12:16]))
		if offset < 0 || size <= 0 || offset+size > len(data) {
			continue
		}
		payload := data[offset : offset+size]
		if w*h > bestArea && bytes.HasPrefix(payload, pngMagic) {
			best = payload
			bestArea = w * h
		}
	}
	return best, best != nil
}
