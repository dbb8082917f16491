package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// recodeJPEG decodes raw image bytes, scales them down to maxWidth if they
// are wider, and re-encodes as JPEG. Images at or under the bound keep their
// pixel dimensions but still go through the JPEG encoder so every local
// photo ends up in one predictable format.
func recodeJPEG(raw []byte, maxWidth, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxWidth {
		h := bounds.Dy() * maxWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
