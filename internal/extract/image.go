package extract

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// imaging registers jpeg/png/gif/bmp/tiff; webp uploads are allowed too.
	_ "golang.org/x/image/webp"
)

// maxImageWidth matches the client-side compression the scanner UI applies;
// anything wider just burns vision-model tokens without improving OCR.
const maxImageWidth = 1920

// PrepareImage downscales an invoice photo to at most maxImageWidth pixels
// wide and re-encodes it as JPEG. Images already within bounds are returned
// untouched so PNG uploads are not transcoded for nothing.
func PrepareImage(data []byte, contentType string) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	if img.Bounds().Dx() <= maxImageWidth {
		return data, contentType, nil
	}

	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("encoding resized image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
