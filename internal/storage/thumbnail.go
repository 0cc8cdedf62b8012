package storage

import (
	"bytes"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 320

// Thumbnail renders a JPEG thumbnail of the image in data, resized to
// 320px wide with the aspect ratio preserved.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
