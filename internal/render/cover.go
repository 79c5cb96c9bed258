package render

import (
	"bytes"
	"encoding/base64"

	"github.com/disintegration/imaging"
)

// coverThumbnailEdge is the bounding box for library-grid thumbnails.
const coverThumbnailEdge = 400

// CoverThumbnail returns the detected cover image as a JPEG data URI scaled
// to fit the thumbnail bounding box. The second return is false when the
// book has no usable cover.
func (s *Session) CoverThumbnail() (string, bool) {
	info := s.Package.DetectCover()
	if info == nil {
		return "", false
	}

	data, err := s.Archive.Read(info.Path)
	if err != nil {
		return "", false
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		// Undecodable but present: hand back the original bytes.
		return "data:" + info.MediaType + ";base64," + base64.StdEncoding.EncodeToString(data), true
	}

	thumb := imaging.Fit(img, coverThumbnailEdge, coverThumbnailEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "data:" + info.MediaType + ";base64," + base64.StdEncoding.EncodeToString(data), true
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), true
}
