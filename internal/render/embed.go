package render

import (
	"bytes"
	"encoding/base64"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/okanagi/leafview/internal/epub"
)

// defaultMaxEmbedWidth caps the pixel width of embedded rasters. Anything
// wider gets downscaled before encoding so data URIs stay manageable.
const defaultMaxEmbedWidth = 1600

// extMediaTypes maps file extensions to media types for resources the
// manifest does not declare.
var extMediaTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
}

// Embedder turns in-archive image references into self-contained data URIs.
type Embedder struct {
	archive    *epub.Archive
	mediaTypes map[string]string // resolved path -> declared media type
	MaxWidth   int
}

func newEmbedder(a *epub.Archive, pkg *epub.PackageInfo) *Embedder {
	types := make(map[string]string)
	if pkg != nil {
		for _, id := range pkg.ManifestOrder {
			item := pkg.Manifest[id]
			if item.MediaType != "" {
				types[item.Path] = item.MediaType
			}
		}
	}
	return &Embedder{
		archive:    a,
		mediaTypes: types,
		MaxWidth:   defaultMaxEmbedWidth,
	}
}

// DataURI resolves ref against the directory of basePath, reads the entry,
// and returns it as a base64 data URI. The second return is false when the
// entry is absent; the caller leaves the original reference untouched.
func (e *Embedder) DataURI(basePath, ref string) (string, bool) {
	target, _ := epub.SplitFragment(ref)
	if target == "" {
		return "", false
	}
	resolved := epub.ResolveHref(basePath, target)

	data, err := e.archive.Read(resolved)
	if err != nil {
		return "", false
	}

	mediaType := e.mediaTypeFor(resolved)
	data = e.shrink(data, mediaType)

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// mediaTypeFor prefers the manifest-declared media type and falls back to
// the file extension.
func (e *Embedder) mediaTypeFor(resolved string) string {
	if mt, ok := e.mediaTypes[resolved]; ok {
		return mt
	}
	if mt, ok := extMediaTypes[strings.ToLower(path.Ext(resolved))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// shrink downscales oversized JPEG and PNG images before embedding. Any
// decode or encode failure returns the original bytes unchanged; embedding
// never fails harder than using the bytes as they were.
func (e *Embedder) shrink(data []byte, mediaType string) []byte {
	if e.MaxWidth <= 0 {
		return data
	}

	var format imaging.Format
	switch mediaType {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	default:
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= e.MaxWidth {
		return data
	}

	resized := imaging.Resize(img, e.MaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return data
	}
	return buf.Bytes()
}
