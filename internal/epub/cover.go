package epub

import (
	"path"
	"strings"
)

// CoverInfo identifies the detected cover image.
type CoverInfo struct {
	ManifestID string
	Path       string
	MediaType  string
	Method     string // "properties", "meta", "guide", "filename"
}

// DetectCover finds the cover image using four methods in priority order:
//  1. properties="cover-image" (EPUB 3.0)
//  2. meta name="cover" (EPUB 2.0)
//  3. guide type="cover" matched to image manifest items
//  4. filename pattern (basename contains "cover", SVG excluded)
//
// Returns nil if no cover image is found.
func (p *PackageInfo) DetectCover() *CoverInfo {
	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		if item.HasProperty("cover-image") {
			return &CoverInfo{ManifestID: item.ID, Path: item.Path, MediaType: item.MediaType, Method: "properties"}
		}
	}

	if p.Metadata.CoverID != "" {
		if item, ok := p.Manifest[p.Metadata.CoverID]; ok {
			return &CoverInfo{ManifestID: item.ID, Path: item.Path, MediaType: item.MediaType, Method: "meta"}
		}
	}

	for _, ref := range p.Guide {
		if ref.Type != "cover" {
			continue
		}
		guidePath, _ := SplitFragment(ref.Href)
		guidePath = ResolveHref(p.Path, guidePath)
		for _, id := range p.ManifestOrder {
			item := p.Manifest[id]
			if isRasterImage(item.MediaType) && item.Path == guidePath {
				return &CoverInfo{ManifestID: item.ID, Path: item.Path, MediaType: item.MediaType, Method: "guide"}
			}
		}
	}

	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		if !isRasterImage(item.MediaType) {
			continue
		}
		if strings.Contains(strings.ToLower(path.Base(item.Path)), "cover") {
			return &CoverInfo{ManifestID: item.ID, Path: item.Path, MediaType: item.MediaType, Method: "filename"}
		}
	}

	return nil
}

// isRasterImage reports whether a media type is a raster image (SVG excluded).
func isRasterImage(mediaType string) bool {
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
