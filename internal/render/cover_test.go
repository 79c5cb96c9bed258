package render

import (
	"strings"
	"testing"
)

func TestSession_CoverThumbnail(t *testing.T) {
	s := openTestSession(t, map[string]string{
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="cov" href="images/front.png" media-type="image/png" properties="cover-image"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
		"OEBPS/ch1.xhtml":        `<html><body><p>x</p></body></html>`,
		"OEBPS/images/front.png": string(encodePNG(t, 800, 1200)),
	})

	uri, ok := s.CoverThumbnail()
	if !ok {
		t.Fatal("CoverThumbnail() = false, want true")
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("CoverThumbnail() = %q, want JPEG data URI", uri[:40])
	}
}

func TestSession_CoverThumbnailNoCover(t *testing.T) {
	s := openTestSession(t, map[string]string{
		"OEBPS/content.opf": chapterOPF("ch1.xhtml"),
		"OEBPS/ch1.xhtml":   `<html><body><p>x</p></body></html>`,
	})

	if _, ok := s.CoverThumbnail(); ok {
		t.Error("CoverThumbnail() = true for book without cover")
	}
}
