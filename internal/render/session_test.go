package render

import (
	"strings"
	"testing"
)

func TestOpenSession_CorruptBytes(t *testing.T) {
	_, err := OpenSession([]byte("junk"), "junk.epub")
	if err == nil {
		t.Fatal("OpenSession() expected error")
	}
	if !strings.Contains(err.Error(), "failed to open book") {
		t.Errorf("error %q missing user-facing prefix", err)
	}
}

func TestOpenSession_MissingContainerDescriptor(t *testing.T) {
	data := buildBook(t, map[string]string{
		"OEBPS/content.opf": chapterOPF("ch1.xhtml"),
	})

	_, err := OpenSession(data, "broken.epub")
	if err == nil {
		t.Fatal("OpenSession() expected error")
	}
	if !strings.Contains(err.Error(), "failed to open book") {
		t.Errorf("error %q missing user-facing prefix", err)
	}
}

func TestSession_TitleFallback(t *testing.T) {
	s := openTestSession(t, map[string]string{
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title></dc:title></metadata>
  <manifest><item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
		"OEBPS/ch1.xhtml": `<html><body><p>x</p></body></html>`,
	})

	// openTestSession names every book test.epub.
	if got := s.Title(); got != "test" {
		t.Errorf("Title() = %q, want file name fallback %q", got, "test")
	}
}

func TestSession_FragmentOutOfRange(t *testing.T) {
	s := openTestSession(t, map[string]string{
		"OEBPS/content.opf": chapterOPF("ch1.xhtml"),
		"OEBPS/ch1.xhtml":   `<html><body><p>x</p></body></html>`,
	})

	frag := s.Fragment(7)
	if frag.HTML != missingChapterHTML {
		t.Errorf("Fragment(7).HTML = %q, want placeholder", frag.HTML)
	}
}
