package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/okanagi/leafview/internal/epub"
)

// ErrBuildInProgress is returned when a whole-book assembly is requested
// while another one is already running for the same session.
var ErrBuildInProgress = errors.New("whole-book assembly already in progress")

// sectionDivider visually separates consecutive sections in the combined
// document.
const sectionDivider = `<hr class="section-break"/>`

// Section is one addressable unit of the combined document.
type Section struct {
	ID   string
	Path string
}

// AssembledBook is the whole-book assembly result: every eligible spine
// entry normalized once, concatenated in spine order, with per-section
// anchors retained for navigation.
type AssembledBook struct {
	HTML     string
	Sections []Section
	Nav      []epub.NavNode

	byPath map[string]string
}

// BuildBook normalizes every content-document spine entry and concatenates
// the fragments. Non-document manifest entries that leaked into the spine
// (fonts, CSS) are skipped. Only one build may run per session at a time;
// the context aborts the batch between chapters.
func (s *Session) BuildBook(ctx context.Context) (*AssembledBook, error) {
	if !s.building.CompareAndSwap(false, true) {
		return nil, ErrBuildInProgress
	}
	defer s.building.Store(false)

	book := &AssembledBook{
		Nav:    s.Nav,
		byPath: make(map[string]string),
	}

	var b strings.Builder
	for _, item := range s.Package.Spine {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isContentDocument(item.MediaType) {
			continue
		}

		frag := s.norm.Normalize(item)
		if len(book.Sections) > 0 {
			b.WriteString(sectionDivider)
		}
		fmt.Fprintf(&b, `<section id="%s" data-source="%s">`, frag.SectionID, html.EscapeString(frag.Path))
		b.WriteString(frag.HTML)
		b.WriteString(`</section>`)

		book.Sections = append(book.Sections, Section{ID: frag.SectionID, Path: frag.Path})
		if _, seen := book.byPath[frag.Path]; !seen {
			book.byPath[frag.Path] = frag.SectionID
		}
	}

	book.HTML = b.String()
	return book, nil
}

// SectionIDForHref resolves a table-of-contents href to a section
// identifier, comparing paths with any fragment identifier stripped.
func (ab *AssembledBook) SectionIDForHref(href string) (string, bool) {
	target, _ := epub.SplitFragment(href)
	id, ok := ab.byPath[target]
	return id, ok
}

// isContentDocument reports whether a media type names a renderable content
// document.
func isContentDocument(mediaType string) bool {
	return strings.Contains(mediaType, "html")
}
