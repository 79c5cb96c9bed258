package render

import (
	"fmt"
	"path"
	"strings"
	"sync/atomic"

	"github.com/okanagi/leafview/internal/epub"
)

// Session owns everything derived from one opened book: the decompressed
// archive, the parsed package, the navigation tree, and the normalizer.
// Discarding the session releases it all; re-opening the same book
// re-parses from bytes.
type Session struct {
	Name    string
	Archive *epub.Archive
	Package *epub.PackageInfo
	Nav     []epub.NavNode

	norm     *Normalizer
	building atomic.Bool
}

// OpenSession opens a book from raw container bytes. name is carried for
// display and as the persistence key; the core attaches no other semantics
// to it. Structural failures here are the only fatal ones; everything
// downstream degrades per-unit.
func OpenSession(data []byte, name string) (*Session, error) {
	archive, err := epub.OpenArchive(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open book: %w", err)
	}

	pkg, err := epub.ParsePackage(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to open book: %w", err)
	}

	return &Session{
		Name:    name,
		Archive: archive,
		Package: pkg,
		Nav:     epub.ParseNavigation(archive, pkg),
		norm:    NewNormalizer(archive, pkg),
	}, nil
}

// Title returns the declared book title, falling back to the file name.
func (s *Session) Title() string {
	if t := s.Package.Metadata.Title; t != "" {
		return t
	}
	base := path.Base(strings.ReplaceAll(s.Name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// SpineLength returns the number of entries in linear reading order.
func (s *Session) SpineLength() int {
	return len(s.Package.Spine)
}

// Fragment normalizes the spine entry at index. Out-of-range indexes yield
// a placeholder fragment rather than a panic.
func (s *Session) Fragment(index int) Fragment {
	if index < 0 || index >= len(s.Package.Spine) {
		return Fragment{
			SectionID: SectionIDForIndex(index),
			HTML:      missingChapterHTML,
		}
	}
	return s.norm.Normalize(s.Package.Spine[index])
}

// navLabelForPath walks the navigation tree depth-first and returns the
// label of the first entry whose fragment-free target matches the given
// in-archive path.
func navLabelForPath(nodes []epub.NavNode, target string) (string, bool) {
	for _, node := range nodes {
		nodePath, _ := epub.SplitFragment(node.Href)
		if nodePath != "" && nodePath == target {
			return node.Label, true
		}
		if label, ok := navLabelForPath(node.Children, target); ok {
			return label, true
		}
	}
	return "", false
}
