package epub

// PackageInfo is the parsed package document: manifest, linear reading
// order, and book metadata. Immutable after ParsePackage returns.
type PackageInfo struct {
	Path          string // in-archive path of the package document
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []SpineItem
	Guide         []GuideReference
}

// Metadata represents the metadata section of the package document.
type Metadata struct {
	Title       string
	Creators    []Creator
	Language    string
	Identifier  string
	Publisher   string
	Date        string
	Description string
	Subjects    []string
	Rights      string
	CoverID     string // EPUB 2.0 cover image manifest item ID (from meta name="cover")
}

// Creator represents a creator (author, editor, etc.) of the book.
type Creator struct {
	Name string
	Role string // e.g., "aut" for author, "edt" for editor
	Lang string // xml:lang attribute
}

// ManifestItem represents one declared resource.
type ManifestItem struct {
	ID         string
	Href       string // as declared in the package document
	Path       string // resolved absolute in-archive path
	MediaType  string
	Properties []string
}

// SpineItem is a manifest reference at a position in linear reading order.
// Index is load-bearing: it drives progress and next/previous semantics.
type SpineItem struct {
	ItemID    string
	Path      string
	MediaType string
	Linear    bool
	Index     int
}

// GuideReference is an EPUB 2.0 guide entry.
type GuideReference struct {
	Type  string
	Title string
	Href  string
}

// NavNode is one entry in the table of contents tree. Children are owned
// outright; the tree is read-only after construction.
type NavNode struct {
	Label    string
	Href     string // resolved absolute in-archive path, may carry a fragment
	Children []NavNode
}

// HasProperty reports whether the manifest item declares the given property.
func (m ManifestItem) HasProperty(prop string) bool {
	for _, p := range m.Properties {
		if p == prop {
			return true
		}
	}
	return false
}
