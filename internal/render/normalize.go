package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/okanagi/leafview/internal/epub"
)

// Placeholder markup for sections that cannot be produced. One damaged
// chapter must never abort the whole book.
const (
	missingChapterHTML = `<div class="chapter-placeholder"><p>This section is missing from the book file.</p></div>`
	brokenChapterHTML  = `<div class="chapter-placeholder"><p>This section could not be loaded.</p></div>`
)

// Fragment is the sanitized markup for one spine position. It contains no
// style elements, no stylesheet links, no inline style attributes, and no
// relative image references.
type Fragment struct {
	SectionID string // stable per spine position
	Path      string // originating in-archive path, fragment-free
	HTML      string
}

// SectionIDForIndex returns the stable section identifier for a spine index.
func SectionIDForIndex(index int) string {
	return fmt.Sprintf("sec%03d", index+1)
}

// Normalizer rewrites spine documents into self-contained fragments safe for
// an isolated themed renderer.
type Normalizer struct {
	archive  *epub.Archive
	embedder *Embedder
}

// NewNormalizer creates a normalizer over an opened archive. The package
// info supplies declared media types for embedded resources.
func NewNormalizer(a *epub.Archive, pkg *epub.PackageInfo) *Normalizer {
	return &Normalizer{
		archive:  a,
		embedder: newEmbedder(a, pkg),
	}
}

// Normalize produces the sanitized fragment for one spine item. It never
// fails: unreadable or unparsable sources yield placeholder fragments.
func (n *Normalizer) Normalize(item epub.SpineItem) Fragment {
	frag := Fragment{
		SectionID: SectionIDForIndex(item.Index),
		Path:      item.Path,
	}

	text, err := n.archive.ReadText(item.Path)
	if err != nil {
		frag.HTML = missingChapterHTML
		return frag
	}

	// The html5 parser accepts both well-formed XHTML and tag soup, so a
	// separate strict XML pass buys nothing here; malformed real-world
	// chapters land on the same permissive path either way.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		frag.HTML = brokenChapterHTML
		return frag
	}

	stripStyling(doc)

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	root.Find("[style]").RemoveAttr("style")
	n.embedImages(root, item.Path)
	n.embedVectorImages(root, item.Path)

	inner, err := root.Html()
	if err != nil {
		frag.HTML = brokenChapterHTML
		return frag
	}

	frag.HTML = strings.TrimSpace(inner)
	return frag
}

// stripStyling removes style elements and stylesheet links from the whole
// document, not just the content root. The book's own styling must never
// leak into the themed renderer.
func stripStyling(doc *goquery.Document) {
	doc.Find("style").Remove()
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			s.Remove()
		}
	})
}

// embedImages replaces raster img references with inline data URIs. A
// reference that cannot be resolved or encoded is left byte-identical.
func (n *Normalizer) embedImages(root *goquery.Selection, basePath string) {
	root.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if uri, ok := n.embedder.DataURI(basePath, src); ok {
			s.SetAttr("src", uri)
		}
	})
}

// embedVectorImages performs the same replacement for SVG image elements.
// The result is written to both attribute spellings (href and xlink:href)
// since renderers disagree about which one they consult.
func (n *Normalizer) embedVectorImages(root *goquery.Selection, basePath string) {
	root.Find("image").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		ref := imageHrefValue(node)
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return
		}
		uri, ok := n.embedder.DataURI(basePath, ref)
		if !ok {
			return
		}
		setNodeAttr(node, "xlink", "href", uri)
		setNodeAttr(node, "", "href", uri)
	})
}

// imageHrefValue returns the image reference of an SVG image node under any
// of the attribute spellings the parser may have produced.
func imageHrefValue(node *html.Node) string {
	for _, attr := range node.Attr {
		if attr.Key == "href" || attr.Key == "xlink:href" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// setNodeAttr sets an attribute in place, adding it if absent. Namespaced
// attributes may be stored either with a Namespace field or a prefixed key.
func setNodeAttr(node *html.Node, namespace, key, val string) {
	prefixed := key
	if namespace != "" {
		prefixed = namespace + ":" + key
	}
	for i, attr := range node.Attr {
		if attr.Namespace == namespace && attr.Key == key {
			node.Attr[i].Val = val
			return
		}
		if attr.Namespace == "" && attr.Key == prefixed {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Namespace: namespace, Key: key, Val: val})
}
