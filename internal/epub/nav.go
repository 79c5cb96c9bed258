package epub

import (
	"bytes"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	ncxMediaType = "application/x-dtbncx+xml"
	navProperty  = "nav"

	// untitledLabel is used when a navigation entry has no display text.
	untitledLabel = "Untitled"
)

// ParseNavigation recovers the table of contents tree for a book. The legacy
// NCX document wins whenever it yields at least one entry; the EPUB 3 nav
// document is consulted only as a fallback, never merged. An empty slice
// means no navigation could be recovered, which is not an error.
func ParseNavigation(a *Archive, pkg *PackageInfo) []NavNode {
	if nodes := parseNCXNavigation(a, pkg); len(nodes) > 0 {
		return nodes
	}
	if nodes := parseNavDocument(a, pkg); len(nodes) > 0 {
		return nodes
	}
	return []NavNode{}
}

// resolveTarget resolves a navigation target against the document that
// declared it, keeping any fragment identifier. A fragment-only target
// points back into the declaring document itself.
func resolveTarget(docPath, target string) string {
	path, fragment := SplitFragment(target)
	var resolved string
	if path == "" {
		resolved = docPath
	} else {
		resolved = ResolveHref(docPath, path)
	}
	if fragment != "" {
		resolved += "#" + fragment
	}
	return resolved
}

// xmlNCX mirrors the navMap of an NCX document. Label and content elements
// are decoded as slices so the first one can be picked explicitly.
type xmlNCX struct {
	NavMap struct {
		Points []xmlNavPoint `xml:"navPoint"`
	} `xml:"navMap"`
}

type xmlNavPoint struct {
	Labels []struct {
		Text string `xml:"text"`
	} `xml:"navLabel"`
	Contents []struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Points []xmlNavPoint `xml:"navPoint"`
}

// parseNCXNavigation finds the manifest item with the NCX media type and
// parses its navPoint tree.
func parseNCXNavigation(a *Archive, pkg *PackageInfo) []NavNode {
	var ncxPath string
	for _, id := range pkg.ManifestOrder {
		if item := pkg.Manifest[id]; item.MediaType == ncxMediaType {
			ncxPath = item.Path
			break
		}
	}
	if ncxPath == "" {
		return nil
	}

	data, err := a.Read(ncxPath)
	if err != nil {
		log.Printf("warning: failed to read NCX %s: %v", ncxPath, err)
		return nil
	}

	var ncx xmlNCX
	if err := lenientUnmarshal(data, &ncx); err != nil {
		log.Printf("warning: failed to parse NCX %s: %v", ncxPath, err)
		return nil
	}

	return convertNavPoints(ncx.NavMap.Points, ncxPath)
}

// convertNavPoints recursively converts navPoint elements into NavNodes,
// resolving content sources against the NCX document's own path.
func convertNavPoints(points []xmlNavPoint, ncxPath string) []NavNode {
	nodes := make([]NavNode, 0, len(points))
	for _, p := range points {
		node := NavNode{Label: untitledLabel}
		if len(p.Labels) > 0 {
			if text := strings.TrimSpace(p.Labels[0].Text); text != "" {
				node.Label = text
			}
		}
		if len(p.Contents) > 0 {
			if src := strings.TrimSpace(p.Contents[0].Src); src != "" {
				node.Href = resolveTarget(ncxPath, src)
			}
		}
		node.Children = convertNavPoints(p.Points, ncxPath)
		nodes = append(nodes, node)
	}
	return nodes
}

// parseNavDocument finds the manifest item with the "nav" property and
// parses its list-of-links tree.
func parseNavDocument(a *Archive, pkg *PackageInfo) []NavNode {
	var navPath string
	for _, id := range pkg.ManifestOrder {
		if item := pkg.Manifest[id]; item.HasProperty(navProperty) {
			navPath = item.Path
			break
		}
	}
	if navPath == "" {
		return nil
	}

	data, err := a.Read(navPath)
	if err != nil {
		log.Printf("warning: failed to read nav document %s: %v", navPath, err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		log.Printf("warning: failed to parse nav document %s: %v", navPath, err)
		return nil
	}

	list := findTOCList(doc)
	if list == nil {
		return nil
	}
	return parseNavList(list, navPath)
}

// findTOCList picks the ordered list holding the table of contents: the nav
// element with epub:type="toc" if present, else the first nav element, else
// the first top-level ol in the document.
func findTOCList(doc *goquery.Document) *goquery.Selection {
	var nav *goquery.Selection
	doc.Find("nav").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if typ, _ := s.Attr("epub:type"); typ == "toc" {
			nav = s
			return false
		}
		return true
	})
	if nav == nil {
		if first := doc.Find("nav").First(); first.Length() > 0 {
			nav = first
		}
	}

	var list *goquery.Selection
	if nav != nil {
		list = nav.Find("ol").First()
	} else {
		list = doc.Find("ol").First()
	}
	if list == nil || list.Length() == 0 {
		return nil
	}
	return list
}

// parseNavList recursively converts an ol of li elements into NavNodes.
// Each li contributes a label (its link or span text) and an optional href
// resolved against the nav document's path; a nested ol becomes children.
func parseNavList(list *goquery.Selection, navPath string) []NavNode {
	var nodes []NavNode
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		node := NavNode{Label: untitledLabel}

		anchor := li.ChildrenFiltered("a").First()
		if anchor.Length() == 0 {
			anchor = li.ChildrenFiltered("span").First()
		}
		if anchor.Length() > 0 {
			if text := strings.TrimSpace(anchor.Text()); text != "" {
				node.Label = text
			}
			if href, ok := anchor.Attr("href"); ok {
				if href = strings.TrimSpace(href); href != "" {
					node.Href = resolveTarget(navPath, href)
				}
			}
		}

		if sub := li.ChildrenFiltered("ol").First(); sub.Length() > 0 {
			node.Children = parseNavList(sub, navPath)
		}
		nodes = append(nodes, node)
	})
	return nodes
}
