package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"strings"
)

const containerPath = "META-INF/container.xml"

var (
	ErrMissingContainer = errors.New("META-INF/container.xml not found")
	ErrMissingPackage   = errors.New("package document not found")
	ErrMalformedPackage = errors.New("malformed package document")
)

// xmlContainer mirrors META-INF/container.xml.
type xmlContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// xmlPackage mirrors the OPF package document.
type xmlPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata xmlMetadata `xml:"metadata"`
	Manifest struct {
		Items []xmlManifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
	Guide struct {
		References []struct {
			Type  string `xml:"type,attr"`
			Title string `xml:"title,attr"`
			Href  string `xml:"href,attr"`
		} `xml:"reference"`
	} `xml:"guide"`
}

type xmlManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type xmlMetadata struct {
	Title       []string        `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator     []xmlCreator    `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language    []string        `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifier  []xmlIdentifier `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Publisher   []string        `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Date        []string        `xml:"http://purl.org/dc/elements/1.1/ date"`
	Description []string        `xml:"http://purl.org/dc/elements/1.1/ description"`
	Subject     []string        `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Rights      []string        `xml:"http://purl.org/dc/elements/1.1/ rights"`
	Meta        []xmlMeta       `xml:"meta"`
}

type xmlCreator struct {
	Name string `xml:",chardata"`
	Role string `xml:"http://www.idpf.org/2007/opf role,attr"`
	Lang string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	ID   string `xml:"id,attr"`
}

type xmlIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

type xmlMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"` // EPUB 2.0: attribute value
	Value    string `xml:",chardata"`    // EPUB 3.0: element text content
	Property string `xml:"property,attr"`
	Refines  string `xml:"refines,attr"`
}

// ParsePackage locates and parses the package document of an opened
// container. It is the only fatal parsing step after OpenArchive: the
// container descriptor and the package document must both exist and parse.
func ParsePackage(a *Archive) (*PackageInfo, error) {
	containerData, err := a.Read(containerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingContainer, err)
	}

	var c xmlContainer
	if err := lenientUnmarshal(containerData, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingContainer, err)
	}

	opfPath := packageDocumentPath(&c)
	if opfPath == "" {
		return nil, fmt.Errorf("%w: container.xml declares no rootfile", ErrMissingPackage)
	}

	opfData, err := a.Read(opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPackage, opfPath)
	}

	var pkg xmlPackage
	if err := lenientUnmarshal(opfData, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackage, err)
	}

	info := &PackageInfo{
		Path:     opfPath,
		Manifest: make(map[string]ManifestItem, len(pkg.Manifest.Items)),
	}

	info.Metadata = parseMetadata(&pkg.Metadata, pkg.UniqueID)

	for _, item := range pkg.Manifest.Items {
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			Path:      ResolveHref(opfPath, item.Href),
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		info.Manifest[item.ID] = mi
		info.ManifestOrder = append(info.ManifestOrder, item.ID)
	}

	// Spine order is exactly document order of itemref elements. Unknown
	// idrefs are dropped, not fatal.
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := info.Manifest[ref.IDRef]
		if !ok {
			log.Printf("warning: spine itemref %q not in manifest, dropping", ref.IDRef)
			continue
		}
		info.Spine = append(info.Spine, SpineItem{
			ItemID:    item.ID,
			Path:      item.Path,
			MediaType: item.MediaType,
			Linear:    ref.Linear != "no",
			Index:     len(info.Spine),
		})
	}

	for _, ref := range pkg.Guide.References {
		info.Guide = append(info.Guide, GuideReference{
			Type:  ref.Type,
			Title: ref.Title,
			Href:  ref.Href,
		})
	}

	return info, nil
}

// packageDocumentPath extracts the package document path from the container
// descriptor, preferring a rootfile with the OPF media type.
func packageDocumentPath(c *xmlContainer) string {
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath == "" {
			continue
		}
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			return ResolveHref("", rf.FullPath)
		}
	}
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath != "" {
			return ResolveHref("", rf.FullPath)
		}
	}
	return ""
}

// lenientUnmarshal decodes XML with relaxed syntax checking and HTML entity
// support. Package documents in the wild routinely use &nbsp; and friends.
func lenientUnmarshal(data []byte, v any) error {
	dec := xml.NewDecoder(strings.NewReader(string(stripBOM(data))))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	return dec.Decode(v)
}

// parseMetadata flattens the repeated metadata elements into one Metadata.
func parseMetadata(meta *xmlMetadata, uniqueID string) Metadata {
	md := Metadata{}

	if len(meta.Title) > 0 {
		md.Title = strings.TrimSpace(meta.Title[0])
	}
	if len(meta.Language) > 0 {
		md.Language = meta.Language[0]
	}

	// Prefer the identifier marked as unique-identifier.
	for _, id := range meta.Identifier {
		if id.ID == uniqueID {
			md.Identifier = id.Value
			break
		}
	}
	if md.Identifier == "" && len(meta.Identifier) > 0 {
		md.Identifier = meta.Identifier[0].Value
	}

	if len(meta.Publisher) > 0 {
		md.Publisher = meta.Publisher[0]
	}
	if len(meta.Date) > 0 {
		md.Date = meta.Date[0]
	}
	if len(meta.Description) > 0 {
		md.Description = meta.Description[0]
	}
	md.Subjects = meta.Subject
	if len(meta.Rights) > 0 {
		md.Rights = meta.Rights[0]
	}

	for _, creator := range meta.Creator {
		md.Creators = append(md.Creators, Creator{
			Name: strings.TrimSpace(creator.Name),
			Role: creator.Role,
			Lang: creator.Lang,
		})
	}
	applyCreatorRefinements(&md, meta)

	for _, m := range meta.Meta {
		if m.Name == "cover" && m.Content != "" {
			md.CoverID = m.Content
			break
		}
	}

	return md
}

// applyCreatorRefinements resolves EPUB 3.0 meta refines="#id" role elements
// onto the creators parsed from dc:creator.
func applyCreatorRefinements(md *Metadata, meta *xmlMetadata) {
	byRef := make(map[string]int)
	for i := range md.Creators {
		for _, orig := range meta.Creator {
			if strings.TrimSpace(orig.Name) == md.Creators[i].Name && orig.ID != "" {
				byRef["#"+orig.ID] = i
				break
			}
		}
	}

	for _, m := range meta.Meta {
		if m.Property != "role" || m.Refines == "" {
			continue
		}
		idx, ok := byRef[m.Refines]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(m.Value); v != "" {
			md.Creators[idx].Role = v
		} else if m.Content != "" {
			md.Creators[idx].Role = m.Content
		}
	}
}
