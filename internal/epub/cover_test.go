package epub

import "testing"

func coverPackage(t *testing.T, opf string) *PackageInfo {
	t.Helper()
	a := openTestArchive(t, map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      opf,
	})
	pkg, err := ParsePackage(a)
	if err != nil {
		t.Fatalf("ParsePackage() error = %v", err)
	}
	return pkg
}

func TestDetectCover(t *testing.T) {
	tests := []struct {
		name       string
		opf        string
		wantPath   string
		wantMethod string
	}{
		{
			name: "epub3 cover-image property",
			opf: `<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest>
    <item id="img1" href="images/front.jpg" media-type="image/jpeg" properties="cover-image"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
			wantPath:   "OEBPS/images/front.jpg",
			wantMethod: "properties",
		},
		{
			name: "epub2 meta cover",
			opf: `<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>T</dc:title>
    <meta name="cover" content="img1"/>
  </metadata>
  <manifest>
    <item id="img1" href="images/art.png" media-type="image/png"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
			wantPath:   "OEBPS/images/art.png",
			wantMethod: "meta",
		},
		{
			name: "guide reference matched to image item",
			opf: `<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest>
    <item id="img1" href="images/frontispiece.png" media-type="image/png"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
  <guide><reference type="cover" title="Cover" href="images/frontispiece.png"/></guide>
</package>`,
			wantPath:   "OEBPS/images/frontispiece.png",
			wantMethod: "guide",
		},
		{
			name: "filename pattern, svg excluded",
			opf: `<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest>
    <item id="v" href="images/cover.svg" media-type="image/svg+xml"/>
    <item id="img1" href="images/Cover-Art.jpg" media-type="image/jpeg"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`,
			wantPath:   "OEBPS/images/Cover-Art.jpg",
			wantMethod: "filename",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := coverPackage(t, tt.opf)
			info := pkg.DetectCover()
			if info == nil {
				t.Fatal("DetectCover() = nil")
			}
			if info.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", info.Path, tt.wantPath)
			}
			if info.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", info.Method, tt.wantMethod)
			}
		})
	}
}

func TestDetectCover_None(t *testing.T) {
	pkg := coverPackage(t, `<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest><item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="c1"/></spine>
</package>`)

	if info := pkg.DetectCover(); info != nil {
		t.Errorf("DetectCover() = %+v, want nil", info)
	}
}
