package epub

import "testing"

func TestResolveHref(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{
			name: "sibling file",
			base: "OEBPS/content.opf",
			ref:  "chap1.xhtml",
			want: "OEBPS/chap1.xhtml",
		},
		{
			name: "parent directory",
			base: "OEBPS/text/ch1.xhtml",
			ref:  "../images/a.png",
			want: "OEBPS/images/a.png",
		},
		{
			name: "current directory segment",
			base: "OEBPS/content.opf",
			ref:  "./text/ch1.xhtml",
			want: "OEBPS/text/ch1.xhtml",
		},
		{
			name: "container-rooted reference",
			base: "OEBPS/text/ch1.xhtml",
			ref:  "/images/a.png",
			want: "images/a.png",
		},
		{
			name: "base at container root",
			base: "content.opf",
			ref:  "ch1.xhtml",
			want: "ch1.xhtml",
		},
		{
			name: "popping past root is a no-op",
			base: "OEBPS/ch1.xhtml",
			ref:  "../../../images/a.png",
			want: "images/a.png",
		},
		{
			name: "mixed dot segments",
			base: "a/b/c/doc.xhtml",
			ref:  ".././../x/./y.png",
			want: "a/x/y.png",
		},
		{
			name: "empty segments collapse",
			base: "OEBPS//text//ch1.xhtml",
			ref:  "img//a.png",
			want: "OEBPS/text/img/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveHref(tt.base, tt.ref); got != tt.want {
				t.Errorf("ResolveHref(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

// Resolving step by step must collapse identically to resolving the combined
// relative path, as long as the sequence does not over-pop the root.
func TestResolveHref_Composition(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		first string
		then  string
	}{
		{name: "plain descent", base: "a/b/doc.xhtml", first: "c/d.xhtml", then: "e.png"},
		{name: "up then down", base: "a/b/doc.xhtml", first: "../c/d.xhtml", then: "../e/f.png"},
		{name: "dot noise", base: "a/b/doc.xhtml", first: "./c/./d.xhtml", then: ".././e.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepped := ResolveHref(ResolveHref(tt.base, tt.first), tt.then)

			firstDir := tt.first[:index(tt.first)+1]
			combined := ResolveHref(tt.base, firstDir+tt.then)

			if stepped != combined {
				t.Errorf("stepwise %q != combined %q", stepped, combined)
			}
		})
	}
}

// index returns the position of the last slash in s, mirroring how a
// reference's directory is derived.
func index(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func TestSplitFragment(t *testing.T) {
	tests := []struct {
		name         string
		href         string
		wantPath     string
		wantFragment string
	}{
		{name: "path with fragment", href: "ch1.xhtml#sec1", wantPath: "ch1.xhtml", wantFragment: "sec1"},
		{name: "path without fragment", href: "ch1.xhtml", wantPath: "ch1.xhtml", wantFragment: ""},
		{name: "fragment only", href: "#sec1", wantPath: "", wantFragment: "sec1"},
		{name: "empty string", href: "", wantPath: "", wantFragment: ""},
		{name: "multiple hash signs", href: "ch1.xhtml#a#b", wantPath: "ch1.xhtml", wantFragment: "a#b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPath, gotFragment := SplitFragment(tt.href)
			if gotPath != tt.wantPath || gotFragment != tt.wantFragment {
				t.Errorf("SplitFragment(%q) = (%q, %q), want (%q, %q)",
					tt.href, gotPath, gotFragment, tt.wantPath, tt.wantFragment)
			}
		})
	}
}
