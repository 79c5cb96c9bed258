package render

import (
	"fmt"

	"github.com/okanagi/leafview/internal/epub"
)

// ChapterView is the per-chapter assembly strategy: one normalized fragment
// at a time, driven by a current index into the spine. Loads are performed
// synchronously on the caller's goroutine, so the current index is the
// single source of truth: a navigation call returns its fragment before
// the next one can be issued.
type ChapterView struct {
	session *Session
	index   int
}

// Chapter starts per-chapter reading at the given spine index, typically
// restored from persisted progress. An out-of-range start falls back to 0.
func (s *Session) Chapter(start int) *ChapterView {
	if start < 0 || start >= len(s.Package.Spine) {
		start = 0
	}
	return &ChapterView{session: s, index: start}
}

// Index returns the current spine index.
func (v *ChapterView) Index() int {
	return v.index
}

// Current normalizes and returns the fragment at the current index.
func (v *ChapterView) Current() Fragment {
	return v.session.Fragment(v.index)
}

// Advance moves the current index by delta, clamped to the spine bounds,
// and returns the new index.
func (v *ChapterView) Advance(delta int) int {
	v.index += delta
	if v.index < 0 {
		v.index = 0
	}
	if max := v.session.SpineLength() - 1; v.index > max && max >= 0 {
		v.index = max
	}
	if v.session.SpineLength() == 0 {
		v.index = 0
	}
	return v.index
}

// JumpToHref moves the current index to the spine entry matching href,
// comparing paths with any fragment identifier stripped on both sides.
// An href that matches nothing is a no-op: invalid links must not break
// navigation.
func (v *ChapterView) JumpToHref(href string) bool {
	target, _ := epub.SplitFragment(href)
	if target == "" {
		return false
	}
	for _, item := range v.session.Package.Spine {
		if item.Path == target {
			v.index = item.Index
			return true
		}
	}
	return false
}

// Progress returns the reading progress fraction in [0,1].
func (v *ChapterView) Progress() float64 {
	n := v.session.SpineLength()
	if n == 0 {
		return 0
	}
	return float64(v.index+1) / float64(n)
}

// PositionLabel returns a human-readable label for the current position:
// the matching table-of-contents label when one exists, else "N / total".
func (v *ChapterView) PositionLabel() string {
	if v.session.SpineLength() == 0 {
		return ""
	}
	current := v.session.Package.Spine[v.index].Path
	if label, ok := navLabelForPath(v.session.Nav, current); ok {
		return label
	}
	return fmt.Sprintf("%d / %d", v.index+1, v.session.SpineLength())
}
