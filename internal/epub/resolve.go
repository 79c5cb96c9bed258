package epub

import "strings"

// ResolveHref resolves a reference against the path of the entry that
// declared it and returns a normalized in-archive path. A reference starting
// with "/" is container-rooted; anything else is relative to the directory
// of basePath. The result never contains "." or ".." segments.
func ResolveHref(basePath, ref string) string {
	var joined string
	if strings.HasPrefix(ref, "/") {
		joined = ref
	} else {
		dir := ""
		if idx := strings.LastIndex(basePath, "/"); idx >= 0 {
			dir = basePath[:idx+1]
		}
		joined = dir + ref
	}

	segments := strings.Split(joined, "/")
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			// drop
		case "..":
			// Popping past the root is a no-op, never an error.
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
		default:
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}

// SplitFragment splits an href into its path and fragment identifier.
func SplitFragment(href string) (path, fragment string) {
	if href == "" {
		return "", ""
	}
	parts := strings.SplitN(href, "#", 2)
	path = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return path, fragment
}
