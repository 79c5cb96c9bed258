package epub

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// Archive provides named-entry access to the contents of an EPUB container.
// It is backed entirely by the byte buffer handed to OpenArchive; entries may
// be read any number of times.
type Archive struct {
	files map[string]*zip.File
}

var (
	ErrCorruptArchive = errors.New("not a valid EPUB container")
	ErrEntryNotFound  = errors.New("entry not found")
)

// OpenArchive opens an EPUB container held in memory.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[normalizeEntryName(f.Name)] = f
	}

	a.checkMimetype()

	return a, nil
}

// Has reports whether an entry exists at the given path.
func (a *Archive) Has(path string) bool {
	_, ok := a.files[normalizeEntryName(path)]
	return ok
}

// Paths returns the names of all entries in the container.
func (a *Archive) Paths() []string {
	paths := make([]string, 0, len(a.files))
	for p := range a.files {
		paths = append(paths, p)
	}
	return paths
}

// Read returns the decompressed bytes of the entry at path.
func (a *Archive) Read(path string) ([]byte, error) {
	f, ok := a.files[normalizeEntryName(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// ReadText returns the entry at path decoded as UTF-8 text.
// A leading byte order mark is stripped; invalid byte sequences are kept
// as-is rather than rejected.
func (a *Archive) ReadText(path string) (string, error) {
	data, err := a.Read(path)
	if err != nil {
		return "", err
	}
	return string(stripBOM(data)), nil
}

// checkMimetype warns about a missing or wrong mimetype entry. Real-world
// EPUBs get this wrong often enough that it must never be fatal.
func (a *Archive) checkMimetype() {
	f, ok := a.files["mimetype"]
	if !ok {
		log.Printf("warning: mimetype entry missing")
		return
	}
	if f.Method != zip.Store {
		log.Printf("warning: mimetype entry is compressed")
	}
	content, err := a.Read("mimetype")
	if err != nil {
		return
	}
	if strings.TrimSpace(string(content)) != "application/epub+zip" {
		log.Printf("warning: unexpected mimetype %q", strings.TrimSpace(string(content)))
	}
}

// normalizeEntryName normalizes entry names for lookup (removes ./ prefix).
func normalizeEntryName(name string) string {
	return strings.TrimPrefix(name, "./")
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
