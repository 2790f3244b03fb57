package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a workspace entry.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".jxl":  {},
	".png":  {},
	".gif":  {},
}

// Entry describes one item directly inside a workspace.
type Entry struct {
	Path string
	Kind Kind
}

// IsConvertible reports whether name carries an image extension eligible for
// WebP conversion. The comparison ignores case.
func IsConvertible(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ListEntries returns the top-level entries of dir sorted by name. Nested
// directories are reported but never descended into.
func ListEntries(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list workspace %s: %w", dir, err)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entry := Entry{Path: filepath.Join(dir, item.Name())}
		switch {
		case item.IsDir():
			entry.Kind = KindDir
		case IsConvertible(item.Name()):
			entry.Kind = KindImage
		default:
			entry.Kind = KindOther
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// OutputPath returns the WebP path written for src: same directory, same stem.
func OutputPath(src string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(src), stem+".webp")
}

func sanitizedPath(src string) string {
	return filepath.Join(filepath.Dir(src), strings.ReplaceAll(filepath.Base(src), "'", ""))
}
