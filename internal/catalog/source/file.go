package source

import (
	"context"
	"os"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// FileLoader reads the catalog from the local filesystem.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader for path; the extension selects JSON or YAML.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context) (catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Catalog{}, loadError("read "+l.Path, err)
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return catalog.Catalog{}, loadError("read "+l.Path, err)
	}
	defer f.Close()

	doc, err := Decode(f, FormatFromName(l.Path))
	if err != nil {
		return catalog.Catalog{}, loadError(l.Path, err)
	}
	return doc, nil
}
