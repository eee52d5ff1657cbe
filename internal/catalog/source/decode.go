package source

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// Format identifies the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromName infers the encoding from a file name or URL path; JSON is the default.
func FormatFromName(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType maps a Content-Type header to a Format. ok is false
// for types that say nothing about the encoding (text/plain, octet-stream).
func FormatFromContentType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return FormatJSON, true
	case strings.Contains(mediaType, "yaml"):
		return FormatYAML, true
	default:
		return "", false
	}
}

// Decode parses a catalog document.
func Decode(r io.Reader, format Format) (catalog.Catalog, error) {
	var doc catalog.Catalog
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return catalog.Catalog{}, fmt.Errorf("decode yaml: empty document")
			}
			return catalog.Catalog{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return catalog.Catalog{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil
}
