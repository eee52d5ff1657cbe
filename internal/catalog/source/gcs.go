package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// GCSLoader reads the catalog from a Cloud Storage object. The client is
// created lazily so constructing the loader needs no credentials.
type GCSLoader struct {
	Bucket string
	Object string

	newClient func(ctx context.Context) (*storage.Client, error)
}

// NewGCSLoader parses a gs://bucket/object location.
func NewGCSLoader(location string) (*GCSLoader, error) {
	bucket, object, err := ParseGCSLocation(location)
	if err != nil {
		return nil, loadError("parse location", err)
	}
	return &GCSLoader{
		Bucket: bucket,
		Object: object,
		newClient: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}, nil
}

// ParseGCSLocation splits gs://bucket/path/to/object.
func ParseGCSLocation(location string) (bucket, object string, err error) {
	rest, ok := cutPrefixFold(strings.TrimSpace(location), "gs://")
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// location", location)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	object = strings.Trim(object, "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("%q must name a bucket and an object", location)
	}
	return bucket, object, nil
}

// Load implements Loader.
func (l *GCSLoader) Load(ctx context.Context) (catalog.Catalog, error) {
	name := "gs://" + l.Bucket + "/" + l.Object
	client, err := l.newClient(ctx)
	if err != nil {
		return catalog.Catalog{}, loadError("storage client", err)
	}
	defer client.Close()

	r, err := client.Bucket(l.Bucket).Object(l.Object).NewReader(ctx)
	if err != nil {
		return catalog.Catalog{}, loadError("open "+name, err)
	}
	defer r.Close()

	format, ok := FormatFromContentType(r.Attrs.ContentType)
	if !ok {
		format = FormatFromName(l.Object)
	}
	doc, err := Decode(io.LimitReader(r, maxDocumentBytes), format)
	if err != nil {
		return catalog.Catalog{}, loadError(name, err)
	}
	return doc, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
