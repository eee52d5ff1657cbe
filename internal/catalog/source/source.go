// Package source reads the catalog document from a local file, an HTTP(S)
// endpoint or a Cloud Storage object.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// ErrLoad wraps every failure returned by a Loader.
var ErrLoad = errors.New("catalog load failed")

// Loader fetches and parses the catalog document.
type Loader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (catalog.Catalog, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (catalog.Catalog, error) {
	return f(ctx)
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures loaders built by New.
type Options struct {
	HTTPClient HTTPClient
}

// New picks a loader from the location scheme: http(s):// and gs:// are
// remote, anything else is a local path.
func New(location string, opts Options) (Loader, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: data location is empty", ErrLoad)
	}
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPLoader(location, opts.HTTPClient)
	case strings.HasPrefix(lower, "gs://"):
		return NewGCSLoader(location)
	case strings.Contains(lower, "://"):
		return nil, fmt.Errorf("%w: unsupported location %q", ErrLoad, location)
	default:
		return NewFileLoader(location), nil
	}
}

// IsLocal reports whether location names a path on this machine rather than
// a URL.
func IsLocal(location string) bool {
	location = strings.TrimSpace(location)
	return location != "" && !strings.Contains(location, "://")
}

func loadError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoad, op, err)
}
