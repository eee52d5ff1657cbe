package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// maxDocumentBytes bounds how much of a remote response is read.
const maxDocumentBytes = 8 << 20

// HTTPClient matches the subset of http.Client used by HTTPLoader.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPLoader fetches the catalog with a single GET request.
type HTTPLoader struct {
	url    *url.URL
	client HTTPClient
}

// NewHTTPLoader constructs a loader for rawURL. A nil client uses http.DefaultClient.
func NewHTTPLoader(rawURL string, client HTTPClient) (*HTTPLoader, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, loadError("parse url", err)
	}
	if parsed.Host == "" {
		return nil, loadError("parse url", errors.New("missing host"))
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{url: parsed, client: client}, nil
}

// Load implements Loader. Any non-2xx response is a *StatusError.
func (l *HTTPLoader) Load(ctx context.Context) (catalog.Catalog, error) {
	endpoint := l.url.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return catalog.Catalog{}, loadError("build request", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return catalog.Catalog{}, loadError("GET "+endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return catalog.Catalog{}, fmt.Errorf("%w: %w", ErrLoad, &StatusError{URL: endpoint, StatusCode: resp.StatusCode})
	}

	format, ok := FormatFromContentType(resp.Header.Get("Content-Type"))
	if !ok {
		format = FormatFromName(l.url.Path)
	}
	doc, err := Decode(io.LimitReader(resp.Body, maxDocumentBytes), format)
	if err != nil {
		return catalog.Catalog{}, loadError(endpoint, err)
	}
	return doc, nil
}
