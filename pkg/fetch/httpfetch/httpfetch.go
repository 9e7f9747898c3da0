// Package httpfetch implements a fetch.Engine over a plain net/http
// client. Exact wire semantics (caching headers, retries, redirects) are
// explicitly out of scope (spec ): this is the minimal contract
// implementation the Future/Fallback wrappers can be demonstrated over,
// not a hardened HTTP client.
package httpfetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/lifecycle"
)

// Engine fetches asset bytes over HTTP(S), treating path.Body as a URL
// relative to BaseURL (or absolute, if it already carries a scheme).
type Engine struct {
	Client  *http.Client
	BaseURL string
}

// New builds an Engine. A nil client defaults to http.DefaultClient.
func New(baseURL string, client *http.Client) *Engine {
	if client == nil {
		client = http.DefaultClient
	}
	return &Engine{Client: client, BaseURL: baseURL}
}

// LoadBytes issues a GET for path.Body and wraps a non-2xx status or
// transport error as a failed fetch.
func (e *Engine) LoadBytes(path assetpath.Path) (fetch.Bundle, error) {
	url := path.Body()
	if !strings.Contains(url, "://") {
		url = strings.TrimSuffix(e.BaseURL, "/") + "/" + strings.TrimPrefix(url, "/")
	}

	resp, err := e.Client.Get(url)
	if err != nil {
		return fetch.Bundle{}, fmt.Errorf("http fetch: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fetch.Bundle{}, fmt.Errorf("http fetch: %s returned %s", url, resp.Status)
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetch.Bundle{}, fmt.Errorf("http fetch: read body of %s: %w", url, err)
	}

	return fetch.Bundle{Components: []any{
		lifecycle.BytesReadyToProcess{Bytes: bytes},
		SourceURL{URL: url},
	}}, nil
}

// SourceURL is the standard source-metadata component this engine
// installs alongside BytesReadyToProcess.
type SourceURL struct {
	URL string
}
