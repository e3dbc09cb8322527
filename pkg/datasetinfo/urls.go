package datasetinfo

import (
	"fmt"
	"net/url"
	"strings"
)

// ProxyMarker prefixes versioned URLs that still have to be resolved against
// a proxy endpoint.
const ProxyMarker = "s3-proxy:"

// ProxyEndpointPath is the route serving proxied storage reads.
const ProxyEndpointPath = "/api/s3-proxy"

// URLBuilder builds asset URLs for a dataset.
type URLBuilder struct {
	hubBase  string
	revision string
}

// NewStorageURLBuilder builds proxy markers.
func NewStorageURLBuilder() *URLBuilder {
	return &URLBuilder{}
}

// NewHubURLBuilder builds direct hub URLs at revision.
func NewHubURLBuilder(hubBase, revision string) *URLBuilder {
	return &URLBuilder{hubBase: strings.TrimSuffix(hubBase, "/"), revision: revision}
}

// BuildVersionedURL returns the URL of relativePath in datasetID. In hub mode
// it is {hubBase}/{datasetID}/resolve/{revision}/{relativePath}; otherwise it
// is a ProxyMarker URL. version does not take part in either form.
func (b *URLBuilder) BuildVersionedURL(datasetID, version, relativePath string) string {
	if b.hubBase != "" {
		return fmt.Sprintf("%s/%s/resolve/%s/%s", b.hubBase, datasetID, b.revision, relativePath)
	}
	return ProxyMarker + datasetID + "/" + relativePath
}

// ProxyURLResolver turns ProxyMarker URLs into something the caller can fetch.
type ProxyURLResolver interface {
	ResolveS3ProxyURL(u string) string
}

// BrowserURLResolver is used where storage is only reachable through the
// proxy endpoint at Origin.
type BrowserURLResolver struct {
	Origin string
}

// ResolveS3ProxyURL rewrites marker URLs to {Origin}/api/s3-proxy?path=...
// and returns anything else unchanged, so it is idempotent.
func (r BrowserURLResolver) ResolveS3ProxyURL(u string) string {
	path, ok := strings.CutPrefix(u, ProxyMarker)
	if !ok {
		return u
	}
	return ProxyEndpointURL(r.Origin, path)
}

// ServerURLResolver is used where storage is read directly. It returns
// its input.
type ServerURLResolver struct{}

func (ServerURLResolver) ResolveS3ProxyURL(u string) string {
	return u
}

// ProxyEndpointURL is the proxy endpoint URL for path at origin. The path is
// escaped the way browsers encode a URI component.
func ProxyEndpointURL(origin, path string) string {
	return strings.TrimSuffix(origin, "/") + ProxyEndpointPath + "?path=" + encodeURIComponent(path)
}

// uriComponentUnescaper undoes the escapes url.QueryEscape applies beyond
// what browsers do for a URI component.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
