// Package hub fetches single files from a dataset hub over its resolve API.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sgl-project/dataset-viz/pkg/logging"
)

// ClientConfig configures a Client. Zero values take the package defaults.
type ClientConfig struct {
	// Endpoint is the dataset collection URL, e.g. https://huggingface.co/datasets.
	Endpoint  string
	Token     string
	UserAgent string
	// Timeout bounds each request, including reading the body.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client reads files from hub dataset repositories.
type Client struct {
	endpoint   string
	token      string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Interface
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig, logger logging.Interface) *Client {
	c := &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = DefaultRequestTimeout
	}
	if c.httpClient == nil {
		c.httpClient = GetHTTPClient()
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// Endpoint returns the dataset collection URL the client resolves against.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FileURL returns the resolve URL of filename in repoID at revision. Each
// path segment is escaped separately so slashes survive.
func (c *Client) FileURL(repoID, revision, filename string) string {
	if revision == "" {
		revision = DefaultRevision
	}
	return fmt.Sprintf(HuggingfaceCoURLTemplate, c.endpoint, repoID, url.PathEscape(revision), escapeFilePath(filename))
}

// FetchFile downloads filename from repoID at revision with a single GET.
// The request is abandoned after the configured timeout, in which case the
// error wraps context.DeadlineExceeded.
func (c *Client) FetchFile(ctx context.Context, repoID, revision, filename string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fileURL := c.FileURL(repoID, revision, filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &HubError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set(UserAgentHeader, c.userAgent)
	if c.token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+c.token)
	}

	c.logger.WithField("url", fileURL).Debug("Fetching hub file")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &HubError{Message: fmt.Sprintf("request to %s failed", fileURL), Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, handleHTTPError(resp.StatusCode, repoID, revision, filename)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HubError{Message: "failed to read response body", Cause: err}
	}
	return data, nil
}

func escapeFilePath(filename string) string {
	if filename == "" {
		return ""
	}
	parts := strings.Split(filename, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
