package datasetinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/hfutil/hub"
	"github.com/sgl-project/dataset-viz/pkg/objectproxy"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// Fetcher reads a file from a dataset. The implementation is chosen once,
// when the Resolver is built, from where the process runs and which backend
// holds the datasets.
type Fetcher interface {
	FetchFile(ctx context.Context, datasetID, relativePath string) ([]byte, error)
}

type objectFetcher interface {
	FetchObject(ctx context.Context, relativePath string) (*objectproxy.Object, error)
}

// StorageFetcher reads directly from object storage. It needs storage
// credentials, so it is the server-side choice.
type StorageFetcher struct {
	Proxy objectFetcher
}

func (f *StorageFetcher) FetchFile(ctx context.Context, datasetID, relativePath string) ([]byte, error) {
	obj, err := f.Proxy.FetchObject(ctx, datasetID+"/"+relativePath)
	if err != nil {
		return nil, err
	}
	return obj.Data, nil
}

// ProxyEndpointFetcher reads through a running service's /api/s3-proxy
// endpoint. It needs no credentials.
type ProxyEndpointFetcher struct {
	Origin     string
	HTTPClient *http.Client
	// MaxBytes caps the response body; zero means config.DefaultMaxObjectBytes.
	MaxBytes   int64
}

// ProxyStatusError is a non-2xx answer from the proxy endpoint.
type ProxyStatusError struct {
	StatusCode int
	Message    string
}

func (e *ProxyStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("proxy returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("proxy returned %d", e.StatusCode)
}

func (f *ProxyEndpointFetcher) FetchFile(ctx context.Context, datasetID, relativePath string) ([]byte, error) {
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ProxyEndpointURL(f.Origin, datasetID+"/"+relativePath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxObjectBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("proxy response for %s/%s: %w", datasetID, relativePath, storage.ErrTooLarge)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &payload)
		return nil, &ProxyStatusError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return body, nil
}

// HubFetcher reads from a dataset hub at a fixed revision.
type HubFetcher struct {
	Client   *hub.Client
	Revision string
}

func (f *HubFetcher) FetchFile(ctx context.Context, datasetID, relativePath string) ([]byte, error) {
	return f.Client.FetchFile(ctx, datasetID, f.Revision, strings.TrimPrefix(relativePath, "/"))
}
