// Package objectproxy reads objects under the storage root on behalf of
// clients that cannot reach object storage themselves.
package objectproxy

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// DefaultContentType is used when storage reports no content type.
const DefaultContentType = "application/octet-stream"

var (
	// ErrMissingPath is returned for an empty relative path.
	ErrMissingPath = errors.New("missing path parameter")

	// ErrEmptyResponse is returned when storage answers without a body. It
	// wraps storage.ErrNotFound.
	ErrEmptyResponse = fmt.Errorf("empty response from storage: %w", storage.ErrNotFound)
)

// Object is a fully buffered object.
type Object struct {
	Data        []byte
	ContentType string
}

// Proxy fetches objects relative to the storage root.
type Proxy struct {
	store    storage.ObjectStore
	root     string
	maxBytes int64
	metrics  *metrics.Metrics
	logger   logging.Interface
}

// NewProxy creates a Proxy. maxBytes <= 0 disables the size guard.
func NewProxy(store storage.ObjectStore, root string, maxBytes int64, m *metrics.Metrics, logger logging.Interface) *Proxy {
	return &Proxy{
		store:    store,
		root:     root,
		maxBytes: maxBytes,
		metrics:  m,
		logger:   logger,
	}
}

// FetchObject reads relativePath under the root in a single storage call and
// returns its bytes. The path is appended verbatim; it is not normalized.
func (p *Proxy) FetchObject(ctx context.Context, relativePath string) (*Object, error) {
	if relativePath == "" {
		return nil, ErrMissingPath
	}

	location := storage.JoinLocation(p.root, relativePath)
	bucket, key := storage.SplitLocation(location)
	log := p.logger.WithField("bucket", bucket).WithField("key", key)

	obj, err := p.store.Get(ctx, bucket, key)
	if err != nil {
		log.WithError(err).Debug("Object fetch failed")
		return nil, err
	}
	if obj.Body == nil {
		return nil, ErrEmptyResponse
	}
	defer obj.Body.Close()

	data, err := p.readAll(obj.Body)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			log.WithField("limit", p.maxBytes).Warn("Object exceeds proxy size limit")
		}
		return nil, storage.NewError("read", bucket+"/"+key, p.store.Provider(), err)
	}
	p.metrics.RecordProxiedBytes(len(data))

	contentType := obj.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &Object{Data: data, ContentType: contentType}, nil
}

func (p *Proxy) readAll(r io.Reader) ([]byte, error) {
	if p.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.maxBytes {
		return nil, storage.ErrTooLarge
	}
	return data, nil
}

// ProvideProxy builds the Proxy for the configured storage root.
func ProvideProxy(cfg *config.Config, store storage.ObjectStore, m *metrics.Metrics, logger logging.Interface) *Proxy {
	return NewProxy(store, cfg.Storage.Root, cfg.Storage.MaxObjectBytes, m, logger)
}

// Module provides the *Proxy.
var Module = fx.Provide(ProvideProxy)
