// Package local serves file:// storage roots from a directory tree. Each
// bucket is a subdirectory of the configured base directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

// defaultMaxKeys matches the S3 page size.
const defaultMaxKeys = 1000

// LocalProvider implements storage.ObjectStore over an afero filesystem.
type LocalProvider struct {
	fs     afero.Fs
	logger logging.Interface
}

var _ storage.ObjectStore = (*LocalProvider)(nil)

// NewLocalProvider roots a provider at config.LocalBaseDir on the OS filesystem.
func NewLocalProvider(_ context.Context, config storage.Config, logger logging.Interface) (*LocalProvider, error) {
	if config.LocalBaseDir == "" {
		return nil, fmt.Errorf("local provider requires a base directory")
	}
	info, err := os.Stat(config.LocalBaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base directory %s: %w", config.LocalBaseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base directory %s is not a directory", config.LocalBaseDir)
	}

	logger.WithField("provider", storage.ProviderLocal).
		WithField("base_dir", config.LocalBaseDir).
		Info("Local storage provider initialized")

	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), config.LocalBaseDir), logger), nil
}

// NewWithFs serves buckets from the root of fsys.
func NewWithFs(fsys afero.Fs, logger logging.Interface) *LocalProvider {
	return &LocalProvider{fs: fsys, logger: logger}
}

// Provider returns storage.ProviderLocal.
func (p *LocalProvider) Provider() storage.Provider {
	return storage.ProviderLocal
}

// List walks the bucket directory and returns keys in lexical order, folding
// them into common prefixes when a delimiter is given.
func (p *LocalProvider) List(_ context.Context, in storage.ListInput) (*storage.ListOutput, error) {
	bucketDir := "/" + in.Bucket
	if ok, err := afero.DirExists(p.fs, bucketDir); err != nil || !ok {
		return nil, storage.NewError("list", in.Bucket, storage.ProviderLocal, storage.ErrNotFound)
	}

	// Only the directory holding the prefix's last complete segment can contain matches.
	walkRoot := bucketDir
	if i := strings.LastIndex(in.Prefix, "/"); i >= 0 {
		walkRoot = path.Join(bucketDir, in.Prefix[:i])
	}

	var keys []string
	infos := make(map[string]fs.FileInfo)
	err := afero.Walk(p.fs, walkRoot, func(name string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		key := strings.TrimPrefix(filepath.ToSlash(name), bucketDir+"/")
		if !strings.HasPrefix(key, in.Prefix) {
			return nil
		}
		keys = append(keys, key)
		infos[key] = info
		return nil
	})
	if err != nil {
		return nil, storage.NewError("list", in.Bucket+"/"+in.Prefix, storage.ProviderLocal, err)
	}
	sort.Strings(keys)

	maxKeys := int(in.MaxKeys)
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}

	out := &storage.ListOutput{}
	seen := make(map[string]bool)
	for _, key := range keys {
		if len(out.Contents)+len(out.CommonPrefixes) >= maxKeys {
			break
		}
		if in.Delimiter != "" {
			rest := key[len(in.Prefix):]
			if i := strings.Index(rest, in.Delimiter); i >= 0 {
				cp := in.Prefix + rest[:i+len(in.Delimiter)]
				if !seen[cp] {
					seen[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, cp)
				}
				continue
			}
		}
		info := infos[key]
		out.Contents = append(out.Contents, storage.ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return out, nil
}

// Get opens bucket/key. The content type is derived from the key's extension
// and left empty when unknown.
func (p *LocalProvider) Get(_ context.Context, bucket, key string) (*storage.Object, error) {
	name := path.Join("/", bucket, key)
	location := bucket + "/" + key

	info, err := p.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.NewError("get", location, storage.ProviderLocal, storage.ErrNotFound)
		}
		return nil, storage.NewError("get", location, storage.ProviderLocal, err)
	}
	if info.IsDir() {
		return nil, storage.NewError("get", location, storage.ProviderLocal, storage.ErrNotFound)
	}

	f, err := p.fs.Open(name)
	if err != nil {
		return nil, storage.NewError("get", location, storage.ProviderLocal, err)
	}

	return &storage.Object{
		Body:          f,
		ContentType:   mime.TypeByExtension(path.Ext(key)),
		ContentLength: info.Size(),
	}, nil
}
