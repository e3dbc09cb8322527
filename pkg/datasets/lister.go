// Package datasets discovers dataset directories under the storage root.
package datasets

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/config"
	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/storage"
)

const delimiter = "/"

// reservedPrefix is a first-level directory that never holds datasets. It is
// excluded on top of any configured exclusions.
const reservedPrefix = "s3"

// Entry is a discovered dataset directory.
type Entry struct {
	// Path is "<org>/<dataset>", relative to the storage root.
	Path string
	// LastModified comes from the first object listed under the dataset
	// directory, or the Unix epoch when the directory has no objects.
	LastModified time.Time
}

// Lister finds the most recently modified datasets laid out as
// <root>/<org>/<dataset>/.
type Lister struct {
	store      storage.ObjectStore
	root       string
	maxResults int
	excluded   map[string]bool
	logger     logging.Interface
}

// NewLister creates a Lister over store. root is parsed on every call so a
// malformed root yields empty results instead of a construction error.
func NewLister(store storage.ObjectStore, root string, cfg config.ListerConfig, logger logging.Interface) *Lister {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}
	excluded := map[string]bool{reservedPrefix: true}
	for _, p := range cfg.ExcludedPrefixes {
		excluded[p] = true
	}
	return &Lister{
		store:      store,
		root:       root,
		maxResults: maxResults,
		excluded:   excluded,
		logger:     logger,
	}
}

// ListRecentDatasets returns up to maxResults dataset paths, most recently
// modified first. It never fails: problems are logged and yield an empty slice.
func (l *Lister) ListRecentDatasets(ctx context.Context) []string {
	entries := l.ListRecent(ctx)
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// ListRecent is ListRecentDatasets with modification times attached.
func (l *Lister) ListRecent(ctx context.Context) []Entry {
	root, err := storage.ParseRoot(l.root)
	if err != nil {
		l.logger.WithError(err).Warn("Storage root is malformed, no datasets listed")
		return []Entry{}
	}

	entries, err := l.collect(ctx, root)
	if err != nil {
		l.logger.WithError(err).WithField("root", l.root).Error("Failed to list datasets")
		return []Entry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	if len(entries) > l.maxResults {
		entries = entries[:l.maxResults]
	}
	return entries
}

func (l *Lister) collect(ctx context.Context, root storage.Root) ([]Entry, error) {
	base := root.Prefix

	orgs, err := l.store.List(ctx, storage.ListInput{
		Bucket:    root.Bucket,
		Prefix:    base,
		Delimiter: delimiter,
	})
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, orgPrefix := range orgs.CommonPrefixes {
		org := strings.Replace(strings.Replace(orgPrefix, base, "", 1), delimiter, "", 1)
		if org == "" || l.excluded[org] {
			continue
		}

		datasets, err := l.store.List(ctx, storage.ListInput{
			Bucket:    root.Bucket,
			Prefix:    base + org + delimiter,
			Delimiter: delimiter,
		})
		if err != nil {
			return nil, err
		}

		for _, datasetPrefix := range datasets.CommonPrefixes {
			path := strings.TrimSuffix(strings.Replace(datasetPrefix, base, "", 1), delimiter)
			if path == "" {
				continue
			}

			modified, err := l.lastModified(ctx, root.Bucket, datasetPrefix)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Path: path, LastModified: modified})
		}
	}

	l.logger.WithField("count", len(entries)).Debug("Collected dataset directories")
	return entries, nil
}

func (l *Lister) lastModified(ctx context.Context, bucket, prefix string) (time.Time, error) {
	out, err := l.store.List(ctx, storage.ListInput{
		Bucket:  bucket,
		Prefix:  prefix,
		MaxKeys: 1,
	})
	if err != nil {
		return time.Time{}, err
	}
	if len(out.Contents) == 0 {
		return time.Unix(0, 0).UTC(), nil
	}
	return out.Contents[0].LastModified, nil
}

// ProvideLister builds the Lister for the configured storage root.
func ProvideLister(cfg *config.Config, store storage.ObjectStore, logger logging.Interface) *Lister {
	return NewLister(store, cfg.Storage.Root, cfg.Lister, logger)
}

// Module provides the *Lister.
var Module = fx.Provide(ProvideLister)
