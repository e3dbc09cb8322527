package datasetinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgl-project/dataset-viz/pkg/logging"
	"github.com/sgl-project/dataset-viz/pkg/metrics"
)

// Resolver reads dataset metadata and checks version compatibility.
type Resolver struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	logger  logging.Interface
}

// NewResolver creates a Resolver reading through fetcher.
func NewResolver(fetcher Fetcher, m *metrics.Metrics, logger logging.Interface) *Resolver {
	return &Resolver{fetcher: fetcher, metrics: m, logger: logger}
}

// GetDatasetInfo fetches and decodes {datasetID}/meta/info.json. Every
// failure is reported as an *IncompatibleError.
func (r *Resolver) GetDatasetInfo(ctx context.Context, datasetID string) (*Info, error) {
	data, err := r.fetcher.FetchFile(ctx, datasetID, InfoPath)
	if err != nil {
		return nil, &IncompatibleError{DatasetID: datasetID, Err: fmt.Errorf("failed to fetch dataset info: %w", err)}
	}

	info, err := ParseInfo(data)
	if err != nil {
		return nil, &IncompatibleError{DatasetID: datasetID, Err: err}
	}
	return info, nil
}

// GetDatasetVersion returns the dataset's codebase_version when it is one of
// SupportedVersions. An unknown version yields *UnsupportedVersionError;
// anything else that goes wrong yields *IncompatibleError.
func (r *Resolver) GetDatasetVersion(ctx context.Context, datasetID string) (string, error) {
	_, version, err := r.Resolve(ctx, datasetID)
	return version, err
}

// Resolve is GetDatasetVersion that also returns the decoded metadata.
func (r *Resolver) Resolve(ctx context.Context, datasetID string) (*Info, string, error) {
	log := r.logger.WithField("dataset", datasetID)

	info, err := r.GetDatasetInfo(ctx, datasetID)
	if err != nil {
		log.WithError(err).Warn("Dataset metadata unavailable")
		r.metrics.RecordVersionCheck(metrics.VersionIncompatible)
		return nil, "", err
	}

	if info.CodebaseVersion == "" {
		r.metrics.RecordVersionCheck(metrics.VersionIncompatible)
		return nil, "", &IncompatibleError{DatasetID: datasetID, Err: ErrMissingCodebaseVersion}
	}

	if !IsSupportedVersion(info.CodebaseVersion) {
		log.WithField("version", info.CodebaseVersion).Info("Dataset has unsupported codebase version")
		r.metrics.RecordVersionCheck(metrics.VersionUnsupported)
		return nil, "", &UnsupportedVersionError{DatasetID: datasetID, Version: info.CodebaseVersion}
	}

	r.metrics.RecordVersionCheck(metrics.VersionSupported)
	return info, info.CodebaseVersion, nil
}

// IsIncompatible reports whether err means the dataset cannot be visualized,
// as opposed to a caller mistake.
func IsIncompatible(err error) bool {
	return errors.Is(err, ErrIncompatible)
}
