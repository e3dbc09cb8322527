package datasetinfo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompatible matches every error that makes a dataset unusable by
	// the visualizer, including UnsupportedVersionError.
	ErrIncompatible = errors.New("dataset is not compatible")

	ErrMissingFeatures        = errors.New("info.json does not have the expected features structure")
	ErrMissingCodebaseVersion = errors.New("info.json does not contain codebase_version")
)

// IncompatibleError reports that a dataset's metadata could not be read or
// does not have the expected shape. Err carries the underlying cause.
type IncompatibleError struct {
	DatasetID string
	Err       error
}

func (e *IncompatibleError) Error() string {
	msg := fmt.Sprintf("Dataset %s is not compatible with this visualizer. "+
		"Failed to read dataset information from the main revision.", e.DatasetID)
	if e.Err != nil {
		msg += " Cause: " + e.Err.Error()
	}
	return msg
}

func (e *IncompatibleError) Unwrap() error {
	return e.Err
}

func (e *IncompatibleError) Is(target error) bool {
	return target == ErrIncompatible
}

// UnsupportedVersionError reports a codebase_version outside SupportedVersions.
type UnsupportedVersionError struct {
	DatasetID string
	Version   string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("Dataset %s has codebase version %s, which is not supported. "+
		"This tool only works with dataset versions %s. "+
		"Please use a compatible dataset version.", e.DatasetID, e.Version, strings.Join(SupportedVersions, ", "))
}

func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrIncompatible
}
