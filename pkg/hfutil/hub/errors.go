package hub

import (
	"fmt"
	"net/http"
)

// HubError represents a generic Hub error
type HubError struct {
	Message string
	Cause   error
}

func (e *HubError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *HubError) Unwrap() error {
	return e.Cause
}

// HTTPError is a non-2xx answer from the Hub.
type HTTPError struct {
	*HubError
	StatusCode int
}

func NewHTTPError(message string, statusCode int) *HTTPError {
	return &HTTPError{
		HubError:   &HubError{Message: message},
		StatusCode: statusCode,
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// RepositoryNotFoundError is returned when the repository does not exist or
// the token cannot see it.
type RepositoryNotFoundError struct {
	*HTTPError
	RepoID string
}

func NewRepositoryNotFoundError(repoID string, statusCode int) *RepositoryNotFoundError {
	return &RepositoryNotFoundError{
		HTTPError: NewHTTPError(fmt.Sprintf("%s repository '%s' not found", RepoTypeDataset, repoID), statusCode),
		RepoID:    repoID,
	}
}

// GatedRepoError is returned for repositories that require accepted terms.
type GatedRepoError struct {
	*RepositoryNotFoundError
}

func NewGatedRepoError(repoID string, statusCode int) *GatedRepoError {
	base := NewRepositoryNotFoundError(repoID, statusCode)
	base.Message = fmt.Sprintf("%s repository '%s' is gated and requires authentication", RepoTypeDataset, repoID)
	return &GatedRepoError{RepositoryNotFoundError: base}
}

// EntryNotFoundError is returned when a file is missing from a repository.
type EntryNotFoundError struct {
	*HTTPError
	RepoID   string
	Revision string
	Path     string
}

func NewEntryNotFoundError(repoID, revision, path string) *EntryNotFoundError {
	message := fmt.Sprintf("Entry '%s' not found in %s repository '%s'", path, RepoTypeDataset, repoID)
	if revision != "" && revision != DefaultRevision {
		message = fmt.Sprintf("Entry '%s' not found in %s repository '%s' at revision '%s'", path, RepoTypeDataset, repoID, revision)
	}
	return &EntryNotFoundError{
		HTTPError: NewHTTPError(message, http.StatusNotFound),
		RepoID:    repoID,
		Revision:  revision,
		Path:      path,
	}
}

// handleHTTPError converts HTTP errors to appropriate Hub errors
func handleHTTPError(statusCode int, repoID, revision, filename string) error {
	switch statusCode {
	case http.StatusNotFound:
		return NewEntryNotFoundError(repoID, revision, filename)
	case http.StatusUnauthorized:
		return NewRepositoryNotFoundError(repoID, statusCode)
	case http.StatusForbidden:
		return NewGatedRepoError(repoID, statusCode)
	default:
		return NewHTTPError(http.StatusText(statusCode), statusCode)
	}
}
