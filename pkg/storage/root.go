package storage

import (
	"fmt"
	"regexp"
	"strings"
)

// rootPattern is the accepted storage root shape: scheme://bucket/prefix.
// The prefix may be empty but the separator after the bucket is required.
var rootPattern = regexp.MustCompile(`^([a-z][a-z0-9]*)://([^/]+)/(.*)$`)

// Root is a parsed storage root scoping all dataset listing and retrieval.
type Root struct {
	Scheme string
	Bucket string
	Prefix string
}

// ParseRoot parses a storage root such as "s3://bucket/datasets/".
func ParseRoot(s string) (Root, error) {
	m := rootPattern.FindStringSubmatch(s)
	if m == nil {
		return Root{}, fmt.Errorf("%w: %q", ErrInvalidRoot, s)
	}
	return Root{Scheme: m[1], Bucket: m[2], Prefix: m[3]}, nil
}

// String renders r back into scheme://bucket/prefix form.
func (r Root) String() string {
	return fmt.Sprintf("%s://%s/%s", r.Scheme, r.Bucket, r.Prefix)
}

// Provider returns the provider implied by the root's scheme.
func (r Root) Provider() Provider {
	return Provider(r.Scheme)
}

// JoinLocation appends relativePath to root, dropping one trailing "/" from
// root. relativePath is not cleaned: ".." segments pass through unchanged.
func JoinLocation(root, relativePath string) string {
	return strings.TrimSuffix(root, "/") + "/" + relativePath
}

// SplitLocation strips a leading "scheme://" from location and splits the
// remainder on the first "/" into bucket and key.
func SplitLocation(location string) (bucket, key string) {
	if i := strings.Index(location, "://"); i >= 0 {
		location = location[i+3:]
	}
	bucket, key, _ = strings.Cut(location, "/")
	return bucket, key
}
