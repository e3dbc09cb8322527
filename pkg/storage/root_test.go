package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoot(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Root
		wantErr bool
	}{
		{name: "bucket and prefix", input: "s3://xlab-eks/datasets/", want: Root{Scheme: "s3", Bucket: "xlab-eks", Prefix: "datasets/"}},
		{name: "nested prefix without trailing slash", input: "s3://b/a/b", want: Root{Scheme: "s3", Bucket: "b", Prefix: "a/b"}},
		{name: "empty prefix", input: "s3://bucket/", want: Root{Scheme: "s3", Bucket: "bucket", Prefix: ""}},
		{name: "local scheme", input: "file://local/data/", want: Root{Scheme: "file", Bucket: "local", Prefix: "data/"}},
		{name: "missing slash after bucket", input: "s3://bucket", wantErr: true},
		{name: "missing scheme", input: "bucket/prefix/", wantErr: true},
		{name: "empty bucket", input: "s3:///prefix", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoot(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestJoinAndSplitLocation(t *testing.T) {
	tests := []struct {
		root, rel  string
		wantLoc    string
		wantBucket string
		wantKey    string
	}{
		{"s3://xlab-eks/datasets/", "org/ds/meta/info.json", "s3://xlab-eks/datasets/org/ds/meta/info.json", "xlab-eks", "datasets/org/ds/meta/info.json"},
		{"s3://bucket", "a.txt", "s3://bucket/a.txt", "bucket", "a.txt"},
		{"s3://bucket/p", "../escape", "s3://bucket/p/../escape", "bucket", "p/../escape"},
		{"bucket/p/", "x", "bucket/p/x", "bucket", "p/x"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLoc, func(t *testing.T) {
			loc := JoinLocation(tt.root, tt.rel)
			assert.Equal(t, tt.wantLoc, loc)

			bucket, key := SplitLocation(loc)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestProviderForRoot(t *testing.T) {
	assert.Equal(t, ProviderS3, ProviderForRoot("s3://b/p/"))
	assert.Equal(t, ProviderLocal, ProviderForRoot("file://b/p/"))
	assert.Equal(t, ProviderS3, ProviderForRoot("not a root"))
}
