package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("error with path", func(t *testing.T) {
		err := NewError("get", "bucket/key", ProviderS3, ErrAccessDenied)
		assert.EqualError(t, err, "storage s3: get failed for bucket/key: storage: access denied")
		assert.True(t, IsAccessDenied(err))
	})

	t.Run("error without path", func(t *testing.T) {
		err := NewError("list", "", ProviderLocal, ErrNotFound)
		assert.EqualError(t, err, "storage file: list failed: storage: object not found")
	})

	t.Run("unwrap reaches the cause", func(t *testing.T) {
		base := errors.New("base error")
		err := NewError("get", "k", ProviderS3, base)
		assert.ErrorIs(t, err, base)
		assert.False(t, IsNotFound(err))
	})
}

func TestErrorCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"not found direct", ErrNotFound, IsNotFound, true},
		{"not found wrapped", fmt.Errorf("ctx: %w", ErrNotFound), IsNotFound, true},
		{"access denied", ErrAccessDenied, IsAccessDenied, true},
		{"too large wrapped", NewError("read", "k", ProviderS3, ErrTooLarge), IsTooLarge, true},
		{"mismatch", ErrTooLarge, IsNotFound, false},
		{"nil", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}
