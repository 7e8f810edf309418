package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("submit: %w", Wrap(KindStorageWrite, "put", "Failed to store file", cause))

	assert.Equal(t, KindStorageWrite, KindOf(err))
	assert.True(t, Is(err, KindStorageWrite))
	assert.False(t, Is(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to store file", MessageOf(err))
}

func TestKindOf_Unclassified(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Internal Server Error", MessageOf(err))
	assert.False(t, Is(nil, KindInternal))
}

func TestError_String(t *testing.T) {
	assert.Equal(t, "get job: Job not found", New(KindNotFound, "get job", "Job not found").Error())
	assert.Equal(t, "Job not found", New(KindNotFound, "", "Job not found").Error())
	assert.Equal(t, "put: Failed: eof", Wrap(KindStorageWrite, "put", "Failed", errors.New("eof")).Error())
}
