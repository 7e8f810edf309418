package client

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// KeyTimeFormat is the timestamp prefix of stored object names.
const KeyTimeFormat = "20060102_150405"

// ErrStorageUnavailable is returned by an unconfigured object store.
var ErrStorageUnavailable = errors.New("object storage not configured")

// ObjectStore defines the interface for object storage operations
type ObjectStore interface {
	// Put stores body under key and returns its location reference
	// (e.g. s3://bucket/key).
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	IsConfigured() bool
	Name() string
}

// StampedFilename prefixes the base of filename with the timestamp.
func StampedFilename(at time.Time, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return at.Format(KeyTimeFormat) + "_" + base
}

// ObjectKey derives the storage key {prefix/}{YYYYMMDD_HHMMSS}_{filename}.
// Two uploads of the same filename within one second share a key.
func ObjectKey(prefix string, at time.Time, filename string) string {
	name := StampedFilename(at, filename)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// DisabledObjectStore stands in for a backend that was not configured at boot.
type DisabledObjectStore struct{}

func (DisabledObjectStore) Put(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrStorageUnavailable
}

func (DisabledObjectStore) IsConfigured() bool { return false }

func (DisabledObjectStore) Name() string { return "disabled" }
