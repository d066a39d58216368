// Package storage persists exported images and returns where they can be
// fetched from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Storage stores a named blob.
type Storage interface {
	// Put writes data under key and returns its public location.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

var (
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrTimeout            = errors.New("storage operation timed out")
	ErrCanceled           = errors.New("storage operation canceled")
	ErrServiceUnavailable = errors.New("storage service unavailable")
)

// CleanKey normalises key to a slash separated relative path and rejects
// keys that are empty or climb out of the root.
func CleanKey(key string) (string, error) {
	k := strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	if k == "" || strings.Contains(k, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k = path.Clean(k)
	if k == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}
