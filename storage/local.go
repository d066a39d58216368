package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files under a root directory.
type Local struct {
	root    string
	baseURL string
}

var _ Storage = (*Local)(nil)

// NewLocal returns a Local storage rooted at root. When baseURL is set, Put
// returns baseURL/key instead of the file path.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrInvalidConfig)
	}
	return &Local{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes data to root/key, creating parent directories.
func (l *Local) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(l.root, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if l.baseURL != "" {
		return l.baseURL + "/" + k, nil
	}
	return dst, nil
}
