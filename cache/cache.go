// Package cache keeps encoded matrices for reuse. A Matrix depends only on
// its payload, level and encoder options, so it can be cached under a key
// derived from them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// Store is a matrix cache.
type Store interface {
	// Get returns the cached matrix. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*qrcode.Matrix, bool, error)
	Set(ctx context.Context, key string, m *qrcode.Matrix) error
}

// Key derives the cache key for an Encode call. Options that do not change
// the symbol, such as Verify, are ignored.
func Key(payload []byte, level qrcode.Level, opts *qrcode.Options) string {
	var o qrcode.Options
	if opts != nil {
		o = *opts
	}
	mask := int64(-1)
	if o.Mask != nil {
		mask = int64(*o.Mask)
	}

	var hdr [40]byte
	binary.BigEndian.PutUint64(hdr[0:], uint64(level))
	binary.BigEndian.PutUint64(hdr[8:], uint64(o.Version))
	binary.BigEndian.PutUint64(hdr[16:], uint64(mask))
	binary.BigEndian.PutUint64(hdr[24:], uint64(o.Mode))
	binary.BigEndian.PutUint64(hdr[32:], uint64(len(o.CharacterSet)))

	h := sha256.New()
	h.Write(hdr[:])
	h.Write([]byte(o.CharacterSet))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
