package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// FixedWidth8 encodes a non-negative integer as an 8-byte big-endian value.
// Unlike the native variable-length encoding, lexicographic order of encoded
// values matches numeric order and composite keys built from them cannot
// collide, so storage.Find over a prefix yields entries in ascending numeric
// order.
func FixedWidth8(n int) []byte {
	buf := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n & 0xff)
		n = n >> 8
	}
	return buf
}
