package gram

import (
	"math/bits"
	"sync"
)

// pools[i] holds buffers with a cap of at least 1<<(i-1).
var pools [32]sync.Pool

func init() {
	for i := 1; i < len(pools); i++ {
		size := 1 << (i - 1)
		pools[i].New = func() interface{} {
			return make([]byte, 0, size)
		}
	}
}

// class returns the pool holding buffers big enough for n bytes.
func class(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n-1)) + 1
}

// GetBuffer returns an empty buffer with a cap of at least n.
// Buffers are pooled; return them with PutBuffer once nothing refers to them.
func GetBuffer(n int) []byte {
	i := class(n)
	if i >= len(pools) {
		return make([]byte, 0, n)
	}
	return pools[i].Get().([]byte)[:0]
}

// PutBuffer returns buff to the pool.
func PutBuffer(buff []byte) {
	// A buffer of cap c can serve every request of up to the largest power of two <= c.
	i := bits.Len(uint(cap(buff)))
	if i == 0 || i >= len(pools) {
		return
	}
	pools[i].Put(buff[:0])
}
