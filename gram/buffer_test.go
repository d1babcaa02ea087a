package gram

import (
	"fmt"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

var bufferSizes = []int{0, 1, 2, 3, 10, 16, 17, 200, 1000, 2000000}

var buffSink []byte

func TestGetBuffer(t *testing.T) {
	for _, n := range bufferSizes {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			for i := 0; i < 3; i++ {
				buffSink = GetBuffer(n)
				td.Cmp(t, len(buffSink), 0)
				td.Cmp(t, cap(buffSink), td.Gte(n))
				buffSink = append(buffSink, make([]byte, n)...)
				PutBuffer(buffSink)
			}
		})
	}
}

func TestClass(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 9, 1 << 20, 1<<20 + 1} {
		td.Cmp(t, 1<<(class(n)-1), td.Gte(n), "n=%v", n)
		td.Cmp(t, 1<<(class(n)-1), td.Lt(2*n), "n=%v", n)
	}
}

func BenchmarkPool(b *testing.B) {
	for _, n := range bufferSizes {
		b.Run(fmt.Sprint(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buffSink = GetBuffer(n)
				PutBuffer(buffSink)
			}
		})
	}
}
