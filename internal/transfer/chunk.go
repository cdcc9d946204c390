// Package transfer implements the chunked artifact transfer protocol:
// splitting content into fixed-size chunks, framing uploads as one
// metadata frame followed by content frames, and reassembling artifacts
// from received frame streams.
package transfer

import (
	"fmt"
	"iter"
)

// DefaultChunkSize is the content chunk size used when none is configured.
const DefaultChunkSize = 1024

// Split returns a lazy sequence of chunks of data, each size bytes long
// except possibly a shorter final remainder. Empty input yields zero
// chunks. The sequence is pure over its inputs and can be ranged over
// more than once. Panics if size < 1.
func Split(data []byte, size int) iter.Seq[[]byte] {
	if size < 1 {
		panic(fmt.Sprintf("transfer: chunk size must be positive, got %d", size))
	}
	return func(yield func([]byte) bool) {
		for start := 0; start < len(data); start += size {
			end := min(start+size, len(data))
			if !yield(data[start:end:end]) {
				return
			}
		}
	}
}
