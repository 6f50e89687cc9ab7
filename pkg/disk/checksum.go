package disk

// triangular holds n(n-1)/2 for every run length a decoded disk can carry.
var triangular = [MaxRunLength + 1]uint64{0, 0, 1, 3, 6, 10, 15, 21, 28, 36}

// Triangular returns 0 + 1 + ... + (n-1), the sum of the offsets of n
// consecutive blocks relative to the first one.
func Triangular(n int) uint64 {
	if n <= 0 {
		return 0
	}
	if n <= MaxRunLength {
		return triangular[n]
	}
	u := uint64(n)
	return u * (u - 1) / 2
}

// SpanChecksum returns the checksum contribution of n consecutive blocks of
// file id starting at offset start:
//
//	Σ_{k=0}^{n-1} (start+k)·id = id·(n·start + n(n-1)/2)
func SpanChecksum(id int, start int64, n int) uint64 {
	if n <= 0 || id <= 0 {
		return 0
	}
	return uint64(id) * (uint64(n)*uint64(start) + Triangular(n))
}

// BlockChecksum sums offset×id over a materialized block array, skipping
// FreeBlock slots. It is the brute-force counterpart of SpanChecksum.
func BlockChecksum(blocks []int) uint64 {
	var sum uint64
	for offset, id := range blocks {
		if id == FreeBlock {
			continue
		}
		sum += uint64(offset) * uint64(id)
	}
	return sum
}
