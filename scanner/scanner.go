// Package scanner finds the first offset at which a fixed-size signature
// matches a byte buffer.
package scanner

// NotFound is the offset reported when a signature does not occur.
const NotFound = -1

// Signature is a fixed-length window test. Pattern trees, mask signatures
// and parsed hex strings all implement it.
type Signature interface {
	// Len returns the window size in bytes.
	Len() int
	// MatchAt reports whether the signature matches window, which holds
	// exactly Len() bytes.
	MatchAt(window []byte) bool
}

// Find returns the lowest offset at which sig matches buf. An empty buffer,
// an empty signature, or a signature longer than buf is never found.
func Find(buf []byte, sig Signature) (int, bool) {
	return FindFrom(buf, sig, 0)
}

// FindFrom is like Find but starts testing at offset start.
func FindFrom(buf []byte, sig Signature, start int) (int, bool) {
	if sig == nil {
		return NotFound, false
	}
	size := sig.Len()
	if len(buf) == 0 || size <= 0 || size > len(buf) || start < 0 {
		return NotFound, false
	}

	last := len(buf) - size
	for off := start; off <= last; off++ {
		if sig.MatchAt(buf[off : off+size]) {
			return off, true
		}
	}
	return NotFound, false
}

// FindAll returns every offset at which sig matches, ascending. Matches may
// overlap.
func FindAll(buf []byte, sig Signature) []int {
	var offsets []int
	for start := 0; ; {
		off, ok := FindFrom(buf, sig, start)
		if !ok {
			return offsets
		}
		offsets = append(offsets, off)
		start = off + 1
	}
}

// Contains reports whether sig occurs anywhere in buf.
func Contains(buf []byte, sig Signature) bool {
	_, ok := Find(buf, sig)
	return ok
}
