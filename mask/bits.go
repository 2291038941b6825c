package mask

import (
	"fmt"

	"github.com/sansecio/sigscan/scanner"
)

// Bits matches a window where (data[i] & bits[i]) == (value[i] & bits[i])
// for every position. A zero bits byte makes that position a wildcard. It
// does not use a Registry.
type Bits struct {
	value []byte
	bits  []byte
}

// NewBits builds a raw bitmask signature over the first count bytes of
// value and bits.
func NewBits(value, bits []byte, count int) (*Bits, error) {
	if len(value) == 0 || len(bits) == 0 || count <= 0 {
		return nil, ErrEmpty
	}
	if len(value) < count || len(bits) < count {
		return nil, fmt.Errorf("%w: size %d, value %d, bits %d", ErrShort, count, len(value), len(bits))
	}
	b := &Bits{
		value: make([]byte, count),
		bits:  append([]byte(nil), bits[:count]...),
	}
	for i := range count {
		b.value[i] = value[i] & bits[i]
	}
	return b, nil
}

// Len returns the signature size.
func (b *Bits) Len() int {
	if b == nil {
		return 0
	}
	return len(b.value)
}

// MatchAt reports whether window agrees with the value on every selected
// bit.
func (b *Bits) MatchAt(window []byte) bool {
	if b == nil || len(window) < len(b.value) {
		return false
	}
	for i, v := range b.value {
		if window[i]&b.bits[i] != v {
			return false
		}
	}
	return true
}

// Atom returns the longest run of fully selected bytes.
func (b *Bits) Atom() []byte {
	var bestStart, bestLen, start int
	for i := 0; i <= len(b.bits); i++ {
		if i < len(b.bits) && b.bits[i] == 0xFF {
			continue
		}
		if i-start > bestLen {
			bestStart, bestLen = start, i-start
		}
		start = i + 1
	}
	if bestLen == 0 {
		return nil
	}
	return append([]byte(nil), b.value[bestStart:bestStart+bestLen]...)
}

// FindRawBitmask returns the first offset in buf matching value under bits
// over count bytes. Invalid input is reported as not found.
func FindRawBitmask(buf, value, bits []byte, count int) (int, bool) {
	sig, err := NewBits(value, bits, count)
	if err != nil {
		return scanner.NotFound, false
	}
	return scanner.Find(buf, sig)
}
