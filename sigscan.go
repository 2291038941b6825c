// Package sigscan finds binary signatures in byte buffers.
//
// A signature can be written three ways, all with the same match semantics:
//
//   - a pattern tree built from the pattern package,
//     e.g. pattern.Bytes(0x0F, 0x05), pattern.AnyDword(), pattern.OneOf(...)
//   - a byte pattern with a mask string selecting a comparator per byte,
//     e.g. "\x0F\x05\xE9xxxx\xC3" with mask "...????."
//   - a hex string, e.g. "0F 05 E9 ?? ?? ?? ?? C3"
//
// Every Find function returns the lowest matching offset. Malformed
// signatures and absent ones are both reported as not found; use
// hexsig.Parse or mask.Registry.Compile to tell them apart.
package sigscan

import (
	"github.com/sansecio/sigscan/hexsig"
	"github.com/sansecio/sigscan/mask"
	"github.com/sansecio/sigscan/pattern"
	"github.com/sansecio/sigscan/scanner"
)

// NotFound is the offset returned alongside false.
const NotFound = scanner.NotFound

// Find returns the first offset at which p matches buf.
func Find(buf []byte, p *pattern.Pattern) (int, bool) {
	if p == nil {
		return NotFound, false
	}
	return scanner.Find(buf, p)
}

// FindNodes returns the first offset at which nodes match buf back to back.
func FindNodes(buf []byte, nodes ...pattern.Node) (int, bool) {
	return scanner.Find(buf, pattern.New(nodes...))
}

// FindMask matches pat under msk using mask.Standard. The signature size is
// len(msk).
func FindMask(buf, pat, msk []byte) (int, bool) {
	return mask.Standard.Find(buf, pat, msk)
}

// FindMaskSize is like FindMask with an explicit signature size.
func FindMaskSize(buf, pat, msk []byte, size int) (int, bool) {
	return mask.Standard.FindSize(buf, pat, msk, size)
}

// FindMaskExtended is like FindMask with a subpattern for extended
// comparators such as the 'm' bitmask selector.
func FindMaskExtended(buf, pat, sub, msk []byte) (int, bool) {
	return mask.Standard.FindExtended(buf, pat, sub, msk)
}

// FindMaskExtendedSize is like FindMaskExtended with an explicit signature
// size.
func FindMaskExtendedSize(buf, pat, sub, msk []byte, size int) (int, bool) {
	return mask.Standard.FindExtendedSize(buf, pat, sub, msk, size)
}

// FindHex returns the first offset matching the hex signature text.
func FindHex(buf []byte, text string) (int, bool) {
	return hexsig.Find(buf, text)
}

// FindRawBitmask returns the first offset where
// buf[i] & bits[i] == value[i] & bits[i] for the first count bytes.
func FindRawBitmask(buf, value, bits []byte, count int) (int, bool) {
	return mask.FindRawBitmask(buf, value, bits, count)
}
