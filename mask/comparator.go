// Package mask matches signatures written as a byte pattern plus a mask
// string whose characters pick, per position, the comparator applied to the
// buffer byte. For example "\x0F\x05\xE9xxxx\xC3" with mask "...????." finds
// a syscall, a relative jump with any displacement, and a ret.
package mask

// Arity tells how many operands a comparator takes.
type Arity uint8

const (
	// Basic comparators test the buffer byte against the pattern byte.
	Basic Arity = iota
	// Extended comparators also receive the subpattern byte.
	Extended
)

func (a Arity) String() string {
	if a == Extended {
		return "extended"
	}
	return "basic"
}

type kind uint8

const (
	kindCustom kind = iota
	kindEqual
	kindAny
)

// Comparator tests one buffer byte. Char is the mask character selecting
// it.
type Comparator struct {
	Char  byte
	Arity Arity

	basic    func(data, pattern byte) bool
	extended func(data, pattern, sub byte) bool
	kind     kind
}

// Compare applies c. Basic comparators ignore sub.
func (c Comparator) Compare(data, pattern, sub byte) bool {
	if c.Arity == Extended {
		if c.extended == nil {
			return false
		}
		return c.extended(data, pattern, sub)
	}
	if c.basic == nil {
		return false
	}
	return c.basic(data, pattern)
}

// Custom returns a basic comparator backed by fn.
func Custom(ch byte, fn func(data, pattern byte) bool) Comparator {
	return Comparator{Char: ch, Arity: Basic, basic: fn}
}

// CustomExtended returns an extended comparator backed by fn.
func CustomExtended(ch byte, fn func(data, pattern, sub byte) bool) Comparator {
	return Comparator{Char: ch, Arity: Extended, extended: fn}
}

// Equal matches data == pattern.
func Equal(ch byte) Comparator {
	c := Custom(ch, func(data, pattern byte) bool { return data == pattern })
	c.kind = kindEqual
	return c
}

// NotEqual matches data != pattern.
func NotEqual(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data != pattern })
}

// Greater matches data > pattern. Bytes compare unsigned.
func Greater(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data > pattern })
}

// GreaterEqual matches data >= pattern.
func GreaterEqual(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data >= pattern })
}

// Less matches data < pattern.
func Less(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data < pattern })
}

// LessEqual matches data <= pattern.
func LessEqual(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data <= pattern })
}

// AnyOf matches when data shares a set bit with pattern.
func AnyOf(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data&pattern != 0 })
}

// AllOf matches when every bit set in pattern is set in data.
func AllOf(ch byte) Comparator {
	return Custom(ch, func(data, pattern byte) bool { return data&pattern == pattern })
}

// BitMask matches when the bits selected by sub agree between data and
// pattern.
func BitMask(ch byte) Comparator {
	return CustomExtended(ch, func(data, pattern, sub byte) bool {
		return data&sub == pattern&sub
	})
}

// Any matches every byte.
func Any(ch byte) Comparator {
	c := Custom(ch, func(byte, byte) bool { return true })
	c.kind = kindAny
	return c
}
