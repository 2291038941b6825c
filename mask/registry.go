package mask

import (
	"errors"
	"fmt"

	"github.com/sansecio/sigscan/scanner"
)

var (
	// ErrEmpty is returned when the pattern, mask, or subpattern is missing
	// or the signature size is zero.
	ErrEmpty = errors.New("mask: empty signature")
	// ErrShort is returned when an input is shorter than the signature size.
	ErrShort = errors.New("mask: input shorter than signature size")
	// ErrUnknownSelector is returned by Validate for mask characters no
	// comparator is registered for.
	ErrUnknownSelector = errors.New("mask: unknown selector")
)

// Standard is the registry used when no other is given:
//
//	.  Equal         ?  Any
//	!  NotEqual      >  Greater       G  GreaterEqual
//	<  Less          L  LessEqual
//	o  AnyOf         a  AllOf         m  BitMask (extended)
var Standard = NewRegistry(
	Equal('.'),
	Any('?'),
	NotEqual('!'),
	Greater('>'),
	GreaterEqual('G'),
	Less('<'),
	LessEqual('L'),
	AnyOf('o'),
	AllOf('a'),
	BitMask('m'),
)

const none = -1

// Registry is an ordered, immutable list of comparators. When several
// comparators share a mask character the first one registered wins. A mask
// character with no comparator never matches.
type Registry struct {
	comparators []Comparator
	// Index of the first comparator per mask character, for basic and
	// extended lookups.
	basic    [256]int
	extended [256]int
}

// NewRegistry builds a registry from comparators in priority order.
func NewRegistry(comparators ...Comparator) *Registry {
	r := &Registry{comparators: append([]Comparator(nil), comparators...)}
	for i := range r.basic {
		r.basic[i] = none
		r.extended[i] = none
	}
	for i, c := range r.comparators {
		if r.extended[c.Char] == none {
			r.extended[c.Char] = i
		}
		if c.Arity == Basic && r.basic[c.Char] == none {
			r.basic[c.Char] = i
		}
	}
	return r
}

// Comparators returns a copy of the registered comparators.
func (r *Registry) Comparators() []Comparator {
	return append([]Comparator(nil), r.comparators...)
}

// Lookup returns the comparator selected by ch. Without a subpattern only
// basic comparators are eligible.
func (r *Registry) Lookup(ch byte, extended bool) (Comparator, bool) {
	idx := r.basic[ch]
	if extended {
		idx = r.extended[ch]
	}
	if idx == none {
		return Comparator{}, false
	}
	return r.comparators[idx], true
}

// Validate reports the first mask character that selects no comparator.
func (r *Registry) Validate(msk []byte, extended bool) error {
	for i, ch := range msk {
		if _, ok := r.Lookup(ch, extended); !ok {
			return fmt.Errorf("%w %q at position %d", ErrUnknownSelector, ch, i)
		}
	}
	return nil
}

// Compile builds a signature from pattern and mask. The signature size is
// len(msk).
func (r *Registry) Compile(pattern, msk []byte) (*Signature, error) {
	return r.compile(pattern, nil, msk, len(msk), false)
}

// CompileSize is like Compile with an explicit size.
func (r *Registry) CompileSize(pattern, msk []byte, size int) (*Signature, error) {
	return r.compile(pattern, nil, msk, size, false)
}

// CompileExtended builds a signature whose comparators may also use the
// subpattern. The signature size is len(msk).
func (r *Registry) CompileExtended(pattern, sub, msk []byte) (*Signature, error) {
	return r.compile(pattern, sub, msk, len(msk), true)
}

// CompileExtendedSize is like CompileExtended with an explicit size.
func (r *Registry) CompileExtendedSize(pattern, sub, msk []byte, size int) (*Signature, error) {
	return r.compile(pattern, sub, msk, size, true)
}

func (r *Registry) compile(pattern, sub, msk []byte, size int, extended bool) (*Signature, error) {
	if len(pattern) == 0 || len(msk) == 0 || (extended && len(sub) == 0) || size <= 0 {
		return nil, ErrEmpty
	}
	if len(pattern) < size || len(msk) < size || (extended && len(sub) < size) {
		return nil, fmt.Errorf("%w: size %d, pattern %d, mask %d", ErrShort, size, len(pattern), len(msk))
	}

	sig := &Signature{
		pattern:     append([]byte(nil), pattern[:size]...),
		comparators: make([]int, size),
		registry:    r,
	}
	if extended {
		sig.sub = append([]byte(nil), sub[:size]...)
	} else {
		sig.sub = make([]byte, size)
	}
	for i, ch := range msk[:size] {
		sig.comparators[i] = r.basic[ch]
		if extended {
			sig.comparators[i] = r.extended[ch]
		}
	}
	return sig, nil
}

// Find returns the first offset in buf matching pattern under msk. Invalid
// input is reported as not found.
func (r *Registry) Find(buf, pattern, msk []byte) (int, bool) {
	return r.FindSize(buf, pattern, msk, len(msk))
}

// FindSize is like Find with an explicit signature size.
func (r *Registry) FindSize(buf, pattern, msk []byte, size int) (int, bool) {
	sig, err := r.CompileSize(pattern, msk, size)
	if err != nil {
		return scanner.NotFound, false
	}
	return scanner.Find(buf, sig)
}

// FindExtended is like Find with a subpattern for extended comparators.
func (r *Registry) FindExtended(buf, pattern, sub, msk []byte) (int, bool) {
	return r.FindExtendedSize(buf, pattern, sub, msk, len(msk))
}

// FindExtendedSize is like FindExtended with an explicit signature size.
func (r *Registry) FindExtendedSize(buf, pattern, sub, msk []byte, size int) (int, bool) {
	sig, err := r.CompileExtendedSize(pattern, sub, msk, size)
	if err != nil {
		return scanner.NotFound, false
	}
	return scanner.Find(buf, sig)
}
