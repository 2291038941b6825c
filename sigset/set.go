// Package sigset scans a buffer for many named signatures at once.
//
// Signatures that contain a literal run of at least minAtomLength bytes are
// only tested when that run occurs in the buffer, which an Aho-Corasick
// automaton over all runs decides in one pass. Prefiltering never changes
// the result, only how many signatures are scanned.
package sigset

import (
	"errors"
	"fmt"

	"github.com/cloudflare/ahocorasick"
	"go.uber.org/zap"

	"github.com/sansecio/sigscan/mask"
	"github.com/sansecio/sigscan/scanner"
)

const (
	// minAtomLength is the shortest literal run used for prefiltering.
	// Shorter runs occur in almost every binary and would filter nothing.
	minAtomLength = 3
)

// atomizer is implemented by signatures that can report a literal run.
type atomizer interface {
	Atom() []byte
}

// compiledSignature holds one named signature ready for scanning.
type compiledSignature struct {
	name        string
	description string
	sig         scanner.Signature
}

// Set holds compiled signatures. It is immutable and safe for concurrent
// scans.
type Set struct {
	signatures []*compiledSignature
	matcher    *ahocorasick.Matcher
	// atomOwners maps a matcher dictionary index to the signatures that
	// require it.
	atomOwners [][]int
	// unfiltered lists signatures without a usable atom.
	unfiltered []int
	logger     *zap.Logger
}

type options struct {
	logger   *zap.Logger
	registry *mask.Registry
	extra    []*compiledSignature
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRegistry sets the registry used for pattern/mask entries. The default
// is mask.Standard.
func WithRegistry(r *mask.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithSignature adds a signature that is already built, such as a
// pattern.Pattern tree. Added signatures follow the catalog entries in scan
// order and share the prefilter with them.
func WithSignature(name, description string, sig scanner.Signature) Option {
	return func(o *options) {
		o.extra = append(o.extra, &compiledSignature{
			name:        name,
			description: description,
			sig:         sig,
		})
	}
}

// Compile builds a Set from a catalog.
func Compile(c *Catalog, opts ...Option) (*Set, error) {
	return New(c.Signatures, opts...)
}

// New compiles entries into a Set. All invalid entries are reported
// together.
func New(entries []Entry, opts ...Option) (*Set, error) {
	o := options{logger: zap.NewNop(), registry: mask.Standard}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Set{logger: o.logger}
	var errs []error
	seen := make(map[string]bool, len(entries)+len(o.extra))
	checkName := func(n int, name string) bool {
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("signature #%d: missing name", n))
			return false
		case seen[name]:
			errs = append(errs, fmt.Errorf("signature %q: duplicate name", name))
			return false
		}
		seen[name] = true
		return true
	}

	for i, e := range entries {
		if !checkName(i+1, e.Name) {
			continue
		}
		sig, err := e.Compile(o.registry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.signatures = append(s.signatures, &compiledSignature{
			name:        e.Name,
			description: e.Description,
			sig:         sig,
		})
	}
	for i, cs := range o.extra {
		if !checkName(len(entries)+i+1, cs.name) {
			continue
		}
		if cs.sig == nil {
			errs = append(errs, fmt.Errorf("signature %q: nil signature", cs.name))
			continue
		}
		s.signatures = append(s.signatures, cs)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	atomIndex := make(map[string]int)
	var dictionary [][]byte
	for idx, cs := range s.signatures {
		atom := atomOf(cs.sig)
		if len(atom) < minAtomLength {
			s.unfiltered = append(s.unfiltered, idx)
			o.logger.Debug("signature has no prefilter atom", zap.String("signature", cs.name))
			continue
		}
		key := string(atom)
		d, ok := atomIndex[key]
		if !ok {
			d = len(dictionary)
			atomIndex[key] = d
			dictionary = append(dictionary, atom)
			s.atomOwners = append(s.atomOwners, nil)
		}
		s.atomOwners[d] = append(s.atomOwners[d], idx)
	}

	if len(dictionary) > 0 {
		s.matcher = ahocorasick.NewMatcher(dictionary)
	}

	o.logger.Debug("compiled signature set",
		zap.Int("signatures", len(s.signatures)),
		zap.Int("atoms", len(dictionary)),
		zap.Int("unfiltered", len(s.unfiltered)),
	)
	return s, nil
}

func atomOf(sig scanner.Signature) []byte {
	if sig.Len() <= 0 {
		return nil
	}
	if a, ok := sig.(atomizer); ok {
		return a.Atom()
	}
	return nil
}

// Len returns the number of signatures.
func (s *Set) Len() int {
	return len(s.signatures)
}

// Names returns the signature names in catalog order.
func (s *Set) Names() []string {
	names := make([]string, len(s.signatures))
	for i, cs := range s.signatures {
		names[i] = cs.name
	}
	return names
}

// Signature returns the compiled signature called name.
func (s *Set) Signature(name string) (scanner.Signature, bool) {
	for _, cs := range s.signatures {
		if cs.name == name {
			return cs.sig, true
		}
	}
	return nil, false
}

// Stats returns how many signatures are prefiltered and how many are
// always scanned.
func (s *Set) Stats() (prefiltered, unfiltered int) {
	return len(s.signatures) - len(s.unfiltered), len(s.unfiltered)
}

// candidates returns, in catalog order, the signatures that may match buf.
func (s *Set) candidates(buf []byte) []int {
	selected := make([]bool, len(s.signatures))
	for _, idx := range s.unfiltered {
		selected[idx] = true
	}
	if s.matcher != nil {
		for _, hit := range s.matcher.MatchThreadSafe(buf) {
			for _, idx := range s.atomOwners[hit] {
				selected[idx] = true
			}
		}
	}

	out := make([]int, 0, len(s.signatures))
	for idx, ok := range selected {
		if ok {
			out = append(out, idx)
		}
	}
	return out
}
