package mask

// Signature is a compiled pattern/mask pair. It is immutable and safe for
// concurrent use.
type Signature struct {
	pattern     []byte
	sub         []byte
	comparators []int
	registry    *Registry
}

// Len returns the signature size.
func (s *Signature) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pattern)
}

// MatchAt reports whether every position of window satisfies its
// comparator.
func (s *Signature) MatchAt(window []byte) bool {
	if s == nil || len(window) < len(s.pattern) {
		return false
	}
	for i, idx := range s.comparators {
		if idx == none {
			return false
		}
		if !s.registry.comparators[idx].Compare(window[i], s.pattern[i], s.sub[i]) {
			return false
		}
	}
	return true
}

// Atom returns the longest run of positions compared with the built-in
// Equal comparator, which every match contains verbatim.
func (s *Signature) Atom() []byte {
	var bestStart, bestLen, start int
	for i := 0; i <= len(s.comparators); i++ {
		if i < len(s.comparators) && s.exact(i) {
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
	return append([]byte(nil), s.pattern[bestStart:bestStart+bestLen]...)
}

func (s *Signature) exact(i int) bool {
	idx := s.comparators[i]
	return idx != none && s.registry.comparators[idx].kind == kindEqual
}
