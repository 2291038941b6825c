package pattern

import "encoding/binary"

// Atom returns the longest run of bytes that every match of p contains
// verbatim. Runs never span a wildcard, range, comparator other than
// Equal, or an Alternation. The result is nil when p has no literal bytes.
func (p *Pattern) Atom() []byte {
	if p == nil {
		return nil
	}
	var best, run []byte
	flush := func() {
		if len(run) > len(best) {
			best = run
		}
		run = nil
	}
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if g, ok := n.(Group); ok {
				walk(g.Nodes)
				continue
			}
			lit, ok := literalBytes(n)
			if !ok {
				flush()
				continue
			}
			run = append(run, lit...)
		}
	}
	walk(p.nodes)
	flush()
	return best
}

// literalBytes returns the exact bytes n matches, if n matches exactly one
// byte string.
func literalBytes(n Node) ([]byte, bool) {
	switch n := n.(type) {
	case Literal:
		if n.Cmp != Equal || n.Predicate != nil {
			return nil, false
		}
		return encode(n.Type, n.Value), true
	case Sequence:
		if n.Cmp != Equal || n.Predicate != nil || len(n.Values) == 0 {
			return nil, false
		}
		var out []byte
		for _, v := range n.Values {
			out = append(out, encode(n.Type, v)...)
		}
		return out, true
	case Text:
		if n.NoCase || n.Value == "" {
			return nil, false
		}
		if !n.Wide {
			return []byte(n.Value), true
		}
		out := make([]byte, 0, textSize(n))
		for _, r := range n.Value {
			if r > 0xFFFF {
				return nil, false
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(r))
		}
		return out, true
	case Repeat:
		lit, ok := literalBytes(n.Node)
		if !ok || n.Count <= 0 {
			return nil, false
		}
		var out []byte
		for range n.Count {
			out = append(out, lit...)
		}
		return out, true
	case BitMask:
		if n.Type.truncate(n.Mask) != n.Type.truncate(^uint64(0)) {
			return nil, false
		}
		return encode(n.Type, n.Value), true
	}
	return nil, false
}

func encode(t Type, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return buf[:t.Size()]
}
