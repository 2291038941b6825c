package pattern

import (
	"unicode/utf16"

	"github.com/segmentio/asm/ascii"
)

// Size returns the number of bytes n occupies. An Alternation reports its
// widest branch, which is the space a signature window must reserve for it;
// the bytes actually consumed are known only after a branch matched.
func Size(n Node) int {
	switch n := n.(type) {
	case Literal:
		return n.Type.Size()
	case Wildcard:
		return n.Type.Size()
	case Sequence:
		return len(n.Values) * n.Type.Size()
	case Repeat:
		if n.Count <= 0 {
			return 0
		}
		return n.Count * Size(n.Node)
	case Alternation:
		widest := 0
		for _, child := range n.Nodes {
			widest = max(widest, Size(child))
		}
		return widest
	case Range:
		return n.Type.Size()
	case Group:
		return sizeOf(n.Nodes)
	case Text:
		return textSize(n)
	case BitMask:
		return n.Type.Size()
	}
	return 0
}

func sizeOf(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += Size(n)
	}
	return total
}

// Match tests n against data at pos. On success it returns the number of
// bytes the node consumed. A failed match reports zero bytes.
func Match(n Node, data []byte, pos int) (int, bool) {
	switch n := n.(type) {
	case Literal:
		v, ok := n.Type.read(data, pos)
		if !ok || !compare(n.Type, n.Cmp, n.Predicate, v, n.Value) {
			return 0, false
		}
		return n.Type.Size(), true

	case Wildcard:
		size := n.Type.Size()
		if size == 0 || pos < 0 || pos+size > len(data) {
			return 0, false
		}
		return size, true

	case Sequence:
		width := n.Type.Size()
		for i, value := range n.Values {
			v, ok := n.Type.read(data, pos+i*width)
			if !ok || !compare(n.Type, n.Cmp, n.Predicate, v, value) {
				return 0, false
			}
		}
		return len(n.Values) * width, true

	case Repeat:
		if n.Count <= 0 {
			return 0, true
		}
		stride := Size(n.Node)
		for i := range n.Count {
			if _, ok := Match(n.Node, data, pos+i*stride); !ok {
				return 0, false
			}
		}
		return n.Count * stride, true

	case Alternation:
		return matchAlternation(n, data, pos)

	case Range:
		v, ok := n.Type.read(data, pos)
		if !ok || !n.contains(v) {
			return 0, false
		}
		return n.Type.Size(), true

	case Group:
		return matchSequence(n.Nodes, data, pos)

	case Text:
		return matchText(n, data, pos)

	case BitMask:
		v, ok := n.Type.read(data, pos)
		if !ok {
			return 0, false
		}
		m := n.Type.truncate(n.Mask)
		if v&m != n.Value&m {
			return 0, false
		}
		return n.Type.Size(), true
	}
	return 0, false
}

// MatchSequence reports whether nodes match back to back starting at pos.
// Each node starts where the previous one ended, so an Alternation advances
// the cursor by the size of the branch that matched. An empty list matches.
func MatchSequence(nodes []Node, data []byte, pos int) bool {
	_, ok := matchSequence(nodes, data, pos)
	return ok
}

func matchSequence(nodes []Node, data []byte, pos int) (int, bool) {
	cursor := pos
	for _, n := range nodes {
		consumed, ok := Match(n, data, cursor)
		if !ok {
			return 0, false
		}
		cursor += consumed
	}
	return cursor - pos, true
}

func matchAlternation(a Alternation, data []byte, pos int) (int, bool) {
	for _, child := range a.Nodes {
		if consumed, ok := Match(child, data, pos); ok {
			return consumed, true
		}
	}
	return 0, false
}

// contains enumerates From..To and reports whether any value satisfies the
// comparator against data.
func (r Range) contains(data uint64) bool {
	if r.Type.Signed() {
		from, to := r.Type.extend(r.Type.truncate(r.From)), r.Type.extend(r.Type.truncate(r.To))
		if from > to {
			to = from
		}
		for v := from; ; v++ {
			if compare(r.Type, r.Cmp, r.Predicate, data, uint64(v)) {
				return true
			}
			if v == to {
				return false
			}
		}
	}

	from, to := r.Type.truncate(r.From), r.Type.truncate(r.To)
	if from > to {
		to = from
	}
	for v := from; ; v++ {
		if compare(r.Type, r.Cmp, r.Predicate, data, v) {
			return true
		}
		if v == to {
			return false
		}
	}
}

func textSize(t Text) int {
	if !t.Wide {
		return len(t.Value)
	}
	units := 0
	for _, r := range t.Value {
		units += utf16.RuneLen(r)
	}
	return 2 * units
}

func matchText(t Text, data []byte, pos int) (int, bool) {
	size := textSize(t)
	if pos < 0 || pos+size > len(data) {
		return 0, false
	}
	window := data[pos : pos+size]

	if !t.Wide {
		if t.NoCase {
			if !ascii.EqualFoldString(string(window), t.Value) {
				return 0, false
			}
		} else if string(window) != t.Value {
			return 0, false
		}
		return size, true
	}

	i := 0
	for _, r := range t.Value {
		units, n := [2]uint16{uint16(r)}, 1
		if utf16.RuneLen(r) == 2 {
			r1, r2 := utf16.EncodeRune(r)
			units, n = [2]uint16{uint16(r1), uint16(r2)}, 2
		}
		for _, u := range units[:n] {
			got := uint16(window[i]) | uint16(window[i+1])<<8
			if t.NoCase {
				got, u = foldUnit(got), foldUnit(u)
			}
			if got != u {
				return 0, false
			}
			i += 2
		}
	}
	return size, true
}

func foldUnit(u uint16) uint16 {
	if u >= 'A' && u <= 'Z' {
		return u + ('a' - 'A')
	}
	return u
}
