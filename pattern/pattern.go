// Package pattern defines the composable signature node types and the
// matcher that tests them against a byte buffer.
package pattern

// Node is one element of a signature tree. The set of node kinds is closed:
// Literal, Wildcard, Sequence, Repeat, Alternation, Range, Group, Text and
// BitMask.
type Node interface {
	node()
}

// Literal compares one scalar of the given type against Value.
type Literal struct {
	Type  Type
	Cmp   Cmp
	Value uint64
	// Predicate replaces Cmp when set.
	Predicate Predicate
}

func (Literal) node() {}

// Wildcard matches any scalar of the given type.
type Wildcard struct {
	Type Type
}

func (Wildcard) node() {}

// Sequence is shorthand for len(Values) consecutive literals sharing a type
// and comparator.
type Sequence struct {
	Type      Type
	Cmp       Cmp
	Values    []uint64
	Predicate Predicate
}

func (Sequence) node() {}

// Repeat tests Node at Count consecutive positions.
type Repeat struct {
	Node  Node
	Count int
}

func (Repeat) node() {}

// Alternation matches the first of Nodes, in declaration order, that
// matches. Once a branch is chosen it is never revisited, even if a later
// sibling fails.
type Alternation struct {
	Nodes []Node
}

func (Alternation) node() {}

// Range matches when the comparator holds for any value in [From, To].
// Values are enumerated in ascending order. If From > To only From is
// tested.
type Range struct {
	Type      Type
	Cmp       Cmp
	From      uint64
	To        uint64
	Predicate Predicate
}

func (Range) node() {}

// Group is a nested node list with the same meaning as its children
// spliced into the parent.
type Group struct {
	Nodes []Node
}

func (Group) node() {}

// Text matches a string literal. Wide strings use two bytes per character
// (UTF-16LE code units). NoCase folds ASCII letters only.
type Text struct {
	Value  string
	Wide   bool
	NoCase bool
}

func (Text) node() {}

// BitMask matches when the bits selected by Mask equal those of Value.
type BitMask struct {
	Type  Type
	Value uint64
	Mask  uint64
}

func (BitMask) node() {}

// Pattern is a root node list. The zero value matches nothing.
type Pattern struct {
	nodes []Node
	size  int
}

// New builds a root pattern from nodes.
func New(nodes ...Node) *Pattern {
	return &Pattern{
		nodes: nodes,
		size:  sizeOf(nodes),
	}
}

// Nodes returns the root node list. It must not be modified.
func (p *Pattern) Nodes() []Node {
	if p == nil {
		return nil
	}
	return p.nodes
}

// Len returns the window size tested at each offset. A nil pattern has
// size zero and is never found.
func (p *Pattern) Len() int {
	if p == nil {
		return 0
	}
	return p.size
}

// MatchAt reports whether the pattern matches at the start of window.
func (p *Pattern) MatchAt(window []byte) bool {
	if p == nil {
		return false
	}
	return MatchSequence(p.nodes, window, 0)
}
