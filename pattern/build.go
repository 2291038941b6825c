package pattern

// Scalar lists the Go types that map onto a pattern Type.
type Scalar interface {
	uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64
}

// TypeOf returns the pattern Type matching T.
func TypeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case uint16:
		return Word
	case uint32:
		return Dword
	case uint64:
		return Qword
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	}
	return Byte
}

// Values builds a node comparing consecutive scalars of type T. With no
// values it is a wildcard of one T, with one value a Literal, and with more
// a Sequence.
func Values[T Scalar](cmp Cmp, values ...T) Node {
	t := TypeOf[T]()
	switch len(values) {
	case 0:
		return Wildcard{Type: t}
	case 1:
		return Literal{Type: t, Cmp: cmp, Value: uint64(values[0])}
	}
	seq := Sequence{Type: t, Cmp: cmp, Values: make([]uint64, len(values))}
	for i, v := range values {
		seq.Values[i] = uint64(v)
	}
	return seq
}

// Custom is like Values with a caller-defined comparator.
func Custom[T Scalar](p Predicate, values ...T) Node {
	switch n := Values(Equal, values...).(type) {
	case Literal:
		n.Predicate = p
		return n
	case Sequence:
		n.Predicate = p
		return n
	default:
		return n
	}
}

// Bytes matches each value exactly.
func Bytes(values ...byte) Node { return Values(Equal, values...) }

// NotBytes matches when every byte differs from its value.
func NotBytes(values ...byte) Node { return Values(NotEqual, values...) }

// Words matches little-endian 16-bit values.
func Words(values ...uint16) Node { return Values(Equal, values...) }

// NotWords is the NotEqual form of Words.
func NotWords(values ...uint16) Node { return Values(NotEqual, values...) }

// Dwords matches little-endian 32-bit values.
func Dwords(values ...uint32) Node { return Values(Equal, values...) }

// NotDwords is the NotEqual form of Dwords.
func NotDwords(values ...uint32) Node { return Values(NotEqual, values...) }

// Qwords matches little-endian 64-bit values.
func Qwords(values ...uint64) Node { return Values(Equal, values...) }

// NotQwords is the NotEqual form of Qwords.
func NotQwords(values ...uint64) Node { return Values(NotEqual, values...) }

// Chars matches the bytes of s one by one.
func Chars(s string) Node {
	return Bytes([]byte(s)...)
}

// AnyByte, AnyWord, AnyDword and AnyQword match any value of their width.
func AnyByte() Node { return Wildcard{Type: Byte} }

func AnyWord() Node { return Wildcard{Type: Word} }

func AnyDword() Node { return Wildcard{Type: Dword} }

func AnyQword() Node { return Wildcard{Type: Qword} }

// Skip matches n arbitrary bytes.
func Skip(n int) Node {
	return Repeat{Node: Wildcard{Type: Byte}, Count: n}
}

// Str matches the bytes of s.
func Str(s string) Node { return Text{Value: s} }

// StrNoCase is Str ignoring ASCII case.
func StrNoCase(s string) Node { return Text{Value: s, NoCase: true} }

// WStr matches s as UTF-16LE.
func WStr(s string) Node { return Text{Value: s, Wide: true} }

// WStrNoCase is WStr ignoring ASCII case.
func WStrNoCase(s string) Node { return Text{Value: s, Wide: true, NoCase: true} }

// ByteMask matches a byte whose bits selected by mask equal value. WordMask,
// DwordMask and QwordMask are the wider forms.
func ByteMask(value, mask uint8) Node {
	return BitMask{Type: Byte, Value: uint64(value), Mask: uint64(mask)}
}

func WordMask(value, mask uint16) Node {
	return BitMask{Type: Word, Value: uint64(value), Mask: uint64(mask)}
}

func DwordMask(value, mask uint32) Node {
	return BitMask{Type: Dword, Value: uint64(value), Mask: uint64(mask)}
}

func QwordMask(value, mask uint64) Node {
	return BitMask{Type: Qword, Value: value, Mask: mask}
}

// Rep repeats n count times.
func Rep(n Node, count int) Node {
	return Repeat{Node: n, Count: count}
}

// OneOf is an Alternation over nodes.
func OneOf(nodes ...Node) Node {
	return Alternation{Nodes: nodes}
}

// Between is a Range over [from, to] of type T.
func Between[T Scalar](cmp Cmp, from, to T) Node {
	return Range{Type: TypeOf[T](), Cmp: cmp, From: uint64(from), To: uint64(to)}
}

// Compound groups nodes into one unit.
func Compound(nodes ...Node) Node {
	return Group{Nodes: nodes}
}
