package pattern

import (
	"encoding/binary"
	"fmt"
)

// Type is the scalar type a node reads from the buffer. Multi-byte scalars
// are little-endian.
type Type uint8

const (
	Byte Type = iota
	Word
	Dword
	Qword
	Int8
	Int16
	Int32
	Int64
)

// Aliases for character data.
const (
	Char  = Byte
	WChar = Word
)

// Size returns the width of t in bytes.
func (t Type) Size() int {
	switch t {
	case Byte, Int8:
		return 1
	case Word, Int16:
		return 2
	case Dword, Int32:
		return 4
	case Qword, Int64:
		return 8
	}
	return 0
}

// Signed reports whether values of t compare as signed integers.
func (t Type) Signed() bool {
	return t >= Int8 && t <= Int64
}

func (t Type) String() string {
	switch t {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Dword:
		return "dword"
	case Qword:
		return "qword"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// read returns the zero-extended scalar at data[pos:].
func (t Type) read(data []byte, pos int) (uint64, bool) {
	n := t.Size()
	if n == 0 || pos < 0 || pos+n > len(data) {
		return 0, false
	}
	b := data[pos : pos+n]
	switch n {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), true
	default:
		return binary.LittleEndian.Uint64(b), true
	}
}

// truncate drops the bits above the width of t.
func (t Type) truncate(v uint64) uint64 {
	n := t.Size()
	if n == 0 || n == 8 {
		return v
	}
	return v & (1<<(8*n) - 1)
}

// extend sign-extends the low bits of v to 64 bits.
func (t Type) extend(v uint64) int64 {
	shift := 64 - 8*t.Size()
	return int64(v<<shift) >> shift
}

// Cmp is a comparator family. The zero value is Equal.
type Cmp uint8

const (
	Equal Cmp = iota
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	// AnyOf matches when data shares at least one set bit with the value.
	AnyOf
	// AllOf matches when every set bit of the value is set in data.
	AllOf
)

func (c Cmp) String() string {
	switch c {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case AnyOf:
		return "anyof"
	case AllOf:
		return "allof"
	}
	return fmt.Sprintf("Cmp(%d)", uint8(c))
}

// Predicate is a caller-defined comparator. data is the zero-extended
// scalar read from the buffer and value the node's operand, truncated to
// the node's width.
type Predicate func(data, value uint64) bool

// apply evaluates data <c> value at width t.
func (c Cmp) apply(t Type, data, value uint64) bool {
	value = t.truncate(value)
	switch c {
	case Equal:
		return data == value
	case NotEqual:
		return data != value
	case AnyOf:
		return data&value != 0
	case AllOf:
		return data&value == value
	}

	if t.Signed() {
		d, v := t.extend(data), t.extend(value)
		switch c {
		case Greater:
			return d > v
		case GreaterEqual:
			return d >= v
		case Less:
			return d < v
		case LessEqual:
			return d <= v
		}
		return false
	}

	switch c {
	case Greater:
		return data > value
	case GreaterEqual:
		return data >= value
	case Less:
		return data < value
	case LessEqual:
		return data <= value
	}
	return false
}

func compare(t Type, c Cmp, p Predicate, data, value uint64) bool {
	if p != nil {
		return p(data, t.truncate(value))
	}
	return c.apply(t, data, value)
}
