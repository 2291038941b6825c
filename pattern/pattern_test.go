package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sansecio/sigscan/scanner"
)

var sample = []byte{
	/* 00 */ '?', '?', '?', '?',
	/* 04 */ 1, 2, 2, 3, 3, 3, 4, 4, 4, 4,
	/* 14 */ 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19,
	/* 24 */ 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F,
	/* 30 */ 'r', 'r', 'r', 'r', 'r', 'r',
	/* 36 */ 't', 'e', 'x', 't',
	/* 40 */ 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	/* 48 */ 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	/* 56 */ 0x0F, 0x05, 0xE9, '?', '?', '?', '?', 0xC3,
}

func find(buf []byte, nodes ...Node) int {
	off, ok := scanner.Find(buf, New(nodes...))
	if !ok {
		return scanner.NotFound
	}
	return off
}

func syscallJmpRet() []Node {
	syscall := Compound(Bytes(0x0F, 0x05))
	relJump := Compound(Bytes(0xE9), AnyDword())
	ret := Compound(Bytes(0xC3))
	return []Node{Compound(syscall, relJump, ret)}
}

func TestFindSample(t *testing.T) {
	half := func(data, value uint64) bool { return data == value/2 }

	tests := []struct {
		name  string
		buf   []byte
		nodes []Node
		want  int
	}{
		{"any byte", sample, []Node{AnyByte()}, 0},
		{"two any bytes", sample, []Node{AnyByte(), AnyByte()}, 0},
		{"any byte in one byte", sample[:1], []Node{AnyByte()}, 0},
		{"any byte in empty buffer", sample[:0], []Node{AnyByte()}, -1},
		{"any dword in empty buffer", sample[:0], []Node{AnyDword()}, -1},
		{"any dword in one byte", sample[:1], []Node{AnyDword()}, -1},
		{"any dword in four bytes", sample[:4], []Node{AnyDword()}, 0},
		{"single byte", sample, []Node{Bytes(1)}, 4},
		{"byte run", sample, []Node{Bytes(1, 2, 2, 3, 3, 3)}, 4},
		{"byte run with mismatch", sample, []Node{Bytes(1, 2, '?', 3, 3, 3)}, -1},
		{"byte run in empty buffer", sample[:0], []Node{Bytes(1, 2, 2, 3, 3, 3)}, -1},
		{"byte run in short buffer", sample[:4], []Node{Bytes(1, 2, 2, 3, 3, 3)}, -1},
		{"byte run cut by buffer end", sample[:9], []Node{Bytes(1, 2, 2, 3, 3, 3)}, -1},
		{"byte run at buffer end", sample[:10], []Node{Bytes(1, 2, 2, 3, 3, 3)}, 4},
		{"byte run at buffer start", sample[4:14], []Node{Bytes(1, 2, 2, 3, 3, 3)}, 0},
		{"wildcards only", sample[4:14], []Node{Skip(6), AnyWord()}, 0},
		{"chars", sample, []Node{Chars("text")}, 36},
		{"repeat three", sample, []Node{Rep(Chars("r"), 3)}, 30},
		{"repeat six", sample, []Node{Rep(Chars("r"), 6)}, 30},
		{"repeat seven", sample, []Node{Rep(Chars("r"), 7)}, -1},
		{"repeat then chars", sample, []Node{Rep(Chars("r"), 6), Chars("text")}, 30},
		{"not bytes", sample, []Node{Bytes(0x10), NotBytes(0, 0, 0, 0), Bytes(0x15)}, 14},
		{"not dword", sample, []Node{Bytes(0x10), NotDwords(0), Bytes(0x15)}, 14},
		{"compound", sample, syscallJmpRet(), 56},
		{"compound past end", sample, append(syscallJmpRet(), AnyByte()), -1},
		{"compound in truncated buffer", sample[:len(sample)-1], syscallJmpRet(), -1},
		{"custom predicate", sample, []Node{Custom[uint8](half, 2, 4, 4, 6, 6, 6)}, 4},
		{"empty pattern", sample, nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, find(tt.buf, tt.nodes...))
		})
	}
}

func TestScalarComparators(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"greater", Values[uint8](Greater, 0xF0), 55},
		{"greater equal", Values[uint8](GreaterEqual, 0xEE), 54},
		{"less", Values[uint8](Less, 1), 40},
		{"less equal", Values[uint8](LessEqual, 1), 4},
		{"any of", Values[uint8](AnyOf, 0x80), 48},
		{"all of", Values[uint8](AllOf, 0xC0), 52},
		{"signed byte less than zero", Values[int8](Less, 0), 48},
		{"signed word less than zero", Values[int16](Less, 0), 47},
		{"word", Words(0x1211), 15},
		{"dword", Dwords(0x33221100), 40},
		{"qword", Qwords(0x7766554433221100), 40},
		{"not words", NotWords(0x3F3F), 3},
		{"value is truncated to width", Literal{Type: Byte, Value: 0x4410}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, find(sample, tt.node))
		})
	}
}

func TestPredicateReceivesTruncatedValue(t *testing.T) {
	var got []uint64
	p := func(data, value uint64) bool {
		got = append(got, value)
		return true
	}
	n := Literal{Type: Byte, Value: 0x1234, Predicate: p}

	consumed, ok := Match(n, []byte{0}, 0)
	require.True(t, ok)
	assert.Equal(t, 1, consumed)
	assert.Equal(t, []uint64{0x34}, got)
}

func TestAlternationFirstBranchWins(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC}

	consumed, ok := Match(OneOf(Bytes(0xAA), Bytes(0xAA, 0xBB)), buf, 0)
	require.True(t, ok)
	assert.Equal(t, 1, consumed, "first declared branch decides the consumed size")

	consumed, ok = Match(OneOf(Bytes(0xAA, 0xBB), Bytes(0xAA)), buf, 0)
	require.True(t, ok)
	assert.Equal(t, 2, consumed)

	assert.Equal(t, 0, find(buf, OneOf(Bytes(0xAA), Bytes(0xAA, 0xBB)), Bytes(0xBB)))
}

func TestAlternationDoesNotBacktrack(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD}

	// The first branch matches, so the second is never tried even though
	// it would let the following node match.
	assert.Equal(t, -1, find(buf, OneOf(Bytes(0xAA), Bytes(0xAA, 0xBB)), Bytes(0xCC)))
	assert.Equal(t, 0, find(buf, OneOf(Bytes(0xAA, 0xBB), Bytes(0xAA)), Bytes(0xCC)))
}

func TestAlternationReservesWidestBranch(t *testing.T) {
	buf := []byte{0x01, 0x02}
	alt := OneOf(Bytes(0x02), Bytes(0x02, 0x03))

	assert.Equal(t, 2, Size(alt))
	assert.Equal(t, -1, find(buf, alt), "a window must hold the widest branch")
	assert.Equal(t, 1, find(append(buf, 0x00), alt))
}

func TestAlternationOnSample(t *testing.T) {
	assert.Equal(t, 15, find(sample, OneOf(Bytes(0x11), Bytes(0x22))))
	assert.Equal(t, 36, find(sample, OneOf(Chars("xyz"), Chars("text"))))
	assert.Equal(t, -1, find(sample, OneOf()))
}

func TestRange(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"equal in range", Between[uint8](Equal, 0x12, 0x14), 16},
		{"greater than some value", Between[uint8](Greater, 0x50, 0x60), 30},
		{"signed less", Between[int8](Less, -2, 0), 48},
		{"reversed bounds test only from", Between[uint8](Equal, 0x22, 0x11), 42},
		{"full byte range", Between[uint8](Equal, 0, 0xFF), 0},
		{"words", Between[uint16](Equal, 0x0302, 0x0303), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, find(sample, tt.node))
		})
	}
}

func TestRangeAtTypeMaximum(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	r := Range{Type: Qword, From: 1<<64 - 2, To: 1<<64 - 1}

	assert.Equal(t, 0, find(buf, r))
	assert.Equal(t, -1, find(buf, Range{Type: Qword, From: 0, To: 0}))
	assert.Equal(t, 0, find(buf, Range{Type: Int64, Cmp: Equal, From: 1<<64 - 3, To: 1<<64 - 1}))
}

func TestText(t *testing.T) {
	wide := []byte{'x', 'x', 'h', 0, 'i', 0}
	emoji := []byte{0x3D, 0xD8, 0x00, 0xDE}

	tests := []struct {
		name string
		buf  []byte
		node Node
		want int
	}{
		{"narrow", sample, Str("text"), 36},
		{"narrow nocase", sample, StrNoCase("TEXT"), 36},
		{"narrow case sensitive", sample, Str("TEXT"), -1},
		{"wide", wide, WStr("hi"), 2},
		{"wide nocase", wide, WStrNoCase("HI"), 2},
		{"wide case sensitive", wide, WStr("HI"), -1},
		{"wide surrogate pair", emoji, WStr("\U0001F600"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, find(tt.buf, tt.node))
		})
	}
}

func TestBitMask(t *testing.T) {
	assert.Equal(t, 14, find(sample, ByteMask(0x10, 0xF0)))
	assert.Equal(t, 0, find(sample, ByteMask(0x00, 0x00)))
	assert.Equal(t, 56, find(sample, WordMask(0x0500, 0xFF00)))
	assert.Equal(t, 40, find(sample, DwordMask(0x00001100, 0x0000FFFF)))
	assert.Equal(t, 48, find(sample, QwordMask(0xFFEEDDCCBBAA9988, ^uint64(0))))
}

func TestSize(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"byte", AnyByte(), 1},
		{"qword", AnyQword(), 8},
		{"sequence", Words(1, 2, 3), 6},
		{"repeat", Rep(AnyWord(), 3), 6},
		{"repeat zero", Rep(AnyWord(), 0), 0},
		{"repeat negative", Rep(AnyWord(), -1), 0},
		{"alternation", OneOf(Bytes(1), AnyDword()), 4},
		{"group", Compound(AnyByte(), AnyDword()), 5},
		{"skip", Skip(7), 7},
		{"text", Str("abc"), 3},
		{"wide text", WStr("abc"), 6},
		{"range", Between[int32](Equal, 0, 1), 4},
		{"bitmask", WordMask(0, 0), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Size(tt.node))
		})
	}
}

func TestZeroRepeatMatchesEmpty(t *testing.T) {
	assert.Equal(t, 4, find(sample, Rep(Bytes(0x42), 0), Bytes(1)))
}

func TestEmptyPattern(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.Len())
	assert.True(t, p.MatchAt(nil), "an empty node list matches trivially")

	_, ok := scanner.Find(sample, p)
	assert.False(t, ok, "an empty signature is never found")
}

func TestNilPattern(t *testing.T) {
	var p *Pattern
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.MatchAt(sample))
	assert.Nil(t, p.Nodes())
	assert.Nil(t, p.Atom())
	assert.Equal(t, -1, find(sample, nil...))

	_, ok := scanner.Find(sample, p)
	assert.False(t, ok)
}

func TestValuesShapes(t *testing.T) {
	assert.Equal(t, Wildcard{Type: Dword}, Values[uint32](Equal))
	assert.Equal(t, Literal{Type: Int16, Cmp: Less, Value: uint64(5)}, Values[int16](Less, 5))
	assert.Equal(t, Sequence{Type: Byte, Values: []uint64{1, 2}}, Bytes(1, 2))
}

func TestAtom(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  []byte
	}{
		{"compound", syscallJmpRet(), []byte{0x0F, 0x05, 0xE9}},
		{"text and words", []Node{Str("ab"), Words(0x6463)}, []byte("abcd")},
		{"wide text", []Node{WStr("ab")}, []byte{'a', 0, 'b', 0}},
		{"repeat", []Node{Rep(Bytes('r'), 3)}, []byte("rrr")},
		{"alternation splits runs", []Node{Bytes(1, 2), OneOf(Bytes(3)), Bytes(4, 5, 6)}, []byte{4, 5, 6}},
		{"full bitmask", []Node{ByteMask(0x41, 0xFF), Bytes(0x42)}, []byte("AB")},
		{"partial bitmask", []Node{ByteMask(0x41, 0x0F), Bytes(0x42)}, []byte("B")},
		{"negated", []Node{NotBytes(1, 2, 3)}, nil},
		{"nocase", []Node{StrNoCase("abc")}, nil},
		{"wildcards only", []Node{Skip(4)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.nodes...).Atom())
		})
	}
}

func TestTypeAndCmpStrings(t *testing.T) {
	assert.Equal(t, "dword", Dword.String())
	assert.Equal(t, "int64", Int64.String())
	assert.Equal(t, "Type(42)", Type(42).String())
	assert.Equal(t, ">=", GreaterEqual.String())
	assert.Equal(t, "allof", AllOf.String())
	assert.Equal(t, Byte, Char)
	assert.Equal(t, Word, WChar)
}
