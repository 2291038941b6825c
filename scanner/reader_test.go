package scanner

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundaryData() []byte {
	data := bytes.Repeat([]byte{'.'}, 40)
	for _, off := range []int{0, 6, 14, 36} {
		copy(data[off:], "ABCD")
	}
	return data
}

func collect(t *testing.T, data []byte, sig Signature, chunkSize int) []int {
	t.Helper()
	var got []int
	err := ScanReader(context.Background(), bytes.NewReader(data), sig, chunkSize, func(offset int64) bool {
		got = append(got, int(offset))
		return false
	})
	require.NoError(t, err)
	return got
}

func TestScanReaderChunkBoundaries(t *testing.T) {
	data := boundaryData()
	sig := literal("ABCD")
	want := FindAll(data, sig)
	require.Equal(t, []int{0, 6, 14, 36}, want)

	for chunk := 1; chunk <= len(data)+1; chunk++ {
		assert.Equal(t, want, collect(t, data, sig, chunk), "chunk size %d", chunk)
	}
}

func TestScanReaderOverlapping(t *testing.T) {
	data := []byte("aaaaaa")
	for chunk := 1; chunk <= 7; chunk++ {
		assert.Equal(t, []int{0, 1, 2}, collect(t, data, literal("aaaa"), chunk), "chunk size %d", chunk)
	}
}

func TestScanReaderShortReads(t *testing.T) {
	data := boundaryData()
	var got []int
	err := ScanReader(context.Background(), iotest.OneByteReader(bytes.NewReader(data)), literal("ABCD"), 5, func(offset int64) bool {
		got = append(got, int(offset))
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 6, 14, 36}, got)
}

func TestScanReaderAbort(t *testing.T) {
	var got []int64
	err := ScanReader(context.Background(), bytes.NewReader(boundaryData()), literal("ABCD"), 8, func(offset int64) bool {
		got = append(got, offset)
		return len(got) == 2
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 6}, got)
}

func TestScanReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := ScanReader(ctx, bytes.NewReader(boundaryData()), literal("ABCD"), 8, func(int64) bool {
		called = true
		return false
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestScanReaderReadError(t *testing.T) {
	boom := errors.New("boom")
	err := ScanReader(context.Background(), iotest.ErrReader(boom), literal("ABCD"), 8, func(int64) bool {
		return false
	})
	assert.ErrorIs(t, err, boom)
}

func TestScanReaderEmptySignature(t *testing.T) {
	err := ScanReader(context.Background(), iotest.ErrReader(errors.New("unread")), literal(""), 8, func(int64) bool {
		t.Fatal("callback called for empty signature")
		return true
	})
	assert.NoError(t, err)
}

func TestFindReader(t *testing.T) {
	off, ok, err := FindReader(context.Background(), bytes.NewReader(boundaryData()), literal("ABCD"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), off)

	off, ok, err = FindReader(context.Background(), bytes.NewReader(boundaryData()), literal("ABCE"), 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(NotFound), off)
}
