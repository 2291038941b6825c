package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is the chunk size used when none is given.
const DefaultChunkSize = 1 << 20

// ScanReader scans r chunk by chunk and calls fn with the absolute offset
// of every match, in ascending order. Each chunk keeps the last Len()-1
// bytes of the previous one, so matches straddling a chunk boundary are
// reported exactly once. ctx is checked before every chunk; a chunk in
// progress always runs to completion. Returning true from fn stops the
// scan.
func ScanReader(ctx context.Context, r io.Reader, sig Signature, chunkSize int, fn func(offset int64) (abort bool)) error {
	if sig == nil || sig.Len() <= 0 {
		return nil
	}
	size := sig.Len()
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = max(chunkSize, size)

	carry := size - 1
	buf := make([]byte, carry+chunkSize)
	var (
		n    int
		base int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		read, err := io.ReadFull(r, buf[n:])
		n += read
		done := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !done {
			return fmt.Errorf("reading chunk at offset %d: %w", base+int64(n), err)
		}

		window := buf[:n]
		for start := 0; ; {
			off, ok := FindFrom(window, sig, start)
			if !ok {
				break
			}
			if fn(base + int64(off)) {
				return nil
			}
			start = off + 1
		}
		if done {
			return nil
		}

		keep := min(carry, n)
		copy(buf, buf[n-keep:n])
		base += int64(n - keep)
		n = keep
	}
}

// FindReader returns the absolute offset of the first match in r.
func FindReader(ctx context.Context, r io.Reader, sig Signature, chunkSize int) (int64, bool, error) {
	found := int64(NotFound)
	err := ScanReader(ctx, r, sig, chunkSize, func(offset int64) bool {
		found = offset
		return true
	})
	if err != nil {
		return NotFound, false, err
	}
	return found, found != NotFound, nil
}
