package sigset

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sansecio/sigscan/scanner"
)

// Match is a signature found in a buffer.
type Match struct {
	Name        string
	Description string
	// Offset is the lowest offset the signature matches at.
	Offset int
}

// ScanCallback is the interface for receiving match notifications.
type ScanCallback interface {
	SignatureMatching(m *Match) (abort bool, err error)
}

// Matches collects matching signatures and implements ScanCallback.
type Matches []Match

// SignatureMatching implements ScanCallback, collecting all matches.
func (m *Matches) SignatureMatching(match *Match) (abort bool, err error) {
	*m = append(*m, *match)
	return false, nil
}

// ScanMem scans buf and reports every matching signature in catalog order.
// A timeout of zero or less means no timeout. The timeout is checked between
// signatures; a signature scan in progress always completes.
func (s *Set) ScanMem(buf []byte, timeout time.Duration, cb ScanCallback) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.ScanContext(ctx, buf, cb)
}

// ScanContext is like ScanMem with a caller-supplied context.
func (s *Set) ScanContext(ctx context.Context, buf []byte, cb ScanCallback) error {
	// Check for cancellation before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	candidates := s.candidates(buf)
	s.logger.Debug("scanning buffer",
		zap.Int("size", len(buf)),
		zap.Int("candidates", len(candidates)),
		zap.Int("signatures", len(s.signatures)),
	)

	for _, idx := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cs := s.signatures[idx]
		off, ok := scanner.Find(buf, cs.sig)
		if !ok {
			continue
		}

		abort, err := cb.SignatureMatching(&Match{
			Name:        cs.name,
			Description: cs.description,
			Offset:      off,
		})
		if err != nil {
			return err
		}
		if abort {
			return nil
		}
	}

	return nil
}

// ScanFile reads path and scans its contents.
func (s *Set) ScanFile(path string, timeout time.Duration, cb ScanCallback) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return s.ScanMem(buf, timeout, cb)
}
