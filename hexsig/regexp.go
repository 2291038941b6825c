package hexsig

import (
	"fmt"
	"strings"

	regexp "github.com/wasilibs/go-re2"
	"github.com/wasilibs/go-re2/experimental"
)

// Expr renders the pattern as an RE2 expression over bytes, for example
// "(?s)\x0f\x05\xe9.{4}\xc3".
func (p *Pattern) Expr() string {
	var sb strings.Builder
	sb.WriteString("(?s)")

	// Coalesce consecutive wildcards into a single .{n}
	for i := 0; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if !t.Wildcard {
			fmt.Fprintf(&sb, "\\x%02x", t.Value)
			continue
		}
		count := 1
		for i+count < len(p.tokens) && p.tokens[i+count].Wildcard {
			count++
		}
		if count == 1 {
			sb.WriteByte('.')
		} else {
			fmt.Fprintf(&sb, ".{%d}", count)
		}
		i += count - 1
	}

	return sb.String()
}

// Regexp compiles Expr in Latin-1 mode, so every byte value is one
// character. The first match it reports starts at the same offset as
// scanner.Find.
func (p *Pattern) Regexp() (*regexp.Regexp, error) {
	re, err := experimental.CompileLatin1(p.Expr())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", p.String(), err)
	}
	return re, nil
}
