package hexsig

import (
	"fmt"
	"strings"

	"github.com/sansecio/sigscan/pattern"
)

// Token is one position of a hex signature.
type Token struct {
	Value    byte
	Wildcard bool
	// Nibble records that the byte was written with a single digit.
	Nibble bool
}

func (t Token) String() string {
	switch {
	case t.Wildcard:
		return "??"
	case t.Nibble:
		return fmt.Sprintf("%X", t.Value)
	default:
		return fmt.Sprintf("%02X", t.Value)
	}
}

// Matches reports whether b satisfies the token.
func (t Token) Matches(b byte) bool {
	return t.Wildcard || b == t.Value
}

// Pattern is a parsed hex signature. It is immutable and safe for
// concurrent use.
type Pattern struct {
	text   string
	tokens []Token
}

// Tokens returns a copy of the parsed tokens.
func (p *Pattern) Tokens() []Token {
	return append([]Token(nil), p.tokens...)
}

// Source returns the text the pattern was parsed from.
func (p *Pattern) Source() string {
	return p.text
}

// String renders the pattern in canonical form, one token per position
// separated by single spaces.
func (p *Pattern) String() string {
	parts := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Len returns the number of bytes the pattern covers.
func (p *Pattern) Len() int {
	if p == nil {
		return 0
	}
	return len(p.tokens)
}

// MatchAt reports whether window matches every token.
func (p *Pattern) MatchAt(window []byte) bool {
	if p == nil || len(window) < len(p.tokens) {
		return false
	}
	for i, t := range p.tokens {
		if !t.Matches(window[i]) {
			return false
		}
	}
	return true
}

// Nodes converts the pattern to pattern nodes. Runs of literals become a
// byte Sequence and runs of wildcards a Repeat.
func (p *Pattern) Nodes() []pattern.Node {
	var nodes []pattern.Node
	for i := 0; i < len(p.tokens); {
		j := i + 1
		for j < len(p.tokens) && p.tokens[j].Wildcard == p.tokens[i].Wildcard {
			j++
		}
		if p.tokens[i].Wildcard {
			nodes = append(nodes, pattern.Skip(j-i))
		} else {
			values := make([]byte, 0, j-i)
			for _, t := range p.tokens[i:j] {
				values = append(values, t.Value)
			}
			nodes = append(nodes, pattern.Bytes(values...))
		}
		i = j
	}
	return nodes
}

// Tree returns the pattern as a root pattern tree.
func (p *Pattern) Tree() *pattern.Pattern {
	return pattern.New(p.Nodes()...)
}

// Mask returns the pattern as a pattern/mask pair for the standard mask
// registry, with '.' for literal bytes and '?' for wildcards.
func (p *Pattern) Mask() (pat, msk []byte) {
	pat = make([]byte, len(p.tokens))
	msk = make([]byte, len(p.tokens))
	for i, t := range p.tokens {
		if t.Wildcard {
			msk[i] = '?'
			continue
		}
		pat[i] = t.Value
		msk[i] = '.'
	}
	return pat, msk
}

// Atom returns the longest run of literal bytes.
func (p *Pattern) Atom() []byte {
	var best, run []byte
	for _, t := range p.tokens {
		if t.Wildcard {
			if len(run) > len(best) {
				best = run
			}
			run = nil
			continue
		}
		run = append(run, t.Value)
	}
	if len(run) > len(best) {
		best = run
	}
	return best
}
