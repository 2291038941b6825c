// Package hexsig parses human-readable hex signatures such as
// "0F 05 E9 ?? ?? ?? ?? C3" or the short form "F 5 E9 ? ? ? ? C3".
//
// Tokens are separated by spaces or tabs. Two hex digits are a byte, one hex
// digit is a byte with that value (a nibble written without its leading
// zero), and "?" or "??" match any byte.
package hexsig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sansecio/sigscan/scanner"
)

var (
	// ErrEmpty is returned for signatures without tokens.
	ErrEmpty = errors.New("hexsig: empty signature")
	// ErrSyntax wraps malformed token errors.
	ErrSyntax = errors.New("hexsig: syntax error")
)

var hexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Byte", Pattern: `[0-9A-Fa-f]{2}`},
	{Name: "Nibble", Pattern: `[0-9A-Fa-f]`},
	{Name: "Wildcard", Pattern: `\?\??`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var hexParser = participle.MustBuild[signatureGrammar](
	participle.Lexer(hexLexer),
)

// Parse parses a hex signature.
func Parse(text string) (*Pattern, error) {
	trimmed := strings.Trim(text, " \t")
	if trimmed == "" {
		return nil, ErrEmpty
	}

	g, err := hexParser.ParseString("", trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	tokens := make([]Token, 0, 1+len(g.Tail))
	for _, t := range append([]*tokenGrammar{g.Head}, g.Tail...) {
		tokens = append(tokens, convertToken(t))
	}
	return &Pattern{text: text, tokens: tokens}, nil
}

// MustParse is like Parse but panics on error. It is meant for signatures
// known at compile time.
func MustParse(text string) *Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether text is a well-formed signature.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}

// Find returns the first offset in buf matching the signature text. A
// signature that does not parse is reported as not found.
func Find(buf []byte, text string) (int, bool) {
	p, err := Parse(text)
	if err != nil {
		return scanner.NotFound, false
	}
	return scanner.Find(buf, p)
}

func convertToken(t *tokenGrammar) Token {
	switch {
	case t.Byte != nil:
		b, _ := strconv.ParseUint(*t.Byte, 16, 8)
		return Token{Value: byte(b)}
	case t.Nibble != nil:
		b, _ := strconv.ParseUint(*t.Nibble, 16, 8)
		return Token{Value: byte(b), Nibble: true}
	default:
		return Token{Wildcard: true}
	}
}
