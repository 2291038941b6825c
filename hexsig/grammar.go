package hexsig

// Grammar structs for participle parser.
// Tokens must be separated by whitespace, so "?A" or "ABC" leave a token
// the grammar cannot place and fail to parse.

type signatureGrammar struct {
	Head *tokenGrammar   `parser:"@@"`
	Tail []*tokenGrammar `parser:"( Whitespace @@ )*"`
}

type tokenGrammar struct {
	Byte     *string `parser:"  @Byte"`
	Nibble   *string `parser:"| @Nibble"`
	Wildcard *string `parser:"| @Wildcard"`
}
