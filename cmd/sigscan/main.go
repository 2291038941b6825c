package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sansecio/sigscan/scanner"
)

func main() {
	if err := Execute(); err != nil {
		if errors.Is(err, errNoMatch) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func findOffsets(buf []byte, sig scanner.Signature, all bool) []int {
	if all {
		return scanner.FindAll(buf, sig)
	}
	if off, ok := scanner.Find(buf, sig); ok {
		return []int{off}
	}
	return nil
}

// unescape interprets Go escapes such as \x0F in s and returns a string
// whose runes are the resulting bytes, as catalog entries expect. Input
// that is not a valid escaped string is returned unchanged.
func unescape(s string) string {
	if s == "" {
		return s
	}
	raw, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	runes := make([]rune, len(raw))
	for i := 0; i < len(raw); i++ {
		runes[i] = rune(raw[i])
	}
	return string(runes)
}
