package sigset

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sansecio/sigscan/hexsig"
	"github.com/sansecio/sigscan/mask"
	"github.com/sansecio/sigscan/scanner"
)

// Catalog is a list of named signatures, usually loaded from YAML:
//
//	signatures:
//	  - name: syscall_jmp_ret
//	    hex: "0F 05 E9 ?? ?? ?? ?? C3"
//	  - name: text_marker
//	    pattern: "text"
//	    mask: "...."
//	  - name: opcode
//	    bits: { value: "10", mask: "FF" }
type Catalog struct {
	Signatures []Entry `yaml:"signatures"`
}

// Entry is one catalog signature. Exactly one of Hex, Mask or Bits must be
// set. Pattern and Subpattern are Latin-1 strings, so "\xE9" is the single
// byte 0xE9.
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Hex string `yaml:"hex,omitempty"`

	Pattern    string `yaml:"pattern,omitempty"`
	Subpattern string `yaml:"subpattern,omitempty"`
	Mask       string `yaml:"mask,omitempty"`

	Bits *BitsEntry `yaml:"bits,omitempty"`
}

// BitsEntry is a raw bitmask signature. Value and Mask are hex byte
// strings; spaces are ignored.
type BitsEntry struct {
	Value string `yaml:"value"`
	Mask  string `yaml:"mask"`
}

// Load decodes a YAML catalog. Unknown fields are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &c, nil
}

// LoadFile decodes a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Compile builds the signature described by e.
func (e Entry) Compile(reg *mask.Registry) (scanner.Signature, error) {
	forms := 0
	if e.Hex != "" {
		forms++
	}
	if e.Mask != "" || e.Pattern != "" || e.Subpattern != "" {
		forms++
	}
	if e.Bits != nil {
		forms++
	}
	if forms != 1 {
		return nil, fmt.Errorf("signature %q: exactly one of hex, pattern/mask or bits is required", e.Name)
	}

	switch {
	case e.Hex != "":
		p, err := hexsig.Parse(e.Hex)
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", e.Name, err)
		}
		return p, nil

	case e.Bits != nil:
		value, err := decodeHex(e.Bits.Value)
		if err != nil {
			return nil, fmt.Errorf("signature %q: bits value: %w", e.Name, err)
		}
		bits, err := decodeHex(e.Bits.Mask)
		if err != nil {
			return nil, fmt.Errorf("signature %q: bits mask: %w", e.Name, err)
		}
		if len(value) != len(bits) {
			return nil, fmt.Errorf("signature %q: bits value has %d bytes, mask %d", e.Name, len(value), len(bits))
		}
		b, err := mask.NewBits(value, bits, len(value))
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", e.Name, err)
		}
		return b, nil
	}

	pat, err := latin1(e.Pattern)
	if err != nil {
		return nil, fmt.Errorf("signature %q: pattern: %w", e.Name, err)
	}
	msk := []byte(e.Mask)
	extended := e.Subpattern != ""
	if err := reg.Validate(msk, extended); err != nil {
		return nil, fmt.Errorf("signature %q: %w", e.Name, err)
	}

	var sig *mask.Signature
	if extended {
		sub, err := latin1(e.Subpattern)
		if err != nil {
			return nil, fmt.Errorf("signature %q: subpattern: %w", e.Name, err)
		}
		sig, err = reg.CompileExtended(pat, sub, msk)
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", e.Name, err)
		}
		return sig, nil
	}
	sig, err = reg.Compile(pat, msk)
	if err != nil {
		return nil, fmt.Errorf("signature %q: %w", e.Name, err)
	}
	return sig, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(s), ""))
}

// latin1 maps every rune of s to the byte with the same value.
func latin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("character %q at byte %d is not Latin-1", r, i)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
