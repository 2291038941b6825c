package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sansecio/sigscan/sigset"
)

// errNoMatch makes the process exit with status 1 without printing an
// error, like grep.
var errNoMatch = errors.New("no match")

var (
	findHex     string
	findPattern string
	findSub     string
	findMask    string
	findValue   string
	findBits    string
	findAll     bool
)

var findCmd = &cobra.Command{
	Use:   "find <file>",
	Short: "Find one signature in a file",
	Long: `Find prints the offset of the first match of a signature in a file.

The signature is given as exactly one of:
  --hex "0F 05 E9 ?? ?? ?? ?? C3"
  --pattern "\x0F\x05" --mask ".." [--sub ...]   (Latin-1 escapes allowed)
  --value "10" --bits "FF"                        (hex bytes)`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findHex, "hex", "", "Hex signature")
	findCmd.Flags().StringVar(&findPattern, "pattern", "", "Byte pattern for --mask")
	findCmd.Flags().StringVar(&findSub, "sub", "", "Subpattern for extended mask comparators")
	findCmd.Flags().StringVar(&findMask, "mask", "", "Mask string selecting a comparator per byte")
	findCmd.Flags().StringVar(&findValue, "value", "", "Raw bitmask value (hex)")
	findCmd.Flags().StringVar(&findBits, "bits", "", "Raw bitmask mask (hex)")
	findCmd.Flags().BoolVar(&findAll, "all", false, "Print every match, not just the first")
}

func runFind(cmd *cobra.Command, args []string) error {
	entry := sigset.Entry{
		Name:       "signature",
		Hex:        findHex,
		Pattern:    unescape(findPattern),
		Subpattern: unescape(findSub),
		Mask:       findMask,
	}
	if findValue != "" || findBits != "" {
		entry.Bits = &sigset.BitsEntry{Value: findValue, Mask: findBits}
	}

	set, err := sigset.New([]sigset.Entry{entry}, sigset.WithLogger(logger))
	if err != nil {
		return err
	}
	sig, _ := set.Signature(entry.Name)

	path := args[0]
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debug("searching file", zap.String("path", path), zap.Int("size", len(buf)), zap.Int("window", sig.Len()))

	offsets := findOffsets(buf, sig, findAll)
	if len(offsets) == 0 {
		return errNoMatch
	}

	offsetColor := color.New(color.FgHiGreen)
	for _, off := range offsets {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d)\n", path, offsetColor.Sprintf("0x%x", off), off)
	}
	return nil
}
