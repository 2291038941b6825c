package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sansecio/sigscan/hexsig"
)

var parseCmd = &cobra.Command{
	Use:   "parse <hex> [file...]",
	Short: "Validate a hex signature",
	Long: `Parse checks a hex signature and prints its canonical form, its length
and the equivalent regular expression. Given files, it also prints where the
regular expression first matches in each.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	p, err := hexsig.Parse(args[0])
	if err != nil {
		return err
	}
	re, err := p.Regexp()
	if err != nil {
		return fmt.Errorf("compiling regexp: %w", err)
	}

	label := color.New(color.Faint)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", label.Sprint("signature:"), p.String())
	fmt.Fprintf(out, "%s %d\n", label.Sprint("length:   "), p.Len())
	fmt.Fprintf(out, "%s %s\n", label.Sprint("regexp:   "), p.Expr())

	offsetColor := color.New(color.FgHiGreen)
	for _, path := range args[1:] {
		buf, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		loc := re.FindIndex(buf)
		logger.Debug("regexp search", zap.String("path", path), zap.Int("size", len(buf)), zap.Bool("matched", loc != nil))
		if loc == nil {
			fmt.Fprintf(out, "%s: no match\n", path)
			continue
		}
		fmt.Fprintf(out, "%s: %s (%d)\n", path, offsetColor.Sprintf("0x%x", loc[0]), loc[0])
	}
	return nil
}
