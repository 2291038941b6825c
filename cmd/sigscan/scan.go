package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sansecio/sigscan/sigset"
)

var (
	scanCatalog string
	scanTimeout time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Scan files with a signature catalog",
	Long: `Scan walks every path and reports each catalog signature found in each
file, with the offset of its first match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanCatalog, "catalog", "c", "", "YAML signature catalog")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Second, "Per-file scan timeout (0 for none)")
	_ = scanCmd.MarkFlagRequired("catalog")
}

func runScan(cmd *cobra.Command, args []string) error {
	catalog, err := sigset.LoadFile(scanCatalog)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	set, err := sigset.Compile(catalog, sigset.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("compiling catalog: %w", err)
	}

	prefiltered, unfiltered := set.Stats()
	logger.Info("compiled catalog",
		zap.String("catalog", scanCatalog),
		zap.Int("signatures", set.Len()),
		zap.Int("prefiltered", prefiltered),
		zap.Int("unfiltered", unfiltered),
	)

	pathColor := color.New(color.FgCyan)
	nameColor := color.New(color.FgHiRed, color.Bold)
	out := cmd.OutOrStdout()

	var scanned, matched int
	for _, root := range args {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("walk failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}

			scanned++
			var matches sigset.Matches
			if err := set.ScanFile(path, scanTimeout, &matches); err != nil {
				logger.Warn("scan failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			if len(matches) == 0 {
				return nil
			}

			matched++
			for _, m := range matches {
				fmt.Fprintf(out, "%s %s 0x%x\n", pathColor.Sprint(path), nameColor.Sprint(m.Name), m.Offset)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("walking %s: %w", root, err)
		}
	}

	logger.Info("scan finished", zap.Int("scanned", scanned), zap.Int("matched", matched))
	if matched == 0 {
		return errNoMatch
	}
	return nil
}
