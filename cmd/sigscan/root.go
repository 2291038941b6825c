package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel  = "info"
	logFormat = "console"
	noColor   bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sigscan",
	Short: "Find binary signatures in files",
	Long: `sigscan locates byte signatures in files. Signatures are hex strings
("0F 05 E9 ?? ?? ?? ?? C3"), byte patterns with a comparator mask, raw
bitmasks, or named entries of a YAML catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		l, err := newLogger(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logFormat, "Log format: console, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(parseCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.Config{
			Encoding: "console",
			EncoderConfig: zapcore.EncoderConfig{
				MessageKey:     "msg",
				LevelKey:       "level",
				TimeKey:        "ts",
				EncodeLevel:    zapcore.CapitalColorLevelEncoder,
				EncodeTime:     zapcore.ISO8601TimeEncoder,
				EncodeDuration: zapcore.StringDurationEncoder,
			},
		}
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want console or json", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
