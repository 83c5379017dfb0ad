package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transcheck/internal/check"
	"transcheck/internal/config"
	"transcheck/internal/progress"
	"transcheck/internal/render"
	"transcheck/internal/report"
	"transcheck/internal/walker"
)

// errIssuesFound is returned when the report has findings or unavailable languages.
var errIssuesFound = errors.New("translation issues found")

type options struct {
	configPath string
	workers    int
	format     string
	output     string
	noColor    bool
	verbose    bool
}

func setupLogger(verbose bool) {
	fd := os.Stderr.Fd()
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd),
	})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "transcheck [root]",
		Short: "Check that JSON translation trees are consistent across languages",
		Long: `transcheck treats every top-level folder of root as a language and reads the
*.json files beneath it. It reports keys missing from a language, keys that only
exist outside the baseline language, and {placeholder} variables that differ
between languages for the same key.

Exit status is 0 when no issues are found, 1 when issues are found and 2 on error.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "transcheck.yaml", "Config file path")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of worker goroutines (default from config)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: text or json (default from config)")
	flags.StringVarP(&opts.output, "output", "o", "", "Also write the JSON report to this file")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	setupLogger(opts.verbose)

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override config values
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.output != "" {
		cfg.OutputFile = opts.output
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	log.Info().Str("root", absRoot).Msg("Scanning translations")

	walkResult, err := walker.Walk(absRoot, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	for _, walkErr := range walkResult.Errors {
		log.Error().Err(walkErr).Str("language", walkErr.Language).Msg("Failed to list path")
	}

	log.Info().
		Int("languages", len(walkResult.Languages)).
		Int("files", len(walkResult.Files)).
		Msg("Found translation files")

	bar := progress.New(int64(len(walkResult.Files)))
	readResult := walker.ReadFiles(walkResult.Files, cfg.Workers, bar)
	bar.Finish()

	for _, readErr := range readResult.Errors {
		log.Error().Err(readErr).Str("language", readErr.Language).Msg("Failed to read file")
	}

	failures := append(walkResult.Errors, readResult.Errors...)
	rep := check.Run(check.Input{
		Languages: walkResult.Languages,
		Sources:   readResult.Sources,
		Failures:  failures,
	}, cfg.Workers)

	out := cmd.OutOrStdout()
	switch cfg.Format {
	case config.FormatJSON:
		if err := render.JSON(out, rep); err != nil {
			return err
		}
	default:
		colored := !opts.noColor
		if f, ok := out.(*os.File); ok {
			colored = colored && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
		} else {
			colored = false
		}
		render.Text(out, rep, colored)
	}

	if cfg.OutputFile != "" {
		if err := writeReport(cfg.OutputFile, rep); err != nil {
			return err
		}
		log.Info().Str("output", cfg.OutputFile).Msg("Wrote JSON report")
	}

	if rep.HasIssues {
		return errIssuesFound
	}
	return nil
}

func writeReport(path string, rep *report.Report) error {
	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := render.JSON(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	setupLogger(false)

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errIssuesFound) {
			os.Exit(1)
		}
		log.Error().Err(err).Msg("transcheck failed")
		os.Exit(2)
	}
}
