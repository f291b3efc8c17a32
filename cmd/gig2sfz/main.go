// Package main is the entry point for the gig2sfz CLI
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/james-see/gig2sfz/pkg/api"
	"github.com/james-see/gig2sfz/pkg/config"
	"github.com/james-see/gig2sfz/pkg/converter"
	"github.com/james-see/gig2sfz/pkg/gig"
	"github.com/james-see/gig2sfz/pkg/logging"
	"github.com/james-see/gig2sfz/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputDir  string
	configPath string
	logLevel   string
	logFormat  string
	serverPort int
)

// errUsage marks a usage error whose usage text was already printed
var errUsage = errors.New("usage error")

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gig2sfz <file.gig>",
		Short: "Convert GigaSampler .gig instruments to SFZ",
		Long: `gig2sfz converts every instrument of a GigaSampler .gig file into an
SFZ file named after the instrument.

Regions layered by velocity and release trigger are flattened into one
SFZ region per dimension slot. Any other dimension aborts the run.

Examples:
  gig2sfz piano.gig
  gig2sfz piano.gig -o instruments/
  gig2sfz inspect piano.gig
  gig2sfz preview piano.gig
  gig2sfz tui
  gig2sfz serve --port 8080`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          exactArgs(1),
		RunE:          runConvert,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <file.gig>",
		Short: "Show the region and dimension layout of a .gig file",
		Args:  exactArgs(1),
		RunE:  runInspect,
	}

	previewCmd := &cobra.Command{
		Use:   "preview <file.gig>",
		Short: "Write a MIDI file per instrument that plays every zone",
		Args:  exactArgs(1),
		RunE:  runPreview,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		Args:  exactArgs(0),
		RunE:  runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  exactArgs(0),
		RunE:  runServe,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputDir, "output-dir", "o", ".", "Directory for generated files")
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return errUsage
	})

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

// exactArgs prints usage to stdout on the wrong number of arguments
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return errUsage
		}
		return nil
	}
}

// loadSettings merges the config file with flags set on the command line
func loadSettings(cmd *cobra.Command) (*config.Config, *converter.Converter, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	conv := converter.New()
	conv.SetPlaceholderName(cfg.PlaceholderName)
	conv.SetLogger(logger)
	return cfg, conv, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg, conv, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.OutputDir); err != nil {
		return err
	}

	written, err := conv.ConvertPath(input, converter.DirSink{Dir: cfg.OutputDir})
	for _, name := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", input, filepath.Join(cfg.OutputDir, name))
	}
	return err
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, conv, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	f, err := gig.Open(args[0])
	if err != nil {
		return err
	}
	return converter.WriteSummary(cmd.OutOrStdout(), conv.Summarize(f))
}

func runPreview(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg, conv, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.OutputDir); err != nil {
		return err
	}

	f, err := gig.Open(input)
	if err != nil {
		return err
	}
	written, err := conv.PreviewFile(f, converter.DirSink{Dir: cfg.OutputDir})
	for _, name := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "Preview %s -> %s\n", input, filepath.Join(cfg.OutputDir, name))
	}
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, conv, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return tui.Run(conv, cfg.OutputDir)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, conv, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %d...\n", cfg.Server.Port)
	return api.StartServer(cfg.Server.Port, conv)
}
