package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ephyskit/ephystools/pkg/neuroshare"
	"github.com/ephyskit/ephystools/pkg/vendorcfg"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ephystools",
	Short: "Read electrophysiology recordings through Neuroshare vendor libraries",
	Long: `ephystools - Inspect, export and monitor electrophysiology recordings by
driving the vendor-provided Neuroshare shared libraries.

Every acquisition vendor ships a library exporting the same ns_ entry
points for its proprietary file format; ephystools loads the right one per
recording and gives uniform access to events, analog signals, spike
waveforms and sorted spike times.

Vendor selection:
  Pass --library explicitly, or map file extensions to libraries once in
  the registry (~/.config/ephystools/vendors.yaml) and forget about it.

Commands:
  - info: Show library and recording metadata
  - entities: List the entities inside a recording
  - events: Dump an event entity with timestamps
  - export: Export an analog entity to WAV or compressed float64
  - scan: Summarize many recordings in parallel
  - listen: Play an analog entity through the sound card`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the default text logger, with debug level when
// verbose is set.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// resolveLibrary picks the vendor library for a recording. An explicit
// --library wins; otherwise the registry maps the recording's extension.
func resolveLibrary(libraryFlag, configFlag, recording string) (string, error) {
	if libraryFlag != "" {
		return libraryFlag, nil
	}
	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = vendorcfg.DefaultPath()
	}
	cfg, err := vendorcfg.Load(cfgPath)
	if err != nil {
		return "", err
	}
	if lib, ok := cfg.Resolve(recording); ok {
		return lib, nil
	}
	return "", fmt.Errorf("no vendor library for %s: pass --library or map its extension in %s", recording, cfgPath)
}

// openRecording loads the vendor library chosen for the recording and opens
// the recording through it. The caller closes the file before the library.
func openRecording(libraryFlag, configFlag, recording string) (*neuroshare.Library, *neuroshare.File, error) {
	libPath, err := resolveLibrary(libraryFlag, configFlag, recording)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Loading vendor library", "path", libPath)
	lib, err := neuroshare.Open(libPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := lib.OpenFile(recording)
	if err != nil {
		lib.Close()
		return nil, nil, err
	}
	return lib, f, nil
}
