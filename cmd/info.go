package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ephyskit/ephystools/pkg/neuroshare"
)

var infoCmd = &cobra.Command{
	Use:   "info <recording>",
	Short: "Show vendor library and recording metadata",
	Long: `Show what the vendor library says about itself and about a recording:
library identity and API revision, recording type, entity count, timestamp
resolution, time span and acquisition date.

Examples:
  # Use the extension registry to pick the vendor library
  ephystools info session01.nev

  # Name the vendor library explicitly
  ephystools info session01.nev --library /opt/neuroshare/nsNEVLibrary.so

  # Machine-readable output
  ephystools info session01.nev --json`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringP("library", "l", "", "Vendor library path (overrides the registry)")
	infoCmd.Flags().String("config", "", "Vendor registry path")
	infoCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	infoCmd.Flags().BoolP("verbose", "v", false, "Verbose output (debug logging)")
}

func runInfo(cmd *cobra.Command, args []string) {
	recording := args[0]

	libraryFlag, err := cmd.Flags().GetString("library")
	if err != nil {
		slog.Error("Failed to get library flag", "error", err)
		os.Exit(1)
	}
	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		slog.Error("Failed to get config flag", "error", err)
		os.Exit(1)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		slog.Error("Failed to get json flag", "error", err)
		os.Exit(1)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		slog.Error("Failed to get verbose flag", "error", err)
		os.Exit(1)
	}

	setupLogging(verbose)

	if _, err := os.Stat(recording); os.IsNotExist(err) {
		slog.Error("Recording not found", "path", recording)
		os.Exit(1)
	}

	lib, f, err := openRecording(libraryFlag, configFlag, recording)
	if err != nil {
		slog.Error("Failed to open recording", "error", err)
		os.Exit(1)
	}
	defer lib.Close()
	defer f.Close()

	// Older vendor libraries sometimes omit ns_GetLibraryInfo; the file
	// metadata is still worth showing.
	libInfo, err := lib.Info()
	if err != nil {
		var se *neuroshare.SymbolError
		if !errors.As(err, &se) {
			slog.Error("Failed to query library info", "error", err)
			os.Exit(1)
		}
		slog.Warn("Vendor library does not describe itself", "missing", se.Name)
	}

	fileInfo := f.Info()

	if asJSON {
		out := struct {
			Library *neuroshare.LibraryInfo `json:"library,omitempty"`
			File    neuroshare.FileInfo     `json:"file"`
		}{Library: libInfo, File: fileInfo}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			slog.Error("Failed to encode JSON", "error", err)
			os.Exit(1)
		}
		return
	}

	if libInfo != nil {
		fmt.Printf("Library:      %s (%s)\n", libInfo.Description, libInfo.Creator)
		fmt.Printf("Version:      %d.%d (API %d.%d)\n",
			libInfo.LibVersionMaj, libInfo.LibVersionMin,
			libInfo.APIVersionMaj, libInfo.APIVersionMin)
		fmt.Printf("Built:        %04d-%02d-%02d\n", libInfo.TimeYear, libInfo.TimeMonth, libInfo.TimeDay)
		fmt.Printf("Max files:    %d\n", libInfo.MaxFiles)
		fmt.Println()
	}

	fmt.Printf("Recording:    %s\n", recording)
	fmt.Printf("File type:    %s\n", fileInfo.FileType)
	if fileInfo.AppName != "" {
		fmt.Printf("Recorded by:  %s\n", fileInfo.AppName)
	}
	fmt.Printf("Entities:     %d\n", fileInfo.EntityCount)
	fmt.Printf("Resolution:   %g s/tick\n", fileInfo.TimeStampResolution)
	fmt.Printf("Time span:    %.3f s\n", fileInfo.TimeSpan)
	fmt.Printf("Acquired:     %04d-%02d-%02d %02d:%02d:%02d.%03d\n",
		fileInfo.TimeYear, fileInfo.TimeMonth, fileInfo.TimeDay,
		fileInfo.TimeHour, fileInfo.TimeMin, fileInfo.TimeSec, fileInfo.TimeMilliSec)
	if fileInfo.FileComment != "" {
		fmt.Printf("Comment:      %s\n", fileInfo.FileComment)
	}
}
