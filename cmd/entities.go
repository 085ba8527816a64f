package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ephyskit/ephystools/pkg/neuroshare"
)

var (
	// Flags for entities command
	entitiesLibrary string
	entitiesConfig  string
	entitiesKind    string
	entitiesJSON    bool
	entitiesVerbose bool
)

// entitiesCmd represents the entities command
var entitiesCmd = &cobra.Command{
	Use:   "entities <recording>",
	Short: "List the entities inside a recording",
	Long: `List every entity the recording holds: index, label, kind, item count
and a kind-specific summary (sampling rate and units for analog signals,
payload encoding for events, source count for segments).

Examples:
  # List everything
  ephystools entities session01.nev

  # Only the continuous analog channels
  ephystools entities session01.nev --kind analog

  # Feed entity indexes to other tools
  ephystools entities session01.nev --json`,
	Args: cobra.ExactArgs(1),
	Run:  runEntities,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)

	entitiesCmd.Flags().StringVarP(&entitiesLibrary, "library", "l", "", "Vendor library path (overrides the registry)")
	entitiesCmd.Flags().StringVar(&entitiesConfig, "config", "", "Vendor registry path")
	entitiesCmd.Flags().StringVarP(&entitiesKind, "kind", "k", "", "Only entities of this kind (event, analog, segment, neural, unknown)")
	entitiesCmd.Flags().BoolVar(&entitiesJSON, "json", false, "Emit JSON instead of text")
	entitiesCmd.Flags().BoolVarP(&entitiesVerbose, "verbose", "v", false, "Verbose output (debug logging)")
}

// entityRow is one line of listing output.
type entityRow struct {
	ID        uint32 `json:"id"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	ItemCount uint32 `json:"item_count"`
	Detail    string `json:"detail,omitempty"`
}

func runEntities(cmd *cobra.Command, args []string) {
	recording := args[0]

	setupLogging(entitiesVerbose)

	var kindFilter *neuroshare.EntityType
	if entitiesKind != "" {
		kind, ok := parseEntityKind(entitiesKind)
		if !ok {
			slog.Error("Unknown entity kind", "kind", entitiesKind,
				"valid", "event, analog, segment, neural, unknown")
			os.Exit(1)
		}
		kindFilter = &kind
	}

	lib, f, err := openRecording(entitiesLibrary, entitiesConfig, recording)
	if err != nil {
		slog.Error("Failed to open recording", "error", err)
		os.Exit(1)
	}
	defer lib.Close()
	defer f.Close()

	count := f.Info().EntityCount
	rows := make([]entityRow, 0, count)
	for id := uint32(0); id < count; id++ {
		info, err := f.Entity(id)
		if err != nil {
			slog.Error("Failed to query entity", "entity", id, "error", err)
			os.Exit(1)
		}
		if kindFilter != nil && info.Type != *kindFilter {
			continue
		}
		rows = append(rows, entityRow{
			ID:        id,
			Label:     info.Label,
			Kind:      info.Type.String(),
			ItemCount: info.ItemCount,
			Detail:    entityDetail(info),
		})
	}

	if entitiesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			slog.Error("Failed to encode JSON", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%-5s %-24s %-8s %10s  %s\n", "ID", "LABEL", "KIND", "ITEMS", "DETAIL")
	for _, row := range rows {
		fmt.Printf("%-5d %-24s %-8s %10d  %s\n", row.ID, row.Label, row.Kind, row.ItemCount, row.Detail)
	}
	fmt.Printf("\n%d of %d entities shown\n", len(rows), count)
}

// parseEntityKind maps a flag value to an entity kind.
func parseEntityKind(s string) (neuroshare.EntityType, bool) {
	switch strings.ToLower(s) {
	case "event":
		return neuroshare.EntityEvent, true
	case "analog":
		return neuroshare.EntityAnalog, true
	case "segment":
		return neuroshare.EntitySegment, true
	case "neural":
		return neuroshare.EntityNeuralEvent, true
	case "unknown":
		return neuroshare.EntityUnknown, true
	}
	return neuroshare.EntityUnknown, false
}

// entityDetail summarizes the kind-specific descriptor for listing output.
func entityDetail(info *neuroshare.EntityInfo) string {
	switch {
	case info.Event != nil:
		return fmt.Sprintf("%s payload, %d..%d bytes",
			info.Event.EventType, info.Event.MinDataLength, info.Event.MaxDataLength)
	case info.Analog != nil:
		return fmt.Sprintf("%g Hz, range [%g, %g] %s",
			info.Analog.SampleRate, info.Analog.MinVal, info.Analog.MaxVal, info.Analog.Units)
	case info.Segment != nil:
		return fmt.Sprintf("%d sources, max %d samples, %g Hz",
			info.Segment.SourceCount, info.Segment.MaxSampleCount, info.Segment.SampleRate)
	case info.Neural != nil:
		return fmt.Sprintf("sorted from entity %d unit %d",
			info.Neural.SourceEntityID, info.Neural.SourceUnitID)
	}
	return ""
}
