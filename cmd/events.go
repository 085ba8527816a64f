package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ephyskit/ephystools/pkg/neuroshare"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events <recording> <entity-id>",
	Short: "Dump the timestamped events of an event entity",
	Long: `Dump every event of an event entity in timestamp order. The payload is
rendered according to the entity's declared encoding: text and CSV
payloads print as strings, byte/word/dword payloads print as decimal
with the raw width in parentheses.

Examples:
  # Dump all digital trigger events
  ephystools events session01.nev 0

  # First ten only, as JSON
  ephystools events session01.nev 0 --limit 10 --json`,
	Args: cobra.ExactArgs(2),
	Run:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringP("library", "l", "", "Vendor library path (overrides the registry)")
	eventsCmd.Flags().String("config", "", "Vendor registry path")
	eventsCmd.Flags().Int("limit", 0, "Stop after this many events (0 means all)")
	eventsCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	eventsCmd.Flags().BoolP("verbose", "v", false, "Verbose output (debug logging)")
}

// eventRow is one dumped event.
type eventRow struct {
	Index     uint32  `json:"index"`
	Timestamp float64 `json:"timestamp"`
	Text      string  `json:"text,omitempty"`
	Value     *uint32 `json:"value,omitempty"`
}

func runEvents(cmd *cobra.Command, args []string) {
	recording := args[0]

	entityID, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		slog.Error("Invalid entity id", "arg", args[1], "error", err)
		os.Exit(1)
	}

	library, err := cmd.Flags().GetString("library")
	if err != nil {
		slog.Error("Failed to get library flag", "error", err)
		os.Exit(1)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		slog.Error("Failed to get config flag", "error", err)
		os.Exit(1)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		slog.Error("Failed to get limit flag", "error", err)
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

	lib, f, err := openRecording(library, configPath, recording)
	if err != nil {
		slog.Error("Failed to open recording", "error", err)
		os.Exit(1)
	}
	defer lib.Close()
	defer f.Close()

	info, err := f.Entity(uint32(entityID))
	if err != nil {
		slog.Error("Failed to query entity", "entity", entityID, "error", err)
		os.Exit(1)
	}
	if info.Type != neuroshare.EntityEvent || info.Event == nil {
		slog.Error("Entity is not an event entity",
			"entity", entityID, "label", info.Label, "kind", info.Type.String())
		os.Exit(1)
	}
	desc := info.Event

	// Size the payload buffer from the descriptor. Some vendors report
	// zero for value-only encodings, so keep at least one byte.
	capacity := desc.MaxDataLength
	if capacity == 0 {
		capacity = 1
	}

	total := info.ItemCount
	if limit > 0 && uint32(limit) < total {
		total = uint32(limit)
	}

	rows := make([]eventRow, 0, total)
	for index := uint32(0); index < total; index++ {
		ev, err := f.EventData(uint32(entityID), index, desc.EventType, capacity)
		if err != nil {
			slog.Error("Failed to read event", "entity", entityID, "index", index, "error", err)
			os.Exit(1)
		}
		row := eventRow{Index: index, Timestamp: ev.Timestamp, Text: ev.Text}
		switch ev.Type {
		case neuroshare.EventByte, neuroshare.EventWord, neuroshare.EventDword:
			value := ev.Value
			row.Value = &value
		}
		rows = append(rows, row)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			slog.Error("Failed to encode JSON", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Entity %d (%s), %d of %d events:\n\n", entityID, info.Label, total, info.ItemCount)
	for _, row := range rows {
		switch {
		case row.Value != nil:
			fmt.Printf("%8d  %14.6f  %d\n", row.Index, row.Timestamp, *row.Value)
		case row.Text != "":
			fmt.Printf("%8d  %14.6f  %q\n", row.Index, row.Timestamp, row.Text)
		default:
			fmt.Printf("%8d  %14.6f  -\n", row.Index, row.Timestamp)
		}
	}
}
