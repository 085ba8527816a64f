package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"

	"github.com/ephyskit/ephystools/internal/monitor"
)

var (
	listenLibrary string
	listenConfig  string
	listenDevice  int
	listenChunk   int
	listenRing    uint64
	listenVerbose bool
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <recording> <entity-id>",
	Short: "Play an analog entity through the sound card",
	Long: `Stream the continuous samples of an analog entity straight to the sound
card, scaled to 16-bit PCM from the entity's declared signal range. A
producer goroutine pulls chunks from the vendor library while a consumer
feeds the audio device through a lock-free ring, so a slow disk or driver
never starves playback.

Listening to a channel is the quickest way to judge signal quality:
healthy spiking crackles, mains hum drones and a dead electrode is
silent.

Examples:
  # Listen to an LFP channel
  ephystools listen session01.nev 1

  # Pick an output device and buffer more aggressively
  ephystools listen session01.nev 1 -d 0 --ring 128

Status Reporting:
  Playback status is displayed every 2 seconds showing played time,
  buffered audio and wall-clock elapsed time.`,
	Args: cobra.ExactArgs(2),
	Run:  runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().StringVarP(&listenLibrary, "library", "l", "", "Vendor library path (overrides the registry)")
	listenCmd.Flags().StringVar(&listenConfig, "config", "", "Vendor registry path")
	listenCmd.Flags().IntVarP(&listenDevice, "device", "d", 1, "Audio output device index")
	listenCmd.Flags().IntVar(&listenChunk, "chunk", 2048, "Samples per buffer")
	listenCmd.Flags().Uint64Var(&listenRing, "ring", 64, "Ring capacity in chunks (power of 2)")
	listenCmd.Flags().BoolVarP(&listenVerbose, "verbose", "v", false, "Verbose output (debug logging)")
}

func runListen(cmd *cobra.Command, args []string) {
	recording := args[0]

	entityID, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		slog.Error("Invalid entity id", "arg", args[1], "error", err)
		os.Exit(1)
	}

	setupLogging(listenVerbose)

	if _, err := os.Stat(recording); os.IsNotExist(err) {
		slog.Error("Recording not found", "path", recording)
		os.Exit(1)
	}

	lib, f, err := openRecording(listenLibrary, listenConfig, recording)
	if err != nil {
		slog.Error("Failed to open recording", "error", err)
		os.Exit(1)
	}
	defer lib.Close()
	defer f.Close()

	reader, err := f.AnalogReader(uint32(entityID))
	if err != nil {
		slog.Error("Failed to open analog entity", "entity", entityID, "error", err)
		os.Exit(1)
	}

	info := reader.Info()
	if info.SampleRate <= 0 {
		slog.Error("Entity reports no usable sample rate", "entity", entityID, "rate", info.SampleRate)
		os.Exit(1)
	}

	slog.Info("Initializing PortAudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("Failed to initialize PortAudio", "error", err)
		slog.Error("Hint: Make sure PortAudio is installed on your system")
		os.Exit(1)
	}
	defer portaudio.Terminate()

	slog.Info("PortAudio initialized",
		"version", portaudio.GetVersion())
	slog.Info("Audio configuration",
		"device_index", listenDevice,
		"chunk_samples", listenChunk,
		"ring_chunks", listenRing)

	outParams := portaudio.PaStreamParameters{
		DeviceIndex:  listenDevice,
		ChannelCount: 1,
		SampleFormat: portaudio.SampleFmtInt16,
	}
	stream, err := portaudio.NewStream(outParams, info.SampleRate)
	if err != nil {
		slog.Error("Failed to create stream", "error", err)
		os.Exit(1)
	}
	if err := stream.Open(listenChunk); err != nil {
		slog.Error("Failed to open stream", "error", err)
		os.Exit(1)
	}
	if err := stream.StartStream(); err != nil {
		slog.Error("Failed to start stream", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stream.StopStream(); err != nil {
			slog.Warn("Failed to stop stream", "error", err)
		}
		if err := stream.Close(); err != nil {
			slog.Warn("Failed to close stream", "error", err)
		}
	}()

	mon := monitor.New(reader, monitor.Config{
		RingChunks:   listenRing,
		ChunkSamples: listenChunk,
		SampleRate:   info.SampleRate,
		MinVal:       info.MinVal,
		MaxVal:       info.MaxVal,
	}, stream.Write)

	slog.Info("Starting playback",
		"entity", entityID,
		"label", reader.Label(),
		"sample_rate", info.SampleRate,
		"samples", reader.Len(),
		"units", info.Units)
	if err := mon.Start(); err != nil {
		slog.Error("Failed to start streaming", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	statusDone := make(chan struct{})
	go monitorStreaming(mon, statusDone)

	done := make(chan struct{})
	go func() {
		mon.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Playback completed successfully")
	case sig := <-sigChan:
		slog.Info("Signal received, stopping playback", "signal", sig)
		mon.Stop()
	}

	close(statusDone)

	if gaps := reader.Gaps(); gaps > 0 {
		slog.Warn("Recording gaps crossed during playback", "gaps", gaps)
	}

	slog.Info("Exiting")
}

// monitorStreaming logs playback progress until done closes.
func monitorStreaming(mon *monitor.Monitor, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status := mon.Status()

			// Played audio time from samples actually sent to the device
			playedTimeSeconds := float64(status.PlayedSamples) / status.SampleRate
			bufferedTimeSeconds := float64(status.BufferedSamples) / status.SampleRate

			// Format elapsed time as hh:mm:ss.msec
			totalMilliseconds := status.Elapsed.Milliseconds()
			hours := totalMilliseconds / 3600000
			minutes := (totalMilliseconds % 3600000) / 60000
			seconds := (totalMilliseconds % 60000) / 1000
			milliseconds := totalMilliseconds % 1000
			elapsedStr := fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)

			slog.Info("Playback status",
				"entity", status.Label,
				"played", fmt.Sprintf("%.3fs", playedTimeSeconds),
				"buffered", fmt.Sprintf("%.3fs", bufferedTimeSeconds),
				"elapsed", elapsedStr)
		case <-done:
			return
		}
	}
}
