package cmd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	wav "github.com/youpy/go-wav"
	soxr "github.com/zaf/resample"

	"github.com/ephyskit/ephystools/internal/pcm"
	"github.com/ephyskit/ephystools/pkg/neuroshare"
)

var exportCmd = &cobra.Command{
	Use:   "export <recording> <entity-id>",
	Short: "Export an analog entity to WAV or compressed float64",
	Long: `Export the continuous samples of an analog entity to a file.

Two output formats are supported:
  - wav: 16-bit PCM scaled from the entity's declared signal range,
    optionally resampled. Handy for listening to a channel in any
    audio player.
  - f64: raw little-endian float64 samples, zstd compressed. Lossless,
    for feeding analysis pipelines.

Reads stop at recording gaps and resume on the far side, so gaps are
squeezed out of the output; the gap count is reported at the end.

Examples:
  # Listen to an LFP channel in an audio player
  ephystools export session01.nev 1 --out lfp.wav

  # Downsample to audio rate while exporting
  ephystools export session01.nev 1 --format wav --new-samplerate 48000

  # Lossless export for offline analysis
  ephystools export session01.nev 1 --format f64 --out lfp.f64.zst`,
	Args: cobra.ExactArgs(2),
	Run:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("library", "l", "", "Vendor library path (overrides the registry)")
	exportCmd.Flags().String("config", "", "Vendor registry path")
	exportCmd.Flags().StringP("out", "o", "", "Output file path (derived from the recording when empty)")
	exportCmd.Flags().String("format", "wav", "Output format: wav or f64")
	exportCmd.Flags().Int("new-samplerate", 0, "Resample WAV output to this rate in Hz (0 keeps the native rate)")
	exportCmd.Flags().Int("chunk", 8192, "Samples per read")
	exportCmd.Flags().BoolP("verbose", "v", false, "Verbose output (debug logging)")
}

func runExport(cmd *cobra.Command, args []string) {
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
	outFileName, err := cmd.Flags().GetString("out")
	if err != nil {
		slog.Error("Failed to get out flag", "error", err)
		os.Exit(1)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		slog.Error("Failed to get format flag", "error", err)
		os.Exit(1)
	}
	newSampleRate, err := cmd.Flags().GetInt("new-samplerate")
	if err != nil {
		slog.Error("Failed to get new-samplerate flag", "error", err)
		os.Exit(1)
	}
	chunkSamples, err := cmd.Flags().GetInt("chunk")
	if err != nil {
		slog.Error("Failed to get chunk flag", "error", err)
		os.Exit(1)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		slog.Error("Failed to get verbose flag", "error", err)
		os.Exit(1)
	}

	setupLogging(verbose)

	if format != "wav" && format != "f64" {
		slog.Error("Invalid output format", "format", format, "valid", "wav, f64")
		os.Exit(1)
	}
	if newSampleRate < 0 || newSampleRate > 384000 {
		slog.Error("Invalid sample rate", "rate", newSampleRate, "valid_range", "1-384000")
		os.Exit(1)
	}
	if newSampleRate > 0 && format != "wav" {
		slog.Error("Resampling applies to WAV output only", "format", format)
		os.Exit(1)
	}
	if chunkSamples <= 0 {
		slog.Error("Invalid chunk size", "chunk", chunkSamples)
		os.Exit(1)
	}

	if outFileName == "" {
		base := strings.TrimSuffix(filepath.Base(recording), filepath.Ext(recording))
		switch format {
		case "wav":
			outFileName = fmt.Sprintf("%s_ent%d.wav", base, entityID)
		case "f64":
			outFileName = fmt.Sprintf("%s_ent%d.f64.zst", base, entityID)
		}
	}

	lib, f, err := openRecording(library, configPath, recording)
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
	slog.Info("Export starting",
		"recording", recording,
		"entity", entityID,
		"label", reader.Label(),
		"samples", reader.Len(),
		"sample_rate", info.SampleRate,
		"units", info.Units,
		"format", format,
		"output_file", outFileName)

	var written int
	switch format {
	case "wav":
		written, err = exportWAV(reader, outFileName, newSampleRate, chunkSamples)
	case "f64":
		written, err = exportF64(reader, outFileName, chunkSamples)
	}
	if err != nil {
		slog.Error("Export failed", "error", err)
		os.Exit(1)
	}

	if gaps := reader.Gaps(); gaps > 0 {
		slog.Warn("Recording gaps squeezed out of the output", "gaps", gaps)
	}

	slog.Info("Export complete",
		"input_samples", reader.Pos(),
		"output_samples", written,
		"output_file", outFileName)
}

// drainAnalog reads the reader to exhaustion in chunkSamples-sized reads.
func drainAnalog(reader *neuroshare.AnalogReader, chunkSamples int) ([]float64, error) {
	buf := make([]float64, chunkSamples)
	samples := make([]float64, 0, reader.Len())
	for {
		n, err := reader.ReadChunk(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read error: %w", err)
		}
	}
	return samples, nil
}

// exportWAV writes the entity as 16-bit PCM, resampling when a target rate
// is set. Returns the number of samples written.
func exportWAV(reader *neuroshare.AnalogReader, outFileName string, newSampleRate, chunkSamples int) (int, error) {
	samples, err := drainAnalog(reader, chunkSamples)
	if err != nil {
		return 0, err
	}

	info := reader.Info()
	inRate := int(math.Round(info.SampleRate))
	if inRate <= 0 {
		return 0, fmt.Errorf("entity reports no usable sample rate (%g Hz)", info.SampleRate)
	}
	outRate := inRate
	if newSampleRate > 0 {
		outRate = newSampleRate
	}

	data := pcm.Bytes(pcm.Int16FromRange(samples, info.MinVal, info.MaxVal))

	if outRate != inRate {
		slog.Info("Resampling", "from_rate", inRate, "to_rate", outRate)
		data, err = resamplePCM(data, inRate, outRate)
		if err != nil {
			return 0, err
		}
	}

	outSamples := len(data) / 2
	if err := writeWAVFile(outFileName, data, uint32(outSamples), uint32(outRate)); err != nil {
		return 0, err
	}
	return outSamples, nil
}

// resamplePCM resamples mono 16-bit PCM using SoXR.
func resamplePCM(data []byte, fromRate, toRate int) ([]byte, error) {
	var bufResampled bytes.Buffer
	bufWriter := bufio.NewWriter(&bufResampled)

	resampler, err := soxr.New(
		bufWriter,
		float64(fromRate),
		float64(toRate),
		1,          // mono
		soxr.I16,   // 16-bit input
		soxr.HighQ, // High quality
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	if _, err := resampler.Write(data); err != nil {
		resampler.Close()
		return nil, fmt.Errorf("failed to resample: %w", err)
	}

	if err := resampler.Close(); err != nil {
		return nil, fmt.Errorf("failed to close resampler: %w", err)
	}

	if err := bufWriter.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush buffer: %w", err)
	}

	return bufResampled.Bytes(), nil
}

// writeWAVFile writes mono 16-bit PCM data to a WAV file.
func writeWAVFile(fileName string, audioData []byte, numSamples uint32, sampleRate uint32) error {
	fOut, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer fOut.Close()

	wavWriter := wav.NewWriter(fOut, numSamples, 1, sampleRate, 16)

	if _, err := wavWriter.Write(audioData); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}

	return nil
}

// exportF64 streams the entity as little-endian float64, zstd compressed.
// Returns the number of samples written.
func exportF64(reader *neuroshare.AnalogReader, outFileName string, chunkSamples int) (int, error) {
	fOut, err := os.OpenFile(outFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer fOut.Close()

	zw, err := zstd.NewWriter(fOut)
	if err != nil {
		return 0, fmt.Errorf("failed to create compressor: %w", err)
	}

	buf := make([]float64, chunkSamples)
	raw := make([]byte, chunkSamples*8)
	written := 0
	for {
		n, err := reader.ReadChunk(buf)
		if n > 0 {
			for i := 0; i < n; i++ {
				binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(buf[i]))
			}
			if _, err := zw.Write(raw[:n*8]); err != nil {
				zw.Close()
				return 0, fmt.Errorf("failed to write samples: %w", err)
			}
			written += n
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			zw.Close()
			return 0, fmt.Errorf("read error: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush compressor: %w", err)
	}
	return written, nil
}
