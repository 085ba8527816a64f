package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ephyskit/ephystools/pkg/neuroshare"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: fileinfo <vendor-library> <recording>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Opens a recording through a Neuroshare vendor library and prints")
		fmt.Fprintln(os.Stderr, "information about it")
		os.Exit(1)
	}

	libPath := os.Args[1]
	recording := os.Args[2]

	// Load the vendor library
	fmt.Printf("Loading: %s\n", libPath)
	lib, err := neuroshare.Open(libPath)
	if err != nil {
		log.Fatalf("Failed to load vendor library: %v", err)
	}
	defer lib.Close()

	if info, err := lib.Info(); err == nil {
		fmt.Printf("Library: %s (%s)\n", info.Description, info.Creator)
		fmt.Printf("API Version: %d.%d\n", info.APIVersionMaj, info.APIVersionMin)
	}
	fmt.Println()

	// Open the recording
	fmt.Printf("Opening: %s\n", recording)
	f, err := lib.OpenFile(recording)
	if err != nil {
		log.Fatalf("Failed to open recording: %v", err)
	}
	defer f.Close()

	info := f.Info()
	fmt.Printf("File Type: %s\n", info.FileType)
	fmt.Printf("Entities: %d\n", info.EntityCount)
	fmt.Printf("Time Span: %.3f seconds\n", info.TimeSpan)
	fmt.Println()

	// List entities, remember the first analog one
	firstAnalog := -1
	for id := uint32(0); id < info.EntityCount; id++ {
		ent, err := f.Entity(id)
		if err != nil {
			log.Fatalf("Failed to query entity %d: %v", id, err)
		}
		fmt.Printf("Entity %d: %s (%s, %d items)\n", id, ent.Label, ent.Type, ent.ItemCount)
		if firstAnalog < 0 && ent.Type == neuroshare.EntityAnalog {
			firstAnalog = int(id)
		}
	}
	fmt.Println()

	if firstAnalog < 0 {
		fmt.Println("No analog entity to stream")
		return
	}

	// Stream the first analog entity in chunks
	reader, err := f.AnalogReader(uint32(firstAnalog))
	if err != nil {
		log.Fatalf("Failed to open analog entity: %v", err)
	}

	samplesToRead := 1024
	buffer := make([]float64, samplesToRead)

	totalSamples := 0
	iterations := 0

	fmt.Printf("Reading %d samples at a time from entity %d...\n", samplesToRead, firstAnalog)

	for {
		n, err := reader.ReadChunk(buffer)
		if n > 0 {
			totalSamples += n
			iterations++

			if iterations <= 3 || iterations%100 == 0 {
				fmt.Printf("Iteration %d: Read %d samples\n", iterations, n)
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Fatalf("Read failed: %v", err)
			}
			break
		}
	}

	fmt.Println()
	fmt.Printf("Total samples read: %d\n", totalSamples)
	fmt.Printf("Total iterations: %d\n", iterations)
	fmt.Printf("Gaps crossed: %d\n", reader.Gaps())

	rate := reader.Info().SampleRate
	if rate > 0 {
		fmt.Printf("Duration: %.2f seconds\n", float64(totalSamples)/rate)
	}
}
