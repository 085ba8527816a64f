// Package monitor streams an analog entity to an audio output in real time
// using a producer/consumer pair over a lock-free ring.
//
// The producer pulls sample chunks from a vendor library, which may stall
// on disk or driver calls; the consumer feeds the audio device at a steady
// rate. The ring between them absorbs the jitter.
package monitor

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ephyskit/ephystools/internal/pcm"
	"github.com/ephyskit/ephystools/pkg/samplering"
)

// SampleSource is the chunk puller the producer drains. A read returns how
// many samples landed in buf and io.EOF once the entity is exhausted.
type SampleSource interface {
	ReadChunk(buf []float64) (int, error)
	Label() string
}

// WriteFramesFunc hands converted PCM frames to the output device. It
// matches the blocking write of a portaudio stream; tests substitute their
// own capture function.
type WriteFramesFunc func(frames int, data []byte) error

// Config holds monitor tuning and the signal range used for PCM scaling.
type Config struct {
	RingChunks   uint64
	ChunkSamples int
	SampleRate   float64
	MinVal       float64
	MaxVal       float64
}

// DefaultConfig returns buffering defaults that keep roughly a second of
// 30 kHz signal in flight.
func DefaultConfig() Config {
	return Config{
		RingChunks:   64,
		ChunkSamples: 2048,
	}
}

// Status is a point-in-time snapshot of monitor progress.
type Status struct {
	Label           string
	SampleRate      float64
	PlayedSamples   uint64
	BufferedSamples uint64
	Elapsed         time.Duration
}

// Monitor runs the producer/consumer pair. Create with New, drive with
// Start, then either Wait for the entity to finish or Stop early.
type Monitor struct {
	source      SampleSource
	ring        *samplering.Ring
	cfg         Config
	writeFrames WriteFramesFunc

	stopChan     chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	stopped      bool
	producerDone atomic.Bool

	producedSamples atomic.Uint64
	playedSamples   atomic.Uint64
	startTime       time.Time
}

// New creates a monitor streaming source through writeFrames.
func New(source SampleSource, cfg Config, writeFrames WriteFramesFunc) *Monitor {
	if cfg.RingChunks == 0 {
		cfg.RingChunks = DefaultConfig().RingChunks
	}
	if cfg.ChunkSamples <= 0 {
		cfg.ChunkSamples = DefaultConfig().ChunkSamples
	}
	return &Monitor{
		source:      source,
		ring:        samplering.New(cfg.RingChunks),
		cfg:         cfg,
		writeFrames: writeFrames,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the producer and consumer goroutines.
func (m *Monitor) Start() error {
	if m.writeFrames == nil {
		return fmt.Errorf("monitor: no output configured")
	}
	if m.cfg.MaxVal <= m.cfg.MinVal {
		return fmt.Errorf("monitor: signal range [%g, %g] is empty", m.cfg.MinVal, m.cfg.MaxVal)
	}

	m.startTime = time.Now()

	m.wg.Add(2)
	go m.producer()
	go m.consumer()

	slog.Debug("monitor started", "entity", m.source.Label())
	return nil
}

// producer pulls chunks from the vendor library into the ring.
func (m *Monitor) producer() {
	defer m.wg.Done()
	defer m.producerDone.Store(true)

	buf := make([]float64, m.cfg.ChunkSamples)
	var nextIndex uint64

	for {
		select {
		case <-m.stopChan:
			slog.Debug("producer stopped", "samples", m.producedSamples.Load())
			return
		default:
		}

		n, err := m.source.ReadChunk(buf)
		if err == io.EOF {
			slog.Debug("producer finished", "samples", m.producedSamples.Load())
			return
		}
		if err != nil {
			slog.Error("read from vendor library failed", "error", err)
			return
		}

		chunk := samplering.Chunk{StartIndex: nextIndex, Samples: buf[:n]}
		nextIndex += uint64(n)

		// Retry until the ring takes it; the write deep copies, so buf is
		// free to reuse on the next read.
		toWrite := []samplering.Chunk{chunk}
		for len(toWrite) > 0 {
			written, _ := m.ring.Write(toWrite)
			if written > 0 {
				toWrite = toWrite[written:]
				m.producedSamples.Add(uint64(n))
				continue
			}

			select {
			case <-m.stopChan:
				return
			case <-time.After(2 * time.Millisecond):
			}
		}
	}
}

// consumer drains the ring, converts to PCM and pushes frames to the
// output. It exits once the producer is done and the ring is empty.
func (m *Monitor) consumer() {
	defer m.wg.Done()

	for {
		select {
		case <-m.stopChan:
			slog.Debug("consumer stopped", "samples", m.playedSamples.Load())
			return
		default:
		}

		chunks, err := m.ring.Read(4)
		if err == samplering.ErrInsufficientData {
			if m.producerDone.Load() {
				slog.Debug("consumer drained", "samples", m.playedSamples.Load())
				return
			}
			time.Sleep(5 * time.Millisecond)
			continue
		}

		for _, chunk := range chunks {
			frames := pcm.Int16FromRange(chunk.Samples, m.cfg.MinVal, m.cfg.MaxVal)
			if err := m.writeFrames(len(frames), pcm.Bytes(frames)); err != nil {
				slog.Error("write to audio output failed", "error", err)
				return
			}
			m.playedSamples.Add(uint64(len(frames)))
		}
	}
}

// Wait blocks until the source is exhausted and every buffered sample has
// been handed to the output.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Stop interrupts streaming. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	close(m.stopChan)
	m.wg.Wait()
}

// Status reports streaming progress.
func (m *Monitor) Status() Status {
	produced := m.producedSamples.Load()
	played := m.playedSamples.Load()
	buffered := uint64(0)
	if produced > played {
		buffered = produced - played
	}

	return Status{
		Label:           m.source.Label(),
		SampleRate:      m.cfg.SampleRate,
		PlayedSamples:   played,
		BufferedSamples: buffered,
		Elapsed:         time.Since(m.startTime),
	}
}
