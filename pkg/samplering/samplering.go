package samplering

import (
	"errors"
	"sync/atomic"
)

var (
	ErrInsufficientSpace = errors.New("samplering: insufficient space")
	ErrInsufficientData  = errors.New("samplering: insufficient data")
)

// Chunk is one run of contiguous samples pulled from a recording, tagged
// with the absolute index of its first sample so consumers can spot
// discontinuities between neighboring chunks.
type Chunk struct {
	StartIndex uint64
	Samples    []float64
}

// Ring is a lock-free single-producer single-consumer ring buffer of sample
// chunks. It decouples a reader thread pulling from a vendor library, which
// may stall on disk, from a consumer with realtime deadlines.
//
// Thread safety:
//   - Write() must only be called by the producer goroutine
//   - Read() must only be called by the consumer goroutine
//
// Capacity is rounded up to the next power of 2 so position arithmetic
// reduces to a bitwise AND.
type Ring struct {
	buffer   []Chunk
	size     uint64 // power of 2
	mask     uint64 // size - 1
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// New creates a ring holding up to capacity chunks, rounded up to the next
// power of 2.
func New(capacity uint64) *Ring {
	capacity = nextPowerOf2(capacity)

	return &Ring{
		buffer: make([]Chunk, capacity),
		size:   capacity,
		mask:   capacity - 1,
	}
}

// Write appends chunks to the ring, as many as fit, and returns how many
// were written. Partial writes are normal when the consumer lags; callers
// retry with chunks[written:].
//
// The Samples slice of each chunk is deep copied, so the producer may reuse
// its read buffer immediately after Write returns.
//
// Returns ErrInsufficientSpace only when nothing at all could be written.
func (r *Ring) Write(chunks []Chunk) (int, error) {
	chunkCount := uint64(len(chunks))
	if chunkCount == 0 {
		return 0, nil
	}

	available := r.AvailableWrite()
	toWrite := min(chunkCount, available)

	if toWrite == 0 {
		return 0, ErrInsufficientSpace
	}

	writePos := r.writePos.Load()

	for i := uint64(0); i < toWrite; i++ {
		pos := (writePos + i) & r.mask
		r.buffer[pos] = chunks[i]
		// Deep copy so a reused producer buffer cannot corrupt queued data.
		r.buffer[pos].Samples = make([]float64, len(chunks[i].Samples))
		copy(r.buffer[pos].Samples, chunks[i].Samples)
	}

	r.writePos.Store(writePos + toWrite)

	return int(toWrite), nil
}

// Read removes up to numChunks from the ring. Fewer than requested is not
// an error; an empty ring is reported as ErrInsufficientData so a polling
// consumer can tell "nothing yet" from "got less than asked".
func (r *Ring) Read(numChunks int) ([]Chunk, error) {
	if numChunks <= 0 {
		return nil, nil
	}

	available := r.AvailableRead()
	if available == 0 {
		return nil, ErrInsufficientData
	}

	toRead := min(uint64(numChunks), available)

	readPos := r.readPos.Load()
	result := make([]Chunk, toRead)

	for i := uint64(0); i < toRead; i++ {
		pos := (readPos + i) & r.mask
		result[i] = r.buffer[pos]
	}

	r.readPos.Store(readPos + toRead)

	return result, nil
}

// AvailableWrite returns the number of chunk slots free for writing.
func (r *Ring) AvailableWrite() uint64 {
	writePos := r.writePos.Load()
	readPos := r.readPos.Load()
	return r.size - (writePos - readPos)
}

// AvailableRead returns the number of chunks queued for reading.
func (r *Ring) AvailableRead() uint64 {
	writePos := r.writePos.Load()
	readPos := r.readPos.Load()
	return writePos - readPos
}

// Size returns the ring capacity in chunks.
func (r *Ring) Size() uint64 {
	return r.size
}

// Reset empties the ring by rewinding both positions. Only safe when
// neither producer nor consumer is running.
func (r *Ring) Reset() {
	r.readPos.Store(0)
	r.writePos.Store(0)
}

// nextPowerOf2 rounds up to the next power of 2
func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
