package neuroshare

import (
	"fmt"
	"io"
)

// AnalogReader walks one analog entity from its first sample to its last in
// caller-sized chunks, the way a streaming decoder hands out samples.
// It stops each read at recording gaps so a consumer never mixes samples
// across a discontinuity without noticing.
type AnalogReader struct {
	file     *File
	entityID uint32
	label    string
	info     *AnalogInfo
	pos      uint32
	total    uint32
	gaps     uint64
}

// AnalogReader returns a chunk reader over the given analog entity.
// Entities of any other kind are rejected before any data call.
func (f *File) AnalogReader(entityID uint32) (*AnalogReader, error) {
	info, err := f.Entity(entityID)
	if err != nil {
		return nil, err
	}
	if info.Type != EntityAnalog {
		return nil, fmt.Errorf("%w: entity %d is %s, not %s", ErrInvalidArgument, entityID, info.Type, EntityAnalog)
	}
	return &AnalogReader{
		file:     f,
		entityID: entityID,
		label:    info.Label,
		info:     info.Analog,
		total:    info.ItemCount,
	}, nil
}

// ReadChunk fills buf with the next run of samples and reports how many
// were read. A read ends early where the recording has a gap; the next call
// resumes on the far side of it. io.EOF signals the entity is exhausted.
func (r *AnalogReader) ReadChunk(buf []float64) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty chunk buffer", ErrInvalidArgument)
	}
	if r.pos >= r.total {
		return 0, io.EOF
	}
	want := uint32(len(buf))
	if remain := r.total - r.pos; want > remain {
		want = remain
	}
	chunk, err := r.file.AnalogData(r.entityID, r.pos, want)
	if err != nil {
		return 0, err
	}
	n := chunk.ContiguousCount
	if n == 0 {
		// Vendors that do not track continuity report zero; take the
		// chunk whole.
		n = want
	} else if n < want {
		r.gaps++
	}
	copy(buf, chunk.Data[:n])
	r.pos += n
	return int(n), nil
}

// Info returns the analog descriptor snapshotted when the reader was made.
func (r *AnalogReader) Info() *AnalogInfo { return r.info }

// Label returns the entity's label.
func (r *AnalogReader) Label() string { return r.label }

// Pos returns the next sample index ReadChunk will request.
func (r *AnalogReader) Pos() uint32 { return r.pos }

// Len returns the entity's total item count.
func (r *AnalogReader) Len() uint32 { return r.total }

// Gaps returns how many discontinuities the reads so far have crossed.
func (r *AnalogReader) Gaps() uint64 { return r.gaps }
