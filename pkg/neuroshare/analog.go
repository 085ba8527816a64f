package neuroshare

import (
	"fmt"
	"unsafe"
)

// AnalogInfo describes a continuous analog entity: sampling, signal range,
// electrode position and the acquisition filter chain.
type AnalogInfo struct {
	SampleRate     float64
	MinVal         float64
	MaxVal         float64
	Units          string
	Resolution     float64
	LocationX      float64
	LocationY      float64
	LocationZ      float64
	LocationUser   float64
	HighFreqCorner float64
	HighFreqOrder  uint32
	HighFilterType string
	LowFreqCorner  float64
	LowFreqOrder   uint32
	LowFilterType  string
	ProbeInfo      string
}

// AnalogChunk is the result of one analog read. Data always has the length
// that was requested; ContiguousCount reports how many leading samples form
// an unbroken run from the start index, so anything past it sits across a
// recording gap.
type AnalogChunk struct {
	Data            []float64
	ContiguousCount uint32
}

func (f *File) analogInfo(entityID uint32) (*AnalogInfo, error) {
	fn := f.lib.fn
	if fn.getAnalogInfo == nil {
		return nil, &SymbolError{Name: symGetAnalogInfo}
	}
	var rec analogInfoRecord
	st := fn.getAnalogInfo(f.id, entityID, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetAnalogInfo, st); err != nil {
		return nil, err
	}
	return &AnalogInfo{
		SampleRate:     rec.SampleRate,
		MinVal:         rec.MinVal,
		MaxVal:         rec.MaxVal,
		Units:          cString(rec.Units[:]),
		Resolution:     rec.Resolution,
		LocationX:      rec.LocationX,
		LocationY:      rec.LocationY,
		LocationZ:      rec.LocationZ,
		LocationUser:   rec.LocationUser,
		HighFreqCorner: rec.HighFreqCorner,
		HighFreqOrder:  rec.HighFreqOrder,
		HighFilterType: cString(rec.HighFilterType[:]),
		LowFreqCorner:  rec.LowFreqCorner,
		LowFreqOrder:   rec.LowFreqOrder,
		LowFilterType:  cString(rec.LowFilterType[:]),
		ProbeInfo:      cString(rec.ProbeInfo[:]),
	}, nil
}

// AnalogData reads sampleCount samples starting at startIndex. The returned
// chunk's Data slice always has length sampleCount regardless of how many
// samples were contiguous; callers use ContiguousCount to find the gap
// boundary. Nothing partially filled is returned on failure.
func (f *File) AnalogData(entityID, startIndex, sampleCount uint32) (*AnalogChunk, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if sampleCount == 0 {
		return nil, fmt.Errorf("%w: sample count must be positive", ErrInvalidArgument)
	}
	fn := f.lib.fn
	if fn.getAnalogData == nil {
		return nil, &SymbolError{Name: symGetAnalogData}
	}
	data := make([]float64, sampleCount)
	var cont uint32
	st := fn.getAnalogData(f.id, entityID, startIndex, sampleCount, &cont, &data[0])
	if err := f.lib.check(symGetAnalogData, st); err != nil {
		return nil, err
	}
	if cont > sampleCount {
		cont = sampleCount
	}
	return &AnalogChunk{Data: data, ContiguousCount: cont}, nil
}
