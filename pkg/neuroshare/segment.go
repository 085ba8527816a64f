package neuroshare

import (
	"fmt"
	"unsafe"
)

// SegmentInfo describes a segment (spike waveform) entity and every source
// contributing to it. Sources is ordered by source index 0..SourceCount-1.
type SegmentInfo struct {
	SourceCount    uint32
	MinSampleCount uint32
	MaxSampleCount uint32
	SampleRate     float64
	Units          string
	Sources        []SourceInfo
}

// SourceInfo describes one physical source of a segment entity.
type SourceInfo struct {
	MinVal         float64
	MaxVal         float64
	Resolution     float64
	SubSampleShift float64
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

// Segment is one waveform item read from a segment entity: the samples of
// every contributing source laid out source-major, plus the waveform's
// timestamp, the per-source sample count the vendor actually wrote and the
// sorted unit id it assigned.
type Segment struct {
	Data        [][]float64 // Data[source][sample]
	Timestamp   float64
	SampleCount uint32
	UnitID      uint32
}

func (f *File) segmentInfo(entityID uint32) (*SegmentInfo, error) {
	fn := f.lib.fn
	if fn.getSegmentInfo == nil {
		return nil, &SymbolError{Name: symGetSegmentInfo}
	}
	var rec segmentInfoRecord
	st := fn.getSegmentInfo(f.id, entityID, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetSegmentInfo, st); err != nil {
		return nil, err
	}
	info := &SegmentInfo{
		SourceCount:    rec.SourceCount,
		MinSampleCount: rec.MinSampleCount,
		MaxSampleCount: rec.MaxSampleCount,
		SampleRate:     rec.SampleRate,
		Units:          cString(rec.Units[:]),
		Sources:        make([]SourceInfo, rec.SourceCount),
	}
	if rec.SourceCount > 0 && fn.getSegmentSourceInfo == nil {
		return nil, &SymbolError{Name: symGetSegmentSourceInfo}
	}
	// Sources fill in index order; a failure on any source fails the whole
	// query so a partially described segment never escapes.
	for src := uint32(0); src < rec.SourceCount; src++ {
		var srec segSourceInfoRecord
		st := fn.getSegmentSourceInfo(f.id, entityID, src, &srec, uint32(unsafe.Sizeof(srec)))
		if err := f.lib.check(symGetSegmentSourceInfo, st); err != nil {
			return nil, err
		}
		info.Sources[src] = SourceInfo{
			MinVal:         srec.MinVal,
			MaxVal:         srec.MaxVal,
			Resolution:     srec.Resolution,
			SubSampleShift: srec.SubSampleShift,
			LocationX:      srec.LocationX,
			LocationY:      srec.LocationY,
			LocationZ:      srec.LocationZ,
			LocationUser:   srec.LocationUser,
			HighFreqCorner: srec.HighFreqCorner,
			HighFreqOrder:  srec.HighFreqOrder,
			HighFilterType: cString(srec.HighFilterType[:]),
			LowFreqCorner:  srec.LowFreqCorner,
			LowFreqOrder:   srec.LowFreqOrder,
			LowFilterType:  cString(srec.LowFilterType[:]),
			ProbeInfo:      cString(srec.ProbeInfo[:]),
		}
	}
	return info, nil
}

// SegmentData reads one segment item. sourceCount and sampleCount shape the
// receive buffer and come from the segment descriptor's SourceCount and
// MaxSampleCount; the vendor reports in SampleCount how many samples per
// source it actually wrote.
func (f *File) SegmentData(entityID, index, sourceCount, sampleCount uint32) (*Segment, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if sourceCount == 0 {
		return nil, fmt.Errorf("%w: source count must be positive", ErrInvalidArgument)
	}
	if sampleCount == 0 {
		return nil, fmt.Errorf("%w: sample count must be positive", ErrInvalidArgument)
	}
	fn := f.lib.fn
	if fn.getSegmentData == nil {
		return nil, &SymbolError{Name: symGetSegmentData}
	}
	flat := make([]float64, int(sourceCount)*int(sampleCount))
	var (
		timestamp float64
		got       uint32
		unit      uint32
	)
	byteCap := uint32(len(flat)) * uint32(unsafe.Sizeof(float64(0)))
	st := fn.getSegmentData(f.id, entityID, index, &timestamp, &flat[0], byteCap, &got, &unit)
	if err := f.lib.check(symGetSegmentData, st); err != nil {
		return nil, err
	}
	if got > sampleCount {
		got = sampleCount
	}
	seg := &Segment{
		Data:        make([][]float64, sourceCount),
		Timestamp:   timestamp,
		SampleCount: got,
		UnitID:      unit,
	}
	for src := uint32(0); src < sourceCount; src++ {
		off := int(src) * int(sampleCount)
		seg.Data[src] = flat[off : off+int(sampleCount)]
	}
	return seg, nil
}
