package neuroshare

import (
	"fmt"
	"unsafe"
)

// NeuralInfo describes a neural (sorted spike time) entity and the segment
// entity and unit it was sorted from.
type NeuralInfo struct {
	SourceEntityID uint32
	SourceUnitID   uint32
	ProbeInfo      string
}

func (f *File) neuralInfo(entityID uint32) (*NeuralInfo, error) {
	fn := f.lib.fn
	if fn.getNeuralInfo == nil {
		return nil, &SymbolError{Name: symGetNeuralInfo}
	}
	var rec neuralInfoRecord
	st := fn.getNeuralInfo(f.id, entityID, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetNeuralInfo, st); err != nil {
		return nil, err
	}
	return &NeuralInfo{
		SourceEntityID: rec.SourceEntityID,
		SourceUnitID:   rec.SourceUnitID,
		ProbeInfo:      cString(rec.ProbeInfo[:]),
	}, nil
}

// NeuralData reads indexCount spike timestamps starting at startIndex.
// The returned slice has exactly indexCount elements.
func (f *File) NeuralData(entityID, startIndex, indexCount uint32) ([]float64, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if indexCount == 0 {
		return nil, fmt.Errorf("%w: index count must be positive", ErrInvalidArgument)
	}
	fn := f.lib.fn
	if fn.getNeuralData == nil {
		return nil, &SymbolError{Name: symGetNeuralData}
	}
	data := make([]float64, indexCount)
	st := fn.getNeuralData(f.id, entityID, startIndex, indexCount, &data[0])
	if err := f.lib.check(symGetNeuralData, st); err != nil {
		return nil, err
	}
	return data, nil
}
