package neuroshare

import "bytes"

// Fixed-layout records the vendor library fills in place. Field order,
// widths and array lengths follow the Neuroshare API 1.3 declarations;
// every native call passes unsafe.Sizeof of the record so vendor and
// binding agree on the layout they exchange.

type fileDescRecord struct {
	Description [32]byte
	Extension   [8]byte
	MacCodes    [8]byte
	MagicCode   [16]byte
}

type libraryInfoRecord struct {
	LibVersionMaj uint32
	LibVersionMin uint32
	APIVersionMaj uint32
	APIVersionMin uint32
	Description   [64]byte
	Creator       [64]byte
	TimeYear      uint32
	TimeMonth     uint32
	TimeDay       uint32
	Flags         uint32
	MaxFiles      uint32
	FileDescCount uint32
	FileDesc      [16]fileDescRecord
}

type fileInfoRecord struct {
	FileType            [32]byte
	EntityCount         uint32
	TimeStampResolution float64
	TimeSpan            float64
	AppName             [64]byte
	TimeYear            uint32
	TimeMonth           uint32
	TimeDayOfWeek       uint32
	TimeDay             uint32
	TimeHour            uint32
	TimeMin             uint32
	TimeSec             uint32
	TimeMilliSec        uint32
	FileComment         [256]byte
}

type entityInfoRecord struct {
	Label      [32]byte
	EntityType uint32
	ItemCount  uint32
}

type eventInfoRecord struct {
	EventType     uint32
	MinDataLength uint32
	MaxDataLength uint32
	CSVDesc       [128]byte
}

type analogInfoRecord struct {
	SampleRate     float64
	MinVal         float64
	MaxVal         float64
	Units          [16]byte
	Resolution     float64
	LocationX      float64
	LocationY      float64
	LocationZ      float64
	LocationUser   float64
	HighFreqCorner float64
	HighFreqOrder  uint32
	HighFilterType [16]byte
	LowFreqCorner  float64
	LowFreqOrder   uint32
	LowFilterType  [16]byte
	ProbeInfo      [128]byte
}

type segmentInfoRecord struct {
	SourceCount    uint32
	MinSampleCount uint32
	MaxSampleCount uint32
	SampleRate     float64
	Units          [32]byte
}

type segSourceInfoRecord struct {
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
	HighFilterType [16]byte
	LowFreqCorner  float64
	LowFreqOrder   uint32
	LowFilterType  [16]byte
	ProbeInfo      [128]byte
}

type neuralInfoRecord struct {
	SourceEntityID uint32
	SourceUnitID   uint32
	ProbeInfo      [128]byte
}

// cString returns the bytes before the first NUL as a Go string.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
