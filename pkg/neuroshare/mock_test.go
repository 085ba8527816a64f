package neuroshare

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"unsafe"
)

// fakeVendor stands in for a native vendor library. Its method set mirrors
// the entry-point table field for field, so newTestLibrary can bind it the
// same way resolve binds a real shared object.
//
// The simulated recording holds five entities:
//
//	0  "trigger"  event entity, dword payloads
//	1  "lfp 01"   analog entity, 1000 samples at 30 kHz
//	2  "spikes"   segment entity with two sources
//	3  "unit 3a"  neural entity with sorted spike times
//	4  "raw aux"  unknown kind, no descriptor
const (
	entTrigger = 0
	entLFP     = 1
	entSpikes  = 2
	entUnit    = 3
	entRawAux  = 4
	entCount   = 5
)

const (
	analogRate      = 30000.0
	analogItemCount = 1000

	segSourceCount    = 2
	segMinSamples     = 32
	segMaxSamples     = 48
	segWrittenSamples = 40
	segItemCount      = 5

	neuralItemCount = 12
)

var (
	eventStamps = []float64{0.5, 1.25, 2.0, 2.75}
	eventTexts  = []string{"sync pulse", "stim on", "stim off", "sync pulse"}
)

func eventValue(index uint32) uint32 { return 0x01020300 + index }

func analogSample(index uint32) float64 { return -5.0 + float64(index)*0.01 }

func segSample(src, sample, index uint32) float64 {
	return float64(index)*1000 + float64(src)*100 + float64(sample)
}

func spikeTime(index uint32) float64 { return 0.020 + 0.105*float64(index) }

type fakeVendor struct {
	fail    map[string]Status // entry point name -> forced status
	lastMsg string

	nextFile  uint32
	openPaths map[uint32]string
	closed    []uint32

	eventKind    EventType
	eventCalls   int
	eventRetSize uint32 // nonzero overrides the reported payload size

	analogGapAt        uint32 // contiguity break at this absolute index; 0 = none
	analogContOverride int    // >= 0 overrides the reported contiguous count

	segReportSamples int // >= 0 overrides the reported per-source sample count

	sourceQueries []uint32
	failSourceAt  int // segment source id to fail on; -1 = none
}

func newFakeVendor() *fakeVendor {
	return &fakeVendor{
		fail:               map[string]Status{},
		nextFile:           7, // nonzero base so id mixups do not go unnoticed
		openPaths:          map[uint32]string{},
		eventKind:          EventDword,
		analogContOverride: -1,
		segReportSamples:   -1,
		failSourceAt:       -1,
	}
}

// newTestLibrary wires a fakeVendor into a Library as if Open had resolved
// it from a shared object. The no-op unload keeps Close away from the real
// native loader.
func newTestLibrary(v *fakeVendor) *Library {
	lib := &Library{
		path:   "nsFakeVendor.so",
		open:   true,
		unload: func() error { return nil },
	}
	lib.fn = entryPoints{
		getLibraryInfo:       v.getLibraryInfo,
		openFile:             v.openFile,
		closeFile:            v.closeFile,
		getFileInfo:          v.getFileInfo,
		getEntityInfo:        v.getEntityInfo,
		getEventInfo:         v.getEventInfo,
		getEventData:         v.getEventData,
		getAnalogInfo:        v.getAnalogInfo,
		getAnalogData:        v.getAnalogData,
		getSegmentInfo:       v.getSegmentInfo,
		getSegmentSourceInfo: v.getSegmentSourceInfo,
		getSegmentData:       v.getSegmentData,
		getNeuralInfo:        v.getNeuralInfo,
		getNeuralData:        v.getNeuralData,
		getIndexByTime:       v.getIndexByTime,
		getTimeByIndex:       v.getTimeByIndex,
		getLastErrorMsg:      v.getLastErrorMsg,
	}
	return lib
}

func newTestFile(t *testing.T, v *fakeVendor) (*Library, *File) {
	t.Helper()
	lib := newTestLibrary(v)
	f, err := lib.OpenFile("session01.nev")
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	return lib, f
}

func (v *fakeVendor) getLibraryInfo(rec *libraryInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetLibraryInfo]; ok {
		return st
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = libraryInfoRecord{
		LibVersionMaj: 2,
		LibVersionMin: 3,
		APIVersionMaj: 1,
		APIVersionMin: 3,
		TimeYear:      2024,
		TimeMonth:     3,
		TimeDay:       15,
		MaxFiles:      16,
		FileDescCount: 1,
	}
	copy(rec.Description[:], "Fake Vendor Library")
	copy(rec.Creator[:], "Acme Instruments")
	copy(rec.FileDesc[0].Description[:], "fake recordings")
	copy(rec.FileDesc[0].Extension[:], "nev")
	return StatusOK
}

func (v *fakeVendor) openFile(path string, fileID *uint32) Status {
	if st, ok := v.fail[symOpenFile]; ok {
		return st
	}
	id := v.nextFile
	v.nextFile++
	v.openPaths[id] = path
	*fileID = id
	return StatusOK
}

func (v *fakeVendor) closeFile(fileID uint32) Status {
	if st, ok := v.fail[symCloseFile]; ok {
		return st
	}
	if _, ok := v.openPaths[fileID]; !ok {
		return StatusBadFile
	}
	delete(v.openPaths, fileID)
	v.closed = append(v.closed, fileID)
	return StatusOK
}

func (v *fakeVendor) getFileInfo(fileID uint32, rec *fileInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetFileInfo]; ok {
		return st
	}
	if _, ok := v.openPaths[fileID]; !ok {
		return StatusBadFile
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = fileInfoRecord{
		EntityCount:         entCount,
		TimeStampResolution: 1.0 / analogRate,
		TimeSpan:            33.4,
		TimeYear:            2023,
		TimeMonth:           11,
		TimeDayOfWeek:       2,
		TimeDay:             7,
		TimeHour:            14,
		TimeMin:             31,
		TimeSec:             5,
		TimeMilliSec:        250,
	}
	copy(rec.FileType[:], "NEV")
	copy(rec.AppName[:], "FakeScope 2.1")
	copy(rec.FileComment[:], "bench session")
	return StatusOK
}

func (v *fakeVendor) getEntityInfo(fileID, entityID uint32, rec *entityInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetEntityInfo]; ok {
		return st
	}
	if _, ok := v.openPaths[fileID]; !ok {
		return StatusBadFile
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = entityInfoRecord{}
	switch entityID {
	case entTrigger:
		copy(rec.Label[:], "trigger")
		rec.EntityType = uint32(EntityEvent)
		rec.ItemCount = uint32(len(eventStamps))
	case entLFP:
		copy(rec.Label[:], "lfp 01")
		rec.EntityType = uint32(EntityAnalog)
		rec.ItemCount = analogItemCount
	case entSpikes:
		copy(rec.Label[:], "spikes")
		rec.EntityType = uint32(EntitySegment)
		rec.ItemCount = segItemCount
	case entUnit:
		copy(rec.Label[:], "unit 3a")
		rec.EntityType = uint32(EntityNeuralEvent)
		rec.ItemCount = neuralItemCount
	case entRawAux:
		copy(rec.Label[:], "raw aux")
		rec.EntityType = uint32(EntityUnknown)
		rec.ItemCount = 0
	default:
		return StatusBadEntity
	}
	return StatusOK
}

func (v *fakeVendor) getEventInfo(fileID, entityID uint32, rec *eventInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetEventInfo]; ok {
		return st
	}
	if entityID != entTrigger {
		return StatusTypeError
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = eventInfoRecord{EventType: uint32(v.eventKind)}
	switch v.eventKind {
	case EventText:
		rec.MinDataLength, rec.MaxDataLength = 7, 16
	case EventCSV:
		rec.MinDataLength, rec.MaxDataLength = 7, 16
		copy(rec.CSVDesc[:], "label,code")
	case EventByte:
		rec.MinDataLength, rec.MaxDataLength = 1, 1
	case EventWord:
		rec.MinDataLength, rec.MaxDataLength = 2, 2
	default:
		rec.MinDataLength, rec.MaxDataLength = 4, 4
	}
	return StatusOK
}

func (v *fakeVendor) getEventData(fileID, entityID, index uint32, timestamp *float64, data *byte, capacity uint32, retSize *uint32) Status {
	v.eventCalls++
	if st, ok := v.fail[symGetEventData]; ok {
		return st
	}
	if entityID != entTrigger {
		return StatusTypeError
	}
	if index >= uint32(len(eventStamps)) {
		return StatusBadIndex
	}
	*timestamp = eventStamps[index]
	var payload []byte
	switch v.eventKind {
	case EventText, EventCSV:
		payload = []byte(eventTexts[index])
	case EventByte:
		payload = []byte{byte(eventValue(index))}
	case EventWord:
		payload = make([]byte, 2)
		binary.NativeEndian.PutUint16(payload, uint16(eventValue(index)))
	default:
		payload = make([]byte, 4)
		binary.NativeEndian.PutUint32(payload, eventValue(index))
	}
	buf := unsafe.Slice(data, capacity)
	n := copy(buf, payload)
	*retSize = uint32(n)
	if v.eventRetSize != 0 {
		*retSize = v.eventRetSize
	}
	return StatusOK
}

func (v *fakeVendor) getAnalogInfo(fileID, entityID uint32, rec *analogInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetAnalogInfo]; ok {
		return st
	}
	if entityID != entLFP {
		return StatusTypeError
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = analogInfoRecord{
		SampleRate:     analogRate,
		MinVal:         -5,
		MaxVal:         5,
		Resolution:     0.00015,
		LocationX:      0.1,
		LocationY:      0.2,
		LocationZ:      0.3,
		HighFreqCorner: 7500,
		HighFreqOrder:  4,
		LowFreqCorner:  0.3,
		LowFreqOrder:   1,
	}
	copy(rec.Units[:], "mV")
	copy(rec.HighFilterType[:], "butterworth")
	copy(rec.LowFilterType[:], "RC")
	copy(rec.ProbeInfo[:], "array e17")
	return StatusOK
}

func (v *fakeVendor) getAnalogData(fileID, entityID, startIndex, count uint32, contCount *uint32, data *float64) Status {
	if st, ok := v.fail[symGetAnalogData]; ok {
		return st
	}
	if entityID != entLFP {
		return StatusTypeError
	}
	if startIndex+count > analogItemCount {
		return StatusBadIndex
	}
	out := unsafe.Slice(data, count)
	for i := range out {
		out[i] = analogSample(startIndex + uint32(i))
	}
	cont := count
	if v.analogGapAt > 0 && startIndex < v.analogGapAt && startIndex+count > v.analogGapAt {
		cont = v.analogGapAt - startIndex
	}
	if v.analogContOverride >= 0 {
		cont = uint32(v.analogContOverride)
	}
	*contCount = cont
	return StatusOK
}

func (v *fakeVendor) getSegmentInfo(fileID, entityID uint32, rec *segmentInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetSegmentInfo]; ok {
		return st
	}
	if entityID != entSpikes {
		return StatusTypeError
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = segmentInfoRecord{
		SourceCount:    segSourceCount,
		MinSampleCount: segMinSamples,
		MaxSampleCount: segMaxSamples,
		SampleRate:     analogRate,
	}
	copy(rec.Units[:], "uV")
	return StatusOK
}

func (v *fakeVendor) getSegmentSourceInfo(fileID, entityID, sourceID uint32, rec *segSourceInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetSegmentSourceInfo]; ok {
		return st
	}
	v.sourceQueries = append(v.sourceQueries, sourceID)
	if v.failSourceAt >= 0 && sourceID == uint32(v.failSourceAt) {
		return StatusBadSource
	}
	if entityID != entSpikes || sourceID >= segSourceCount {
		return StatusBadSource
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = segSourceInfoRecord{
		MinVal:         -(200 + float64(sourceID)),
		MaxVal:         200 + float64(sourceID),
		Resolution:     0.25,
		SubSampleShift: 0.1 * float64(sourceID),
		HighFreqCorner: 7500,
		HighFreqOrder:  4,
		LowFreqCorner:  250,
		LowFreqOrder:   2,
	}
	copy(rec.HighFilterType[:], "butterworth")
	copy(rec.LowFilterType[:], "highpass")
	copy(rec.ProbeInfo[:], fmt.Sprintf("shank %d", sourceID))
	return StatusOK
}

func (v *fakeVendor) getSegmentData(fileID, entityID, index uint32, timestamp *float64, data *float64, capacity uint32, sampleCount, unitID *uint32) Status {
	if st, ok := v.fail[symGetSegmentData]; ok {
		return st
	}
	if entityID != entSpikes {
		return StatusTypeError
	}
	if index >= segItemCount {
		return StatusBadIndex
	}
	values := capacity / uint32(unsafe.Sizeof(float64(0)))
	stride := values / segSourceCount
	out := unsafe.Slice(data, values)
	for src := uint32(0); src < segSourceCount; src++ {
		for s := uint32(0); s < segWrittenSamples && s < stride; s++ {
			out[src*stride+s] = segSample(src, s, index)
		}
	}
	*timestamp = 0.010 + 0.050*float64(index)
	*sampleCount = segWrittenSamples
	if v.segReportSamples >= 0 {
		*sampleCount = uint32(v.segReportSamples)
	}
	*unitID = index % 3
	return StatusOK
}

func (v *fakeVendor) getNeuralInfo(fileID, entityID uint32, rec *neuralInfoRecord, size uint32) Status {
	if st, ok := v.fail[symGetNeuralInfo]; ok {
		return st
	}
	if entityID != entUnit {
		return StatusTypeError
	}
	if size != uint32(unsafe.Sizeof(*rec)) {
		return StatusTypeError
	}
	*rec = neuralInfoRecord{
		SourceEntityID: entSpikes,
		SourceUnitID:   1,
	}
	copy(rec.ProbeInfo[:], "tetrode 2")
	return StatusOK
}

func (v *fakeVendor) getNeuralData(fileID, entityID, startIndex, count uint32, data *float64) Status {
	if st, ok := v.fail[symGetNeuralData]; ok {
		return st
	}
	if entityID != entUnit {
		return StatusTypeError
	}
	if startIndex+count > neuralItemCount {
		return StatusBadIndex
	}
	out := unsafe.Slice(data, count)
	for i := range out {
		out[i] = spikeTime(startIndex + uint32(i))
	}
	return StatusOK
}

func (v *fakeVendor) getIndexByTime(fileID, entityID uint32, timepoint float64, flag int32, index *uint32) Status {
	if st, ok := v.fail[symGetIndexByTime]; ok {
		return st
	}
	if entityID != entLFP {
		return StatusTypeError
	}
	exact := timepoint * analogRate
	var idx float64
	switch {
	case flag < 0:
		idx = math.Floor(exact)
	case flag > 0:
		idx = math.Ceil(exact)
	default:
		idx = math.Round(exact)
	}
	if idx < 0 || idx >= analogItemCount {
		return StatusBadIndex
	}
	*index = uint32(idx)
	return StatusOK
}

func (v *fakeVendor) getTimeByIndex(fileID, entityID, index uint32, timepoint *float64) Status {
	if st, ok := v.fail[symGetTimeByIndex]; ok {
		return st
	}
	if entityID != entLFP {
		return StatusTypeError
	}
	if index >= analogItemCount {
		return StatusBadIndex
	}
	*timepoint = float64(index) / analogRate
	return StatusOK
}

func (v *fakeVendor) getLastErrorMsg(buf *byte, size uint32) Status {
	if st, ok := v.fail[symGetLastErrorMsg]; ok {
		return st
	}
	out := unsafe.Slice(buf, size)
	n := copy(out, v.lastMsg)
	if n < len(out) {
		out[n] = 0
	}
	return StatusOK
}
