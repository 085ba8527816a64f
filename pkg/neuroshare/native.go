package neuroshare

import "github.com/ebitengine/purego"

// Entry-point names fixed by the vendor contract. Every conforming library
// exports some subset of these; resolution is by exact name.
const (
	symGetLibraryInfo       = "ns_GetLibraryInfo"
	symOpenFile             = "ns_OpenFile"
	symCloseFile            = "ns_CloseFile"
	symGetFileInfo          = "ns_GetFileInfo"
	symGetEntityInfo        = "ns_GetEntityInfo"
	symGetEventInfo         = "ns_GetEventInfo"
	symGetEventData         = "ns_GetEventData"
	symGetAnalogInfo        = "ns_GetAnalogInfo"
	symGetAnalogData        = "ns_GetAnalogData"
	symGetSegmentInfo       = "ns_GetSegmentInfo"
	symGetSegmentSourceInfo = "ns_GetSegmentSourceInfo"
	symGetSegmentData       = "ns_GetSegmentData"
	symGetNeuralInfo        = "ns_GetNeuralInfo"
	symGetNeuralData        = "ns_GetNeuralData"
	symGetIndexByTime       = "ns_GetIndexByTime"
	symGetTimeByIndex       = "ns_GetTimeByIndex"
	symGetLastErrorMsg      = "ns_GetLastErrorMsg"
)

// entryPoints is the resolved vendor call table. A nil field means the
// library did not export that symbol; the operation that needs it reports
// SymbolError instead of calling through it.
type entryPoints struct {
	getLibraryInfo       func(info *libraryInfoRecord, size uint32) Status
	openFile             func(path string, fileID *uint32) Status
	closeFile            func(fileID uint32) Status
	getFileInfo          func(fileID uint32, info *fileInfoRecord, size uint32) Status
	getEntityInfo        func(fileID, entityID uint32, info *entityInfoRecord, size uint32) Status
	getEventInfo         func(fileID, entityID uint32, info *eventInfoRecord, size uint32) Status
	getEventData         func(fileID, entityID, index uint32, timestamp *float64, data *byte, capacity uint32, retSize *uint32) Status
	getAnalogInfo        func(fileID, entityID uint32, info *analogInfoRecord, size uint32) Status
	getAnalogData        func(fileID, entityID, startIndex, count uint32, contCount *uint32, data *float64) Status
	getSegmentInfo       func(fileID, entityID uint32, info *segmentInfoRecord, size uint32) Status
	getSegmentSourceInfo func(fileID, entityID, sourceID uint32, info *segSourceInfoRecord, size uint32) Status
	getSegmentData       func(fileID, entityID, index uint32, timestamp *float64, data *float64, capacity uint32, sampleCount, unitID *uint32) Status
	getNeuralInfo        func(fileID, entityID uint32, info *neuralInfoRecord, size uint32) Status
	getNeuralData        func(fileID, entityID, startIndex, count uint32, data *float64) Status
	getIndexByTime       func(fileID, entityID uint32, timepoint float64, flag int32, index *uint32) Status
	getTimeByIndex       func(fileID, entityID, index uint32, timepoint *float64) Status
	getLastErrorMsg      func(buf *byte, size uint32) Status
}

// resolve looks up every contract symbol in the loaded library and binds
// the ones that exist. Vendor libraries may omit entry points, so misses
// leave the field nil rather than failing the load.
func (t *entryPoints) resolve(handle uintptr) {
	register(handle, symGetLibraryInfo, &t.getLibraryInfo)
	register(handle, symOpenFile, &t.openFile)
	register(handle, symCloseFile, &t.closeFile)
	register(handle, symGetFileInfo, &t.getFileInfo)
	register(handle, symGetEntityInfo, &t.getEntityInfo)
	register(handle, symGetEventInfo, &t.getEventInfo)
	register(handle, symGetEventData, &t.getEventData)
	register(handle, symGetAnalogInfo, &t.getAnalogInfo)
	register(handle, symGetAnalogData, &t.getAnalogData)
	register(handle, symGetSegmentInfo, &t.getSegmentInfo)
	register(handle, symGetSegmentSourceInfo, &t.getSegmentSourceInfo)
	register(handle, symGetSegmentData, &t.getSegmentData)
	register(handle, symGetNeuralInfo, &t.getNeuralInfo)
	register(handle, symGetNeuralData, &t.getNeuralData)
	register(handle, symGetIndexByTime, &t.getIndexByTime)
	register(handle, symGetTimeByIndex, &t.getTimeByIndex)
	register(handle, symGetLastErrorMsg, &t.getLastErrorMsg)
}

// register binds fptr to the named symbol, leaving it nil when the symbol
// is absent from the library.
func register[F any](handle uintptr, name string, fptr *F) {
	addr, err := lookupSymbol(handle, name)
	if err != nil || addr == 0 {
		return
	}
	purego.RegisterFunc(fptr, addr)
}
