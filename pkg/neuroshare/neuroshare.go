// Package neuroshare loads Neuroshare vendor libraries and reads
// electrophysiology recordings through them.
//
// The Neuroshare API is a vendor-neutral contract implemented by shared
// libraries that manufacturers of acquisition systems ship alongside their
// proprietary file formats. Each library exports the same fixed set of
// ns_-prefixed entry points for opening recording files and extracting
// typed data: event markers, continuous analog samples, segment (spike)
// waveforms and sorted neural spike times.
//
// A Library is obtained by loading a vendor shared object from a path:
//
//	lib, err := neuroshare.Open("/opt/neuroshare/nsNEVLibrary.so")
//	if err != nil {
//		return err
//	}
//	defer lib.Close()
//
//	f, err := lib.OpenFile("session01.nev")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
// Library and File are not safe for concurrent use. The vendor libraries
// make no thread-safety promises, so every handle must stay confined to a
// single goroutine; parallel access means one Library per goroutine.
package neuroshare

import "fmt"

// Status is the result code every vendor entry point returns. Zero means
// success; the negative codes below are defined by the vendor contract but
// are only reported for diagnostics, never interpreted beyond non-OK.
type Status int32

const (
	StatusOK        Status = 0
	StatusLibError  Status = -1
	StatusTypeError Status = -2
	StatusFileError Status = -3
	StatusBadFile   Status = -4
	StatusBadEntity Status = -5
	StatusBadSource Status = -6
	StatusBadIndex  Status = -7
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLibError:
		return "library error"
	case StatusTypeError:
		return "type error"
	case StatusFileError:
		return "file error"
	case StatusBadFile:
		return "bad file handle"
	case StatusBadEntity:
		return "bad entity"
	case StatusBadSource:
		return "bad source"
	case StatusBadIndex:
		return "bad index"
	}
	return fmt.Sprintf("status %d", int32(s))
}

// EntityType tags what kind of data stream an entity carries. The numeric
// values are fixed by the vendor contract and must not be reassigned.
type EntityType uint32

const (
	EntityUnknown     EntityType = 0
	EntityEvent       EntityType = 1
	EntityAnalog      EntityType = 2
	EntitySegment     EntityType = 3
	EntityNeuralEvent EntityType = 4
)

func (t EntityType) String() string {
	switch t {
	case EntityUnknown:
		return "unknown"
	case EntityEvent:
		return "event"
	case EntityAnalog:
		return "analog"
	case EntitySegment:
		return "segment"
	case EntityNeuralEvent:
		return "neural"
	}
	return fmt.Sprintf("entity type %d", uint32(t))
}

// EventType tags the payload encoding of an event entity. Values are fixed
// by the vendor contract.
type EventType uint32

const (
	EventText  EventType = 0
	EventCSV   EventType = 1
	EventByte  EventType = 2
	EventWord  EventType = 3
	EventDword EventType = 4
)

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCSV:
		return "csv"
	case EventByte:
		return "byte"
	case EventWord:
		return "word"
	case EventDword:
		return "dword"
	}
	return fmt.Sprintf("event type %d", uint32(t))
}

// IndexFlag selects how IndexByTime snaps a timepoint to a sample index.
// The flag is passed to the vendor library uninterpreted.
type IndexFlag int32

const (
	IndexBefore  IndexFlag = -1
	IndexClosest IndexFlag = 0
	IndexAfter   IndexFlag = 1
)
