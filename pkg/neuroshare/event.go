package neuroshare

import (
	"fmt"
	"unsafe"
)

// EventInfo describes an event entity: the payload encoding and the byte
// range event items occupy.
type EventInfo struct {
	EventType     EventType
	MinDataLength uint32
	MaxDataLength uint32
	CSVDesc       string
}

// Event is one item read from an event entity. Exactly one payload field is
// meaningful for a given Type: Text for text and CSV events, Value for the
// fixed-width binary kinds. Any other event kind carries no payload.
type Event struct {
	Timestamp float64
	Type      EventType
	Text      string
	Value     uint32
}

func (f *File) eventInfo(entityID uint32) (*EventInfo, error) {
	fn := f.lib.fn
	if fn.getEventInfo == nil {
		return nil, &SymbolError{Name: symGetEventInfo}
	}
	var rec eventInfoRecord
	st := fn.getEventInfo(f.id, entityID, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetEventInfo, st); err != nil {
		return nil, err
	}
	return &EventInfo{
		EventType:     EventType(rec.EventType),
		MinDataLength: rec.MinDataLength,
		MaxDataLength: rec.MaxDataLength,
		CSVDesc:       cString(rec.CSVDesc[:]),
	}, nil
}

// EventData reads one event item. kind and capacity come from the entity's
// event descriptor (EventType and MaxDataLength); capacity sizes the
// scratch buffer the vendor fills and must be positive. Text and CSV
// payloads keep exactly the bytes the vendor wrote; Byte, Word and Dword
// payloads decode through the numeric decoder at 1, 2 and 4 byte widths
// over the written bytes.
func (f *File) EventData(entityID, index uint32, kind EventType, capacity uint32) (*Event, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if capacity == 0 {
		return nil, fmt.Errorf("%w: event buffer capacity must be positive", ErrInvalidArgument)
	}
	fn := f.lib.fn
	if fn.getEventData == nil {
		return nil, &SymbolError{Name: symGetEventData}
	}
	buf := make([]byte, capacity)
	var (
		timestamp float64
		retSize   uint32
	)
	st := fn.getEventData(f.id, entityID, index, &timestamp, &buf[0], capacity, &retSize)
	if err := f.lib.check(symGetEventData, st); err != nil {
		return nil, err
	}
	if retSize > capacity {
		// The vendor claims to have written past the buffer we gave it.
		return nil, &CallError{
			Op:      symGetEventData,
			Status:  st,
			Message: fmt.Sprintf("reported %d bytes for a %d byte buffer", retSize, capacity),
		}
	}
	ev := &Event{Timestamp: timestamp, Type: kind}
	data := buf[:retSize]
	switch kind {
	case EventText, EventCSV:
		ev.Text = string(data)
	case EventByte:
		ev.Value = decodeUnsigned(data, 1)
	case EventWord:
		ev.Value = decodeUnsigned(data, 2)
	case EventDword:
		ev.Value = decodeUnsigned(data, 4)
	}
	return ev, nil
}
