package neuroshare

import "unsafe"

// EntityInfo describes one entity: the common header plus exactly one
// kind-specific descriptor matching Type. The other descriptor fields stay
// nil, and Unknown entities carry none at all. The descriptor must not be
// interpreted before Type has been read; Entity enforces that order.
type EntityInfo struct {
	Label     string
	Type      EntityType
	ItemCount uint32

	Event   *EventInfo
	Analog  *AnalogInfo
	Segment *SegmentInfo
	Neural  *NeuralInfo
}

// Entity queries the entity header for entityID and, based on its kind tag,
// the matching kind-specific descriptor. Descriptors are fresh snapshots on
// every call; nothing is cached between queries.
func (f *File) Entity(entityID uint32) (*EntityInfo, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if f.lib.fn.getEntityInfo == nil {
		return nil, &SymbolError{Name: symGetEntityInfo}
	}
	var rec entityInfoRecord
	st := f.lib.fn.getEntityInfo(f.id, entityID, &rec, uint32(unsafe.Sizeof(rec)))
	if err := f.lib.check(symGetEntityInfo, st); err != nil {
		return nil, err
	}
	info := &EntityInfo{
		Label:     cString(rec.Label[:]),
		Type:      EntityType(rec.EntityType),
		ItemCount: rec.ItemCount,
	}
	var err error
	switch info.Type {
	case EntityEvent:
		info.Event, err = f.eventInfo(entityID)
	case EntityAnalog:
		info.Analog, err = f.analogInfo(entityID)
	case EntitySegment:
		info.Segment, err = f.segmentInfo(entityID)
	case EntityNeuralEvent:
		info.Neural, err = f.neuralInfo(entityID)
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}
