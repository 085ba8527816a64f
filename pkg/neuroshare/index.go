package neuroshare

// IndexByTime finds the sample index for a timepoint in seconds. flag
// selects the vendor's search direction (IndexBefore, IndexClosest or
// IndexAfter) and passes through uninterpreted.
func (f *File) IndexByTime(entityID uint32, timepoint float64, flag IndexFlag) (uint32, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	fn := f.lib.fn
	if fn.getIndexByTime == nil {
		return 0, &SymbolError{Name: symGetIndexByTime}
	}
	var index uint32
	st := fn.getIndexByTime(f.id, entityID, timepoint, int32(flag), &index)
	if err := f.lib.check(symGetIndexByTime, st); err != nil {
		return 0, err
	}
	return index, nil
}

// TimeByIndex converts a sample index back to a timepoint in seconds.
func (f *File) TimeByIndex(entityID, index uint32) (float64, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	fn := f.lib.fn
	if fn.getTimeByIndex == nil {
		return 0, &SymbolError{Name: symGetTimeByIndex}
	}
	var timepoint float64
	st := fn.getTimeByIndex(f.id, entityID, index, &timepoint)
	if err := f.lib.check(symGetTimeByIndex, st); err != nil {
		return 0, err
	}
	return timepoint, nil
}
