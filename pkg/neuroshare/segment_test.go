package neuroshare

import (
	"errors"
	"testing"
)

func TestSegmentDataShape(t *testing.T) {
	v := newFakeVendor()
	_, f := newTestFile(t, v)

	const index = 2
	seg, err := f.SegmentData(entSpikes, index, segSourceCount, segMaxSamples)
	if err != nil {
		t.Fatalf("SegmentData failed: %v", err)
	}
	if len(seg.Data) != segSourceCount {
		t.Fatalf("sources: got %d, want %d", len(seg.Data), segSourceCount)
	}
	for src, row := range seg.Data {
		if len(row) != segMaxSamples {
			t.Fatalf("source %d: length got %d, want %d", src, len(row), segMaxSamples)
		}
	}
	if seg.SampleCount != segWrittenSamples {
		t.Errorf("SampleCount: got %d, want %d", seg.SampleCount, segWrittenSamples)
	}
	if want := 0.010 + 0.050*float64(index); seg.Timestamp != want {
		t.Errorf("Timestamp: got %g, want %g", seg.Timestamp, want)
	}
	if want := uint32(index % 3); seg.UnitID != want {
		t.Errorf("UnitID: got %d, want %d", seg.UnitID, want)
	}

	// Samples land source-major: Data[source][sample].
	for src := uint32(0); src < segSourceCount; src++ {
		for s := uint32(0); s < seg.SampleCount; s++ {
			if got, want := seg.Data[src][s], segSample(src, s, index); got != want {
				t.Fatalf("Data[%d][%d]: got %g, want %g", src, s, got, want)
			}
		}
	}
}

func TestSegmentDataWrittenCountClamped(t *testing.T) {
	v := newFakeVendor()
	v.segReportSamples = segMaxSamples + 30
	_, f := newTestFile(t, v)

	seg, err := f.SegmentData(entSpikes, 0, segSourceCount, segMaxSamples)
	if err != nil {
		t.Fatalf("SegmentData failed: %v", err)
	}
	if seg.SampleCount != segMaxSamples {
		t.Errorf("SampleCount: got %d, want clamped %d", seg.SampleCount, segMaxSamples)
	}
}

func TestSegmentDataValidation(t *testing.T) {
	v := newFakeVendor()
	_, f := newTestFile(t, v)

	if _, err := f.SegmentData(entSpikes, 0, 0, segMaxSamples); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero source count: got %v, want ErrInvalidArgument", err)
	}
	if _, err := f.SegmentData(entSpikes, 0, segSourceCount, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero sample count: got %v, want ErrInvalidArgument", err)
	}
}

func TestSegmentDataVendorFailure(t *testing.T) {
	v := newFakeVendor()
	v.fail[symGetSegmentData] = StatusBadIndex
	_, f := newTestFile(t, v)

	seg, err := f.SegmentData(entSpikes, 99, segSourceCount, segMaxSamples)
	if seg != nil {
		t.Error("SegmentData returned a segment alongside an error")
	}
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("SegmentData: got %v, want *CallError", err)
	}
	if ce.Status != StatusBadIndex {
		t.Errorf("CallError.Status: got %v, want %v", ce.Status, StatusBadIndex)
	}
}
