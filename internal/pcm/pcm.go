// Package pcm converts calibrated analog samples to the 16-bit PCM layout
// audio writers and playback devices consume.
package pcm

import "encoding/binary"

// Int16FromRange maps samples from the signal range [minVal, maxVal] onto
// the full int16 range. Samples outside the range clip rather than wrap;
// vendor metadata understates the range often enough that wrapping would
// turn spikes into full-scale pops.
func Int16FromRange(samples []float64, minVal, maxVal float64) []int16 {
	out := make([]int16, len(samples))
	if maxVal <= minVal {
		return out
	}
	center := (maxVal + minVal) / 2
	halfSpan := (maxVal - minVal) / 2
	for i, s := range samples {
		norm := (s - center) / halfSpan
		if norm > 1 {
			norm = 1
		} else if norm < -1 {
			norm = -1
		}
		out[i] = int16(norm * 32767)
	}
	return out
}

// Bytes flattens int16 samples to little-endian byte pairs, the order WAV
// files and raw PCM streams expect.
func Bytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
