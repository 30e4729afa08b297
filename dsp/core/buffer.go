package core

// CopyInto copies the overlapping prefix of src into dst and returns its length.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}

// ClampBuffer limits every sample of buf to [-1, 1] in place.
func ClampBuffer(buf []float64) {
	for i, v := range buf {
		buf[i] = ClampSample(v)
	}
}
