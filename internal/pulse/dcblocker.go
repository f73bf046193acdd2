package pulse

// DcBlocker is a running-mean high-pass filter over a circular buffer of
// recent samples. It is not wired into the default detection pipeline —
// pulse_detect.c expects its AM/FM streams already DC-blocked upstream —
// but is exported as a ready-made conditioning stage for callers whose
// envelope source hasn't done that (e.g. feeding raw SDR magnitude samples
// directly into the detector).
type DcBlocker struct {
	buffer []int16
	sum    int32
	index  int
}

// NewDcBlocker creates a DC blocker with the given circular buffer length.
func NewDcBlocker(length int) *DcBlocker {
	return &DcBlocker{buffer: make([]int16, length)}
}

// Filter updates the running mean with sample and returns sample minus the
// (truncated-toward-zero) mean. Overflow saturation is not performed —
// callers are expected to keep the running mean small.
func (d *DcBlocker) Filter(sample int16) int16 {
	n := len(d.buffer)
	d.sum -= int32(d.buffer[d.index])
	d.buffer[d.index] = sample
	d.sum += int32(sample)
	d.index = (d.index + 1) % n
	mean := int16(d.sum / int32(n))
	return sample - mean
}
