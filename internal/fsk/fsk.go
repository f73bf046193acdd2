// Package fsk implements the FSK sub-detector that the OOK state machine
// hands FM samples to during the first AM pulse of a package. Per the
// pulse detection core's contract, only the interface and enough of an
// implementation to drive the hand-off decision is specified here — a real
// protocol-aware FSK decoder is a downstream collaborator's concern.
package fsk

import "github.com/doismellburning/pulsecore/internal/pulsedata"

// Algorithm selects which FSK sub-detector variant the core feeds samples
// to during the first AM pulse.
type Algorithm int

const (
	// AlgorithmOld is the classic variant: fixed-length run accounting
	// that requires an explicit WrapUp call to flush its trailing run into
	// the package.
	AlgorithmOld Algorithm = iota
	// AlgorithmNew is the min/max variant: continuously tracks running
	// frequency extrema and has no trailing state to flush.
	AlgorithmNew
)

// Detector is the sub-state-machine the OOK FSM feeds FM samples to while
// decoding the first AM pulse of a package. Classic and Minmax are
// independent algorithm variants selected by the caller's Algorithm; only
// one is driven per package, chosen by whichever pulse_detect_package was
// asked to run.
type Detector struct {
	fmF1Est int
	fmF2Est int

	// classic state
	inPulse   bool
	runLength int

	// minmax state
	minSeen     int16
	maxSeen     int16
	haveExt     bool
	haveCrossed bool
	lastHigh    bool
}

// Init resets the sub-detector for a fresh package.
func (d *Detector) Init() {
	*d = Detector{}
}

// FmF1Est returns the estimated lower (or first) FSK carrier frequency.
func (d *Detector) FmF1Est() int { return d.fmF1Est }

// FmF2Est returns the estimated upper (or second) FSK carrier frequency.
func (d *Detector) FmF2Est() int { return d.fmF2Est }

// fskGapSamples is the run length, in samples, at which the classic
// variant closes out a pulse entry.
const fskGapSamples = 2

// Classic feeds one FM sample to the classic variant. It moves the f2
// estimate toward samples above the midpoint of the running f1/f2
// estimates and the f1 estimate toward samples at or below it, and
// appends a Pulse entry of fskGapSamples samples to fskPulses every
// fskGapSamples samples. It does not detect rail crossings and writes no
// Gap entries; only WrapUp writes a Gap entry.
func (d *Detector) Classic(fmSample int16, fskPulses *pulsedata.PulseData) {
	mid := (d.fmF1Est + d.fmF2Est) / 2
	high := int(fmSample) > mid

	if high {
		d.fmF2Est += (int(fmSample) - d.fmF2Est) / 8
	} else {
		d.fmF1Est += (int(fmSample) - d.fmF1Est) / 8
	}

	if !d.inPulse {
		d.inPulse = true
		d.runLength = 0
	}
	d.runLength++

	if d.runLength >= fskGapSamples && fskPulses.NumPulses < pulsedata.MaxPulses {
		fskPulses.Pulse[fskPulses.NumPulses] = d.runLength
		fskPulses.NumPulses++
		d.runLength = 0
	}
}

// WrapUp flushes the classic variant's trailing run into fskPulses as a
// final gap, then bumps NumPulses — mirroring pulse_detect_fsk_wrap_up's
// job of storing the last pending pulse/gap before the package closes.
func (d *Detector) WrapUp(fskPulses *pulsedata.PulseData) {
	if fskPulses.NumPulses >= pulsedata.MaxPulses {
		return
	}
	fskPulses.Gap[fskPulses.NumPulses] = d.runLength
	fskPulses.NumPulses++
}

// Minmax feeds one FM sample to the min/max variant: it maintains running
// extrema, re-derives f1/f2 as a leaky average of the low and high rails,
// and records a pulse entry each time the sample crosses the rail
// midpoint — unlike Classic, it has no trailing state to flush in WrapUp.
func (d *Detector) Minmax(fmSample int16, fskPulses *pulsedata.PulseData) {
	if !d.haveExt {
		d.minSeen = fmSample
		d.maxSeen = fmSample
		d.haveExt = true
	}
	if fmSample < d.minSeen {
		d.minSeen = fmSample
	}
	if fmSample > d.maxSeen {
		d.maxSeen = fmSample
	}

	d.fmF1Est += (int(d.minSeen) - d.fmF1Est) / 16
	d.fmF2Est += (int(d.maxSeen) - d.fmF2Est) / 16

	mid := (d.fmF1Est + d.fmF2Est) / 2
	high := int(fmSample) > mid
	if !d.haveCrossed {
		d.lastHigh = high
		d.haveCrossed = true
	}
	if high != d.lastHigh {
		d.lastHigh = high
		if fskPulses.NumPulses < pulsedata.MaxPulses {
			fskPulses.Pulse[fskPulses.NumPulses] = d.runLength + 1
			fskPulses.NumPulses++
		}
		d.runLength = 0
	} else {
		d.runLength++
	}
}
