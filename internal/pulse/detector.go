package pulse

import (
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/doismellburning/pulsecore/internal/fsk"
	"github.com/doismellburning/pulsecore/internal/pulsedata"
)

// invalidStateLog is used solely by the FSM's unreachable default case
// below — ookState only ever takes on the four defined values, so this
// exists to satisfy the defensive-recovery requirement, not because the
// state switch can actually land here.
var invalidStateLog = charmlog.NewWithOptions(os.Stderr, charmlog.Options{Prefix: "pulse"})

// ookState is the four states of the OOK segmentation FSM.
type ookState int

const (
	stateIdle ookState = iota
	statePulse
	stateGapStart
	stateGap
)

// Verbosity levels, matching §6: LOG_NOTICE gates per-sample histogram
// accumulation, LOG_INFO prints it on package emission, LOG_DEBUG also on
// buffer exhaustion.
const (
	LogNotice = 4
	LogInfo   = 5
	LogDebug  = 6

	logNotice = LogNotice
	logInfo   = LogInfo
	logDebug  = LogDebug
)

// Result is the discriminator Package returns: which kind of package (if
// any) was just completed.
type Result int

const (
	// ResultNone means more input is needed; no package completed.
	ResultNone Result = iota
	// ResultOOK means pulses now holds a complete OOK package.
	ResultOOK
	// ResultFSK means fskPulses now holds a complete FSK package.
	ResultFSK
)

// Detector is the top-level OOK state machine: per-sample signal
// conditioning, threshold computation, the pulse/gap segmentation FSM,
// the adaptive level estimator, and FSK hand-off. It holds no
// package-level mutable state of its own, so independent Detector values
// can run concurrently.
type Detector struct {
	// Configuration, set via SetLevels.
	UseMagEst       bool
	FixedHighLevel  int // manual override in estimator units; 0 = auto
	MinHighLevel    int
	HighLowRatio    int
	UsePeakFollower bool
	Verbosity       int

	// FSM state.
	ookState      ookState
	pulseLength   int
	maxPulse      int
	dataCounter   int
	leadInCounter int

	ookLowEstimate  int
	ookHighEstimate int

	// outAM/outFM replace the original's function-local static
	// variables, which were latent cross-instance state — see the
	// design notes on hidden state in static locals.
	outAM int16
	outFM int16

	medianFilter   *MedianFilter
	peakFollower   *PeakFollower
	peakFollowerFM *PeakFollower
	fskDetector    fsk.Detector

	attHist AttHistogram

	// Taps are the optional debug WAV sinks written to during Package,
	// mirroring pulse_detect_package's wav_dumper_* calls.
	Taps Taps
}

// SetTaps attaches the debug WAV sinks Package writes to. A zero Taps
// value (the default) writes nothing.
func (d *Detector) SetTaps(t Taps) { d.Taps = t }

// NewDetector creates a detector with the median filter, peak followers,
// and default level thresholds pulse_detect_create uses.
func NewDetector() *Detector {
	d := &Detector{
		medianFilter:    NewMedianFilter(15),
		peakFollower:    NewPeakFollower(0.05, 0.99999, minDB),
		peakFollowerFM:  NewPeakFollower(0.05, 0.99999, minDB),
		UsePeakFollower: true,
	}
	d.SetLevels(false, 0.0, -12.1442, 9.0, 0)
	return d
}

// SetLevels re-parameterises the detector's threshold estimator. A
// negative fixedHighLevelDB engages a manual threshold override; zero or
// positive means auto. minHighLevelDB and highLowRatioDB are interpreted
// in amplitude or magnitude units depending on useMagEst.
func (d *Detector) SetLevels(useMagEst bool, fixedHighLevelDB, minHighLevelDB, highLowRatioDB float64, verbosity int) {
	d.UseMagEst = useMagEst
	if useMagEst {
		if fixedHighLevelDB < 0.0 {
			d.FixedHighLevel = dbToMag(fixedHighLevelDB)
		} else {
			d.FixedHighLevel = 0
		}
		d.MinHighLevel = dbToMag(minHighLevelDB)
		d.HighLowRatio = dbToMagRatio(highLowRatioDB)
	} else {
		if fixedHighLevelDB < 0.0 {
			d.FixedHighLevel = dbToAmp(fixedHighLevelDB)
		} else {
			d.FixedHighLevel = 0
		}
		d.MinHighLevel = dbToAmp(minHighLevelDB)
		d.HighLowRatio = dbToAmpRatio(highLowRatioDB)
	}
	d.Verbosity = verbosity
}

// AttHistogram returns the attenuation histogram accumulated during the
// most recent Package call (it is reset at the start of each call), valid
// when Verbosity >= LogNotice.
func (d *Detector) AttHistogram() AttHistogram { return d.attHist }

// Package demodulates OOK and FSK from one buffer of AM/FM envelope
// samples, advancing the FSM sample-by-sample. It may need several calls
// across successive buffers before a package completes — callers keep
// calling with subsequent buffers until a non-ResultNone value comes
// back. algo selects which FSK sub-detector algorithm gets fed FM samples
// during the first AM pulse.
func (d *Detector) Package(am, fm []int16, sampRate uint32, sampleOffset uint64, pulses, fskPulses *pulsedata.PulseData, algo fsk.Algorithm) Result {
	if pulses == nil || fskPulses == nil {
		panic("pulse: Package called with nil PulseData")
	}
	len_ := len(am)
	samplesPerMs := int(sampRate) / 1000

	d.ookHighEstimate = max(d.ookHighEstimate, d.MinHighLevel)

	if d.dataCounter == 0 {
		pulses.StartAgo += len_
		fskPulses.StartAgo += len_
	}

	d.attHist = AttHistogram{}

	eopOnSpurious := false

	for d.dataCounter < len_ {
		amN := d.medianFilter.Process(am[d.dataCounter])
		d.Taps.AmDemod.WriteSample(amN)

		fmN := fm[d.dataCounter]
		d.Taps.FmDemod.WriteSample(fmN)

		if d.Verbosity >= logNotice {
			var att int
			if d.UseMagEst {
				att = magToAtt(int(amN))
			} else {
				att = ampToAtt(int(amN))
			}
			d.attHist[att]++
		}

		threshHi, threshLo := d.computeThresholds(&amN, fmN)

		switch d.ookState {
		case stateIdle:
			d.stepIdle(amN, threshHi, sampRate, sampleOffset, len_, pulses, fskPulses)
		case statePulse:
			eopOnSpurious = d.stepPulse(amN, fmN, threshLo, pulses, fskPulses, algo) || eopOnSpurious
		case stateGapStart:
			if r := d.stepGapStart(amN, fmN, threshHi, len_, pulses, fskPulses, algo); r != ResultNone {
				return r
			}
		case stateGap:
			if r := d.stepGap(amN, threshHi, eopOnSpurious, samplesPerMs, len_, pulses); r != ResultNone {
				return r
			}
		default:
			invalidStateLog.Error("invalid ook state, resetting to idle", "state", int(d.ookState))
			d.ookState = stateIdle
		}

		d.dataCounter++
	}

	d.dataCounter = 0
	return ResultNone
}

// computeThresholds applies §4.4: the peak-follower mode by default, or
// the static fallback when UsePeakFollower is false. It also applies the
// AM-silence gate that forces amN to zero when the AM peak follower's
// high rail reads zero, and — only in peak-follower mode — derives the
// decoded digital AM/FM signals pulse_detect_package writes to the
// am_decoded/fm_decoded taps (the FSK sub-detector itself still gets the
// raw fmN sample; these decoded outputs are a debug view only).
func (d *Detector) computeThresholds(amN *int16, fmN int16) (hi, lo int16) {
	if !d.UsePeakFollower {
		thresh := (d.ookLowEstimate + d.ookHighEstimate) / 2
		if d.FixedHighLevel != 0 {
			thresh = d.FixedHighLevel
		}
		hyst := thresh / 8
		return int16(thresh + hyst), int16(thresh - hyst)
	}

	high, low := d.peakFollower.Process(*amN)
	amplitude := (high - low) / 2
	center := low + amplitude

	if high == 0 {
		*amN = 0
	}

	hi = center + amplitude/4
	lo = center - amplitude/4

	highFM, lowFM := d.peakFollowerFM.Process(fmN)
	amplitudeFM := (highFM - lowFM) / 2
	centerFM := lowFM + amplitudeFM
	hiFM := centerFM + amplitudeFM/4
	loFM := centerFM - amplitudeFM/4

	if hi != 0 {
		if *amN > hi {
			d.outAM = 32767
		} else if *amN < lo {
			d.outAM = 0
		}
	}

	if fmN > hiFM {
		d.outFM = 32767
	} else if fmN < loFM {
		d.outFM = 0
	}
	if d.outAM == 0 {
		d.outFM = 0
	}

	// Matches pulse_detect_package: the am_peak_high/low taps record the
	// FM peak-follower rails, not the AM ones.
	d.Taps.AmPeakHigh.WriteSample(hiFM)
	d.Taps.AmPeakLow.WriteSample(loFM)
	d.Taps.AmDecoded.WriteSample(d.outAM)
	d.Taps.FmDecoded.WriteSample(d.outFM)

	return hi, lo
}

func (d *Detector) stepIdle(amN int16, threshHi int16, sampRate uint32, sampleOffset uint64, len_ int, pulses, fskPulses *pulsedata.PulseData) {
	if amN > threshHi && d.leadInCounter > estLowRatio {
		pulses.Clear()
		fskPulses.Clear()
		pulses.SampleRate = sampRate
		fskPulses.SampleRate = sampRate
		pulses.Offset = sampleOffset + uint64(d.dataCounter)
		fskPulses.Offset = sampleOffset + uint64(d.dataCounter)
		pulses.StartAgo = len_ - d.dataCounter
		fskPulses.StartAgo = len_ - d.dataCounter
		d.pulseLength = 0
		d.maxPulse = 0
		d.fskDetector.Init()
		d.ookState = statePulse
		return
	}

	delta := int(amN) - d.ookLowEstimate
	d.ookLowEstimate += delta / estLowRatio
	if delta > 0 {
		d.ookLowEstimate++
	} else {
		d.ookLowEstimate--
	}
	d.ookHighEstimate = d.HighLowRatio * d.ookLowEstimate
	d.ookHighEstimate = clamp(d.ookHighEstimate, d.MinHighLevel, maxHighLevel)
	if d.leadInCounter <= estLowRatio {
		d.leadInCounter++
	}
}

// stepPulse advances the PULSE state and returns true if this transition
// closes a spurious pulse that forces package emission on the next gap
// check (eopOnSpurious).
func (d *Detector) stepPulse(amN int16, fmN int16, threshLo int16, pulses, fskPulses *pulsedata.PulseData, algo fsk.Algorithm) bool {
	d.pulseLength++
	eopOnSpurious := false

	if amN < threshLo {
		if d.pulseLength < MinPulseSamples {
			if pulses.NumPulses <= 1 {
				d.ookState = stateIdle
			} else {
				eopOnSpurious = true
				d.ookState = stateGap
			}
		} else {
			pulses.Pulse[pulses.NumPulses] = d.pulseLength
			d.maxPulse = max(d.pulseLength, d.maxPulse)
			d.pulseLength = 0
			d.ookState = stateGapStart
		}
	} else {
		d.ookHighEstimate += int(amN)/estHighRatio - d.ookHighEstimate/estHighRatio
		d.ookHighEstimate = clamp(d.ookHighEstimate, d.MinHighLevel, maxHighLevel)
		pulses.FskF1Est += int(fmN)/estHighRatio - pulses.FskF1Est/estHighRatio
	}

	if pulses.NumPulses == 0 {
		d.feedFsk(fmN, fskPulses, algo)
	}

	return eopOnSpurious
}

func (d *Detector) feedFsk(fmN int16, fskPulses *pulsedata.PulseData, algo fsk.Algorithm) {
	if algo == fsk.AlgorithmOld {
		d.fskDetector.Classic(fmN, fskPulses)
	} else {
		d.fskDetector.Minmax(fmN, fskPulses)
	}
}

func (d *Detector) stepGapStart(amN int16, fmN int16, threshHi int16, len_ int, pulses, fskPulses *pulsedata.PulseData, algo fsk.Algorithm) Result {
	d.pulseLength++

	if amN > threshHi {
		d.pulseLength += pulses.Pulse[pulses.NumPulses]
		d.ookState = statePulse
	} else if d.pulseLength >= MinPulseSamples {
		d.ookState = stateGap

		if fskPulses.NumPulses > MinPulses {
			if algo == fsk.AlgorithmOld {
				d.fskDetector.WrapUp(fskPulses)
			}
			fskPulses.FskF1Est = d.fskDetector.FmF1Est()
			fskPulses.FskF2Est = d.fskDetector.FmF2Est()
			fskPulses.OokLowEstimate = d.ookLowEstimate
			fskPulses.OokHighEstimate = d.ookHighEstimate
			pulses.EndAgo = len_ - d.dataCounter
			fskPulses.EndAgo = len_ - d.dataCounter
			d.ookState = stateIdle
			return ResultFSK
		}
	}

	if pulses.NumPulses == 0 {
		d.feedFsk(fmN, fskPulses, algo)
	}

	return ResultNone
}

func (d *Detector) stepGap(amN int16, threshHi int16, eopOnSpurious bool, samplesPerMs, len_ int, pulses *pulsedata.PulseData) Result {
	d.pulseLength++

	if amN > threshHi {
		pulses.Gap[pulses.NumPulses] = d.pulseLength
		pulses.NumPulses++

		if pulses.NumPulses >= pulsedata.MaxPulses {
			d.ookState = stateIdle
			pulses.OokLowEstimate = d.ookLowEstimate
			pulses.OokHighEstimate = d.ookHighEstimate
			pulses.EndAgo = len_ - d.dataCounter
			return ResultOOK
		}

		d.pulseLength = 0
		d.ookState = statePulse
	}

	if eopOnSpurious ||
		(d.pulseLength > MaxGapRatio*d.maxPulse && d.pulseLength > MinGapMs*samplesPerMs) ||
		d.pulseLength > MaxGapMs*samplesPerMs {
		pulses.Gap[pulses.NumPulses] = d.pulseLength
		pulses.NumPulses++
		d.ookState = stateIdle
		pulses.OokLowEstimate = d.ookLowEstimate
		pulses.OokHighEstimate = d.ookHighEstimate
		pulses.EndAgo = len_ - d.dataCounter
		return ResultOOK
	}

	return ResultNone
}
