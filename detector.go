package pulsecore

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/doismellburning/pulsecore/internal/pulse"
	"github.com/doismellburning/pulsecore/internal/pulsedata"
	"github.com/doismellburning/pulsecore/internal/wavtap"
)

// Constants exposed per §6, unchanged semantics from pulse_detect.c.
const (
	PDMinPulseSamples = pulse.MinPulseSamples
	PDMinPulses       = pulse.MinPulses
	PDMaxPulses       = pulse.MaxPulses
	PDMinGapMs        = pulse.MinGapMs
	PDMaxGapMs        = pulse.MaxGapMs
	PDMaxGapRatio     = pulse.MaxGapRatio
)

// Result is the discriminator Detector.Package returns.
type Result int

const (
	ResultNone Result = Result(pulse.ResultNone)
	ResultOOK  Result = Result(pulse.ResultOOK)
	ResultFSK  Result = Result(pulse.ResultFSK)
)

// PulseData is the package container the detector writes pulse/gap
// durations and level estimates into. See internal/pulsedata for field
// documentation.
type PulseData = pulsedata.PulseData

// Detector is the public facade over the OOK/FSK pulse detection core. A
// Detector is created once with NewDetector, re-parameterised at will via
// SetLevels, and fed buffer-by-buffer via Package. There is no explicit
// destroy step — per the design notes, the original's out-parameter
// destroy pattern has no Go equivalent worth keeping; a Detector is
// retired by simply letting it go out of scope.
type Detector struct {
	core *pulse.Detector
	log  *charmlog.Logger
}

// NewDetector creates a Detector configured with opts.
func NewDetector(opts Options) *Detector {
	d := &Detector{core: pulse.NewDetector()}
	d.SetLevels(opts)
	return d
}

// SetLevels re-parameterises the detector's threshold estimator.
func (d *Detector) SetLevels(opts Options) {
	d.core.SetLevels(opts.UseMagEst, opts.FixedHighLevelDB, opts.MinHighLevelDB, opts.HighLowRatioDB, int(opts.Verbosity))
	d.log = newLogger(opts.Verbosity)
}

// Taps holds the optional debug WAV sinks a Detector writes demodulated
// and decoded signals to, mirroring the six streams pulse_detect.c opens.
// The zero value writes nothing.
type Taps struct {
	AmDemod    *wavtap.WavTap
	FmDemod    *wavtap.WavTap
	AmPeakHigh *wavtap.WavTap
	AmPeakLow  *wavtap.WavTap
	AmDecoded  *wavtap.WavTap
	FmDecoded  *wavtap.WavTap
}

func (t Taps) internal() pulse.Taps {
	return pulse.Taps{
		AmDemod:    t.AmDemod,
		FmDemod:    t.FmDemod,
		AmPeakHigh: t.AmPeakHigh,
		AmPeakLow:  t.AmPeakLow,
		AmDecoded:  t.AmDecoded,
		FmDecoded:  t.FmDecoded,
	}
}

// SetTaps attaches the debug WAV sinks the detector writes to during
// Package. The core never opens these files itself — callers construct
// WavTap sinks and hand them in explicitly.
func (d *Detector) SetTaps(taps Taps) { d.core.SetTaps(taps.internal()) }

// Package feeds one buffer of AM/FM envelope samples through the
// detector. am and fm must have equal length. pulses and fskPulses are
// caller-owned and are cleared and populated in place when a package
// completes. algo selects the FSK sub-detector algorithm run during the
// first AM pulse of each package.
func (d *Detector) Package(am, fm []int16, sampRate uint32, sampleOffset uint64, pulses, fskPulses *PulseData, algo FskAlgorithm) Result {
	if len(am) != len(fm) {
		panic("pulsecore: am and fm sample buffers must have equal length")
	}

	result := Result(d.core.Package(am, fm, sampRate, sampleOffset, pulses, fskPulses, algo.internal()))
	d.logResult(result, pulses, fskPulses)
	return result
}

func (d *Detector) logResult(result Result, pulses, fskPulses *PulseData) {
	switch result {
	case ResultOOK:
		if d.core.Verbosity >= int(LogInfo) {
			logHistogram(d.log, "PULSE_DATA_OOK", d.core.AttHistogram())
		}
		d.log.Debug("ook package", "num_pulses", pulses.NumPulses,
			"low_estimate", pulses.OokLowEstimate, "high_estimate", pulses.OokHighEstimate)
	case ResultFSK:
		if d.core.Verbosity >= int(LogInfo) {
			logHistogram(d.log, "PULSE_DATA_FSK", d.core.AttHistogram())
		}
		d.log.Debug("fsk package", "f1_est", fskPulses.FskF1Est, "f2_est", fskPulses.FskF2Est)
	default:
		if d.core.Verbosity >= int(LogDebug) {
			logHistogram(d.log, "out of data", d.core.AttHistogram())
		}
	}
}
