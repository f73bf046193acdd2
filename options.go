// Package pulsecore implements the pulse detection core of a
// software-defined-radio pipeline: it turns a pair of baseband envelope
// streams (AM magnitude/amplitude and FM instantaneous frequency) into
// discrete pulse packages for downstream OOK/FSK protocol decoders.
package pulsecore

import "github.com/doismellburning/pulsecore/internal/fsk"

// FskAlgorithm selects which FSK sub-detector variant runs during the
// first AM pulse of a package.
type FskAlgorithm int

const (
	// FskPulseDetectOld is the classic variant. It
	// requires WrapUp to flush its trailing state into the package.
	FskPulseDetectOld FskAlgorithm = FskAlgorithm(fsk.AlgorithmOld)
	// FskPulseDetectNew is the min/max variant, with no trailing state.
	FskPulseDetectNew FskAlgorithm = FskAlgorithm(fsk.AlgorithmNew)
)

func (a FskAlgorithm) internal() fsk.Algorithm { return fsk.Algorithm(a) }

// Verbosity gates diagnostic output: LogNotice accumulates a per-sample
// attenuation histogram, LogInfo logs it on package emission, LogDebug
// also on buffer exhaustion.
type Verbosity int

const (
	LogNotice Verbosity = 4
	LogInfo   Verbosity = 5
	LogDebug  Verbosity = 6
)

// Options configures a Detector's threshold estimator. The zero value is
// not a usable configuration — use DefaultOptions or set every field
// explicitly, mirroring pulse_detect_set_levels's required parameters.
type Options struct {
	// UseMagEst selects whether the envelope data is a magnitude
	// estimate (true) or an amplitude estimate (false).
	UseMagEst bool
	// FixedHighLevelDB, if negative, engages a manual threshold
	// override at that level. Zero or positive means automatic
	// (peak-follower or adaptive-estimator) thresholding.
	FixedHighLevelDB float64
	// MinHighLevelDB is the floor for the adaptive high-level estimate.
	MinHighLevelDB float64
	// HighLowRatioDB is the default ratio between the high and low
	// (noise) level estimates, used by the static estimator.
	HighLowRatioDB float64
	// Verbosity sets the diagnostic output level.
	Verbosity Verbosity
}

// DefaultOptions mirrors the thresholds pulse_detect_create configures by
// default: amplitude estimation, no fixed override, -12.1442 dB floor, a
// 9 dB high/low ratio, no diagnostic output.
func DefaultOptions() Options {
	return Options{
		UseMagEst:        false,
		FixedHighLevelDB: 0.0,
		MinHighLevelDB:   -12.1442,
		HighLowRatioDB:   9.0,
		Verbosity:        0,
	}
}
