package pulsecore

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/doismellburning/pulsecore/internal/pulse"
)

// newLogger builds the leveled logger a Detector uses for its diagnostic
// output. Grounded on the teacher's textcolor.go — a leveled, gated print
// wrapper — but backed by a real dependency instead of a stub.
func newLogger(v Verbosity) *charmlog.Logger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Prefix:          "pulsecore",
	})
	switch {
	case v >= LogDebug:
		l.SetLevel(charmlog.DebugLevel)
	case v >= LogInfo:
		l.SetLevel(charmlog.InfoLevel)
	case v >= LogNotice:
		l.SetLevel(charmlog.WarnLevel)
	default:
		l.SetLevel(charmlog.ErrorLevel)
	}
	return l
}

// logHistogram logs the per-package attenuation distribution (bucket i
// corresponds to 3-i dB, matching pulse_detect_print_pulse_array's own
// "3 - i" labeling) plus its count-weighted mean, via gonum/stat, as a
// one-number summary of how hot or quiet the package ran.
func logHistogram(l *charmlog.Logger, label string, hist pulse.AttHistogram) {
	fields := make([]any, 0, len(hist)*2+2)
	db := make([]float64, 0, len(hist))
	weights := make([]float64, 0, len(hist))
	for i, n := range hist {
		if n == 0 {
			continue
		}
		fields = append(fields, i, n)
		db = append(db, float64(3-i))
		weights = append(weights, float64(n))
	}
	if len(db) > 0 {
		fields = append(fields, "mean_db", stat.Mean(db, weights))
	}
	l.Info(label, fields...)
}
