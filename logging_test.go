package pulsecore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doismellburning/pulsecore/internal/pulse"
)

func TestNewLoggerLevelsMatchVerbosity(t *testing.T) {
	assert.True(t, newLogger(LogDebug).GetLevel() <= newLogger(LogNotice).GetLevel())
}

func TestLogHistogramHandlesEmptyDistribution(t *testing.T) {
	l := newLogger(LogInfo)
	var hist pulse.AttHistogram
	assert.NotPanics(t, func() {
		logHistogram(l, "empty", hist)
	})
}
