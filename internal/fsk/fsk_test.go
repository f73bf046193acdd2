package fsk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doismellburning/pulsecore/internal/pulsedata"
)

func TestMinmaxTracksExtrema(t *testing.T) {
	var d Detector
	d.Init()
	var fskPulses pulsedata.PulseData

	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			d.Minmax(6000, &fskPulses)
		} else {
			d.Minmax(-6000, &fskPulses)
		}
	}

	assert.Less(t, d.FmF1Est(), 0)
	assert.Greater(t, d.FmF2Est(), 0)
	assert.Greater(t, fskPulses.NumPulses, MinPulsesForTest)
}

// MinPulsesForTest mirrors pulse.MinPulses without importing the pulse
// package (which imports fsk, so importing it here would create an
// import cycle).
const MinPulsesForTest = 5

func TestClassicWrapUpFlushesTrailingRun(t *testing.T) {
	var d Detector
	d.Init()
	var fskPulses pulsedata.PulseData

	for i := 0; i < 10; i++ {
		d.Classic(6000, &fskPulses)
	}
	before := fskPulses.NumPulses
	d.WrapUp(&fskPulses)

	assert.Equal(t, before+1, fskPulses.NumPulses)
}

func TestInitResetsState(t *testing.T) {
	var d Detector
	var fskPulses pulsedata.PulseData
	d.Classic(6000, &fskPulses)

	d.Init()

	assert.Equal(t, 0, d.FmF1Est())
	assert.Equal(t, 0, d.FmF2Est())
}
