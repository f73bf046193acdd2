package pulsecore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/pulsecore"
)

func TestDetectorEmitsOokPackage(t *testing.T) {
	opts := pulsecore.DefaultOptions()
	d := pulsecore.NewDetector(opts)

	sampRate := uint32(250000)
	samplesPerMs := int(sampRate) / 1000
	leadIn := 1040
	pulseLen := 500
	gapLen := pulsecore.PDMaxGapMs*samplesPerMs + 10

	n := leadIn + pulseLen + gapLen
	am := make([]int16, n)
	fm := make([]int16, n)
	for i := leadIn; i < leadIn+pulseLen; i++ {
		am[i] = 20000
	}

	var pulses, fskPulses pulsecore.PulseData
	result := d.Package(am, fm, sampRate, 0, &pulses, &fskPulses, pulsecore.FskPulseDetectNew)

	require.Equal(t, pulsecore.ResultOOK, result)
	assert.Equal(t, 1, pulses.NumPulses)
	assert.Equal(t, sampRate, pulses.SampleRate)
}

func TestSetLevelsReconfiguresWithoutRecreating(t *testing.T) {
	d := pulsecore.NewDetector(pulsecore.DefaultOptions())

	opts := pulsecore.DefaultOptions()
	opts.UseMagEst = true
	opts.Verbosity = pulsecore.LogDebug
	assert.NotPanics(t, func() {
		d.SetLevels(opts)
	})
}

func TestPackagePanicsOnMismatchedBufferLengths(t *testing.T) {
	d := pulsecore.NewDetector(pulsecore.DefaultOptions())
	var pulses, fskPulses pulsecore.PulseData

	assert.Panics(t, func() {
		d.Package(make([]int16, 10), make([]int16, 5), 250000, 0, &pulses, &fskPulses, pulsecore.FskPulseDetectNew)
	})
}

func TestIndependentDetectorsDoNotShareState(t *testing.T) {
	t.Parallel()

	sampRate := uint32(250000)
	leadIn := 1040

	run := func(t *testing.T) pulsecore.Result {
		t.Helper()
		d := pulsecore.NewDetector(pulsecore.DefaultOptions())
		n := leadIn + 500 + pulsecore.PDMaxGapMs*int(sampRate)/1000 + 10
		am := make([]int16, n)
		fm := make([]int16, n)
		for i := leadIn; i < leadIn+500; i++ {
			am[i] = 20000
		}
		var pulses, fskPulses pulsecore.PulseData
		return d.Package(am, fm, sampRate, 0, &pulses, &fskPulses, pulsecore.FskPulseDetectNew)
	}

	results := make(chan pulsecore.Result, 2)
	go func() { results <- run(t) }()
	go func() { results <- run(t) }()

	r1, r2 := <-results, <-results
	assert.Equal(t, pulsecore.ResultOOK, r1)
	assert.Equal(t, pulsecore.ResultOOK, r2)
}
