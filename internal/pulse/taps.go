package pulse

import "github.com/doismellburning/pulsecore/internal/wavtap"

// Taps holds the optional debug WAV sinks Package writes demodulated and
// decoded signals to. A Taps zero value (all fields nil) writes nothing --
// WavTap.WriteSample is nil-safe, so the detector never branches on whether
// a given tap is configured.
type Taps struct {
	AmDemod    *wavtap.WavTap
	FmDemod    *wavtap.WavTap
	AmPeakHigh *wavtap.WavTap
	AmPeakLow  *wavtap.WavTap
	AmDecoded  *wavtap.WavTap
	FmDecoded  *wavtap.WavTap
}
