// Command pulsedetect drives the pulse detection core against a pair of
// raw int16 little-endian sample files (AM envelope and FM deviation) and
// prints the packages it emits. It exists to exercise pulsecore end to
// end; the CLI scaffolding itself is new relative to the original
// command-line-plumbing, which spec.md places out of scope.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/doismellburning/pulsecore"
	"github.com/doismellburning/pulsecore/internal/wavtap"
)

var cliLog = charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: false, Prefix: "pulsedetect"})

func main() {
	opts := pulsecore.DefaultOptions()

	var (
		amPath     = pflag.String("am", "", "path to raw int16 LE AM envelope samples (required)")
		fmPath     = pflag.String("fm", "", "path to raw int16 LE FM deviation samples (required)")
		sampleRate = pflag.Uint32("sample-rate", 250000, "sample rate in Hz")
		magEst     = pflag.Bool("mag-est", false, "treat envelope data as a magnitude estimate instead of amplitude")
		fixedHigh  = pflag.Float64("fixed-high-level-db", 0.0, "manual high-level override in dB (negative engages it)")
		minHigh    = pflag.Float64("min-high-level-db", -12.1442, "floor for the adaptive high-level estimate, in dB")
		ratio      = pflag.Float64("high-low-ratio-db", 9.0, "default high/low ratio, in dB")
		verbosity  = pflag.Int("verbosity", 0, "diagnostic verbosity (0-6, see pulsecore.LogNotice/LogInfo/LogDebug)")
		fskOld     = pflag.Bool("fsk-classic", false, "use the classic FSK sub-detector algorithm instead of min/max")
		chunk      = pflag.Int("chunk-samples", 16384, "samples read per detector call")
		wavTapDir  = pflag.String("wav-tap-dir", "", "if set, write the six debug WAV taps into this directory")
	)
	pflag.Parse()

	if *amPath == "" || *fmPath == "" {
		cliLog.Error("--am and --fm are required")
		pflag.Usage()
		os.Exit(2)
	}

	opts.UseMagEst = *magEst
	opts.FixedHighLevelDB = *fixedHigh
	opts.MinHighLevelDB = *minHigh
	opts.HighLowRatioDB = *ratio
	opts.Verbosity = pulsecore.Verbosity(*verbosity)

	algo := pulsecore.FskPulseDetectNew
	if *fskOld {
		algo = pulsecore.FskPulseDetectOld
	}

	amFile, err := os.Open(*amPath)
	if err != nil {
		fatal(err)
	}
	defer amFile.Close()

	fmFile, err := os.Open(*fmPath)
	if err != nil {
		fatal(err)
	}
	defer fmFile.Close()

	taps, closeTaps := openTaps(*wavTapDir, *sampleRate)
	defer closeTaps()

	det := pulsecore.NewDetector(opts)
	det.SetTaps(taps)

	am := make([]int16, *chunk)
	fmBuf := make([]int16, *chunk)
	var pulses, fskPulses pulsecore.PulseData
	var offset uint64
	var packageCount int

	for {
		n, err := readSamples(amFile, am)
		if n == 0 {
			if err == io.EOF {
				break
			}
			fatal(err)
		}
		if _, err := readSamples(fmFile, fmBuf[:n]); err != nil && err != io.EOF {
			fatal(err)
		}

		// Package returns as soon as a package completes; call again with
		// the same chunk until it has been consumed.
		for {
			result := det.Package(am[:n], fmBuf[:n], *sampleRate, offset, &pulses, &fskPulses, algo)
			if result == pulsecore.ResultNone {
				break
			}
			switch result {
			case pulsecore.ResultOOK:
				packageCount++
				fmt.Printf("OOK package #%d: %d pulses, offset=%d\n", packageCount, pulses.NumPulses, pulses.Offset)
			case pulsecore.ResultFSK:
				packageCount++
				fmt.Printf("FSK package #%d: f1=%d f2=%d, offset=%d\n", packageCount, fskPulses.FskF1Est, fskPulses.FskF2Est, fskPulses.Offset)
			}
		}

		offset += uint64(n)
		if n < len(am) {
			break
		}
	}

	fmt.Printf("done: %d packages\n", packageCount)
}

func readSamples(f *os.File, buf []int16) (int, error) {
	raw := make([]byte, len(buf)*2)
	n, err := io.ReadFull(f, raw)
	samples := n / 2
	for i := 0; i < samples; i++ {
		buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return samples, err
}

// openTaps builds the six named debug WAV sinks pulse_detect.c opens
// (am-demod, fm-demod, am-peak-high, am-peak-low, am-decoded, fm-decoded)
// under dir. A sink that fails to open is simply left nil — Taps is
// optional per sink, matching the original's "tap failures are silent"
// behavior.
func openTaps(dir string, sampleRate uint32) (taps pulsecore.Taps, closeFn func()) {
	if dir == "" {
		return pulsecore.Taps{}, func() {}
	}

	open := func(name string) *wavtap.WavTap {
		t, err := wavtap.New(dir+"/"+name+".wav", sampleRate, 4096)
		if err != nil {
			cliLog.Warn("wav tap failed to open, continuing without it", "tap", name, "err", err)
			return nil
		}
		return t
	}

	taps = pulsecore.Taps{
		AmDemod:    open("am_demod"),
		FmDemod:    open("fm_demod"),
		AmPeakHigh: open("am_peak_high"),
		AmPeakLow:  open("am_peak_low"),
		AmDecoded:  open("am_decoded"),
		FmDecoded:  open("fm_decoded"),
	}

	return taps, func() {
		taps.AmDemod.Close()
		taps.FmDemod.Close()
		taps.AmPeakHigh.Close()
		taps.AmPeakLow.Close()
		taps.AmDecoded.Close()
		taps.FmDecoded.Close()
	}
}

func fatal(err error) {
	cliLog.Fatal(err)
}
