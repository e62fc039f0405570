package selcal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// impulseResponse returns the filter's response to a unit impulse, the
// simplest way to probe its frequency behavior without a full DFT.
func impulseResponse(f BandpassFilter, n int) []float64 {
	x := make([]float64, n)
	x[0] = 1

	return f.Apply(x)
}

// magnitudeAt estimates |H(e^jw)| at frequency hz via Goertzel-style
// correlation of the impulse response against a probe sinusoid.
func magnitudeAt(impulse []float64, hz float64, sampleRate int) float64 {
	var re, im float64

	for n, h := range impulse {
		theta := 2 * math.Pi * hz * float64(n) / float64(sampleRate)
		re += h * math.Cos(theta)
		im -= h * math.Sin(theta)
	}

	return math.Hypot(re, im)
}

// TestBandpassPassesPassbandAttenuatesStopband checks the designed filter
// passes a tone from the SELCAL alphabet (well inside 270-1700Hz) with much
// higher gain than a tone far outside it.
func TestBandpassPassesPassbandAttenuatesStopband(t *testing.T) {
	const sampleRate = 11025

	filt := DesignBandpass(sampleRate, 270, 1700)
	impulse := impulseResponse(filt, 2000)

	passGain := magnitudeAt(impulse, 700, sampleRate)
	stopGainLow := magnitudeAt(impulse, 50, sampleRate)
	stopGainHigh := magnitudeAt(impulse, 4000, sampleRate)

	require.Greater(t, passGain, 10*stopGainLow, "passband gain should dominate far below 270Hz")
	require.Greater(t, passGain, 10*stopGainHigh, "passband gain should dominate far above 1700Hz")
}

// TestBandpassStatelessAcrossCalls checks Apply produces identical output
// for the same input called twice in a row, confirming no state leaks
// between calls (spec.md §4.B's stateless-per-call requirement).
func TestBandpassStatelessAcrossCalls(t *testing.T) {
	filt := DesignBandpass(11025, 270, 1700)

	signal := make([]float64, 500)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 700 * float64(i) / 11025)
	}

	first := filt.Apply(signal)
	second := filt.Apply(signal)

	require.Equal(t, first, second)
}
