package selcal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestFFTMatchesDirect checks the FFT-accelerated and direct O(N^2)
// same-mode correlations agree within floating rounding, for arbitrary
// equal-length real sequences above and below fftCorrelationThreshold.
func TestFFTMatchesDirect(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(rt, "n")

		x := rapid.SliceOfN(rapid.Float64Range(-1000, 1000), n, n).Draw(rt, "x")
		y := rapid.SliceOfN(rapid.Float64Range(-1000, 1000), n, n).Draw(rt, "y")

		direct := directCorrelateSame(x, y)
		fft := fftCorrelateSame(x, y)

		require.Equal(rt, len(direct), len(fft))

		for i := range direct {
			require.InDeltaf(rt, direct[i], fft[i], 1e-6*math.Max(1, math.Abs(direct[i])),
				"mismatch at index %d: direct=%v fft=%v", i, direct[i], fft[i])
		}
	})
}

// TestCorrelationEnergySelfPeak checks a tone's correlation against its own
// reference template dwarfs its correlation against every other tone's
// template, the discriminability property the whole decoder depends on.
func TestCorrelationEnergySelfPeak(t *testing.T) {
	const frameLen = 1225
	const sigRate = 11025

	tmpl := GenerateToneTemplate(frameLen, sigRate)

	for tone := 0; tone < NumTones; tone++ {
		self := correlationEnergy(tmpl.Waves[tone], tmpl.Waves[tone])

		for other := 0; other < NumTones; other++ {
			if other == tone {
				continue
			}

			cross := correlationEnergy(tmpl.Waves[tone], tmpl.Waves[other])
			require.Greater(t, self, cross, "tone %d: self-correlation should exceed cross with tone %d", tone, other)
		}
	}
}
