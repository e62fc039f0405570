package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Design and apply an 8th-order Butterworth band-pass
 *		(270-1700 Hz) as a cascade of second-order sections, the
 *		causal direct-form-II-transposed IIR spec.md §4.B calls for.
 *
 * Description:	Coefficients are derived by the standard bilinear-transform
 *		analog-prototype method: build the 4-pole Butterworth
 *		lowpass prototype, transform it to an 8-pole analog
 *		band-pass via the s -> (s^2+wo^2)/(s*bw) substitution, then
 *		bilinear-transform the result to the digital domain and
 *		split into 4 conjugate-pole biquads. This is the same
 *		computation scipy.signal.butter performs internally.
 *
 * Grounded on: original_source/selcald/receiver.py's
 *		scipy.signal.butter(8, [270,1700], btype='band', fs=sig_rate)
 *		followed by lfilter (stateless per call); coefficient
 *		generation style (computing filter math directly rather than
 *		importing a DSP library) grounded on the teacher's dsp.go.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

// biquad is one second-order section in direct-form-II-transposed form:
// H(z) = (b0 + b1*z^-1 + b2*z^-2) / (1 + a1*z^-1 + a2*z^-2).
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// BandpassFilter is a cascade of biquad sections realizing one designed
// band-pass response. Coefficients are computed once per stream and
// reused; Apply holds no state across calls.
type BandpassFilter struct {
	sections []biquad
}

// butterworthOrder is the filter order named in spec.md §4.B. protoOrder
// is the equivalent lowpass-prototype order; the lowpass-to-bandpass
// transform doubles it, so 4 -> 8.
const (
	butterworthOrder = 8
	protoOrder       = butterworthOrder / 2
)

// DesignBandpass builds the 8th-order Butterworth band-pass filter from
// loHz to hiHz at sampleRate.
func DesignBandpass(sampleRate int, loHz, hiHz float64) BandpassFilter {
	fs := float64(sampleRate)
	fs2 := 2 * fs

	// Pre-warp the corner frequencies so the bilinear transform's
	// frequency compression lands the digital cutoffs in the right place.
	wl := fs2 * math.Tan(math.Pi*loHz/fs)
	wh := fs2 * math.Tan(math.Pi*hiHz/fs)
	wo := math.Sqrt(wl * wh)
	bw := wh - wl

	protoPoles := butterworthPrototypePoles(protoOrder)

	bpPoles := make([]complex128, 0, 2*protoOrder)
	for _, p := range protoPoles {
		plp := p * complex(bw/2, 0)
		disc := cmplx.Sqrt(plp*plp - complex(wo*wo, 0))
		bpPoles = append(bpPoles, plp+disc, plp-disc)
	}
	kBP := math.Pow(bw, float64(protoOrder))

	digPoles := make([]complex128, len(bpPoles))
	denomProd := complex(1, 0)
	for i, p := range bpPoles {
		digPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		denomProd *= complex(fs2, 0) - p
	}
	// The analog zeros are all at the origin (protoOrder of them); each
	// contributes a factor of fs2 to the bilinear transform's gain term.
	numProd := complex(math.Pow(fs2, float64(protoOrder)), 0)
	kZ := kBP * real(numProd/denomProd)

	pairs := pairConjugates(digPoles)

	sections := make([]biquad, len(pairs))
	for i, pair := range pairs {
		p := pair[0]
		a1 := -2 * real(p)
		a2 := real(p)*real(p) + imag(p)*imag(p)

		// Zero at z=1 and z=-1 per section: (1-z^-1)(1+z^-1) = 1-z^-2.
		b0, b1, b2 := 1.0, 0.0, -1.0
		if i == 0 {
			b0, b1, b2 = b0*kZ, b1*kZ, b2*kZ
		}

		sections[i] = biquad{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
	}

	return BandpassFilter{sections: sections}
}

// butterworthPrototypePoles returns the n poles of the analog Butterworth
// lowpass prototype with unit cutoff and unity gain.
func butterworthPrototypePoles(n int) []complex128 {
	poles := make([]complex128, n)
	for k := 0; k < n; k++ {
		theta := math.Pi * float64(2*k+1) / float64(2*n)
		poles[k] = complex(-math.Sin(theta), math.Cos(theta))
	}

	return poles
}

// pairConjugates groups poles into conjugate pairs by matching each
// unclaimed pole to the closest unclaimed conjugate partner, rather than
// assuming any particular input ordering.
func pairConjugates(poles []complex128) [][2]complex128 {
	used := make([]bool, len(poles))
	pairs := make([][2]complex128, 0, len(poles)/2)

	for i := range poles {
		if used[i] {
			continue
		}

		used[i] = true
		target := cmplx.Conj(poles[i])

		best := -1
		bestDist := math.Inf(1)

		for j := i + 1; j < len(poles); j++ {
			if used[j] {
				continue
			}

			if d := cmplx.Abs(poles[j] - target); d < bestDist {
				bestDist = d
				best = j
			}
		}

		if best < 0 {
			pairs = append(pairs, [2]complex128{poles[i], poles[i]})
			continue
		}

		used[best] = true
		pairs = append(pairs, [2]complex128{poles[i], poles[best]})
	}

	return pairs
}

// Apply filters in one pass, fresh from zero initial conditions each call
// per spec.md §4.B — the stream driver calls this once per PCM chunk, not
// per frame, so transients occur only at chunk boundaries.
func (f BandpassFilter) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	for _, sec := range f.sections {
		s1, s2 := 0.0, 0.0

		for n, x := range out {
			y := sec.b0*x + s1
			s1 = sec.b1*x - sec.a1*y + s2
			s2 = sec.b2*x - sec.a2*y
			out[n] = y
		}
	}

	return out
}
