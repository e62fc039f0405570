package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	The fixed 16-tone SELCAL alphabet, and generation of
 *		integer-sample reference sinusoids for each tone at the
 *		working rate.
 *
 * Grounded on: original_source/selcald/tones.py TONES, ALPHABET, note(),
 *		generateToneTemplate().
 *
 *----------------------------------------------------------------*/

import "math"

// NumTones is the size of the fixed SELCAL tone alphabet.
const NumTones = 16

// toneAmplitude is the peak amplitude used when synthesizing reference
// templates, matching a full-scale 16-bit sample.
const toneAmplitude = 32767.0

// ToneFrequencies is the fixed, ascending SELCAL tone alphabet in Hz.
var ToneFrequencies = [NumTones]float64{
	312.6, 346.7, 384.6, 426.6, 473.2, 524.8, 582.1, 645.7,
	716.1, 794.3, 881.0, 977.2, 1083.9, 1202.3, 1333.5, 1479.1,
}

// ToneLetters maps a tone index to its single SELCAL alphabet letter.
// Notably absent: I, N, O (easily confused with 1, 0 on legacy equipment).
var ToneLetters = [NumTones]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H',
	'J', 'K', 'L', 'M', 'P', 'Q', 'R', 'S',
}

// ToneGroupCode builds the two-letter TGC for a dominant pair, writing the
// lower tone index first regardless of argument order.
func ToneGroupCode(idx1, idx2 int) string {
	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}

	return string([]byte{ToneLetters[idx1], ToneLetters[idx2]})
}

// ToneTemplate holds the 16 reference waveforms for one working rate,
// generated once per stream and reused for every frame's correlation.
type ToneTemplate struct {
	SigRate  int
	FrameLen int
	Waves    [NumTones][]float64
}

// GenerateToneTemplate synthesizes the 16 reference sinusoids, each
// exactly frameLen samples at sigRate, amplitude toneAmplitude. This is
// the Go equivalent of tones.py's note()/generateToneTemplate(), kept as
// floating point rather than rounded to integers since every consumer
// (FFT and direct correlation) wants float64 anyway.
func GenerateToneTemplate(frameLen, sigRate int) ToneTemplate {
	tmpl := ToneTemplate{SigRate: sigRate, FrameLen: frameLen}

	for tone := 0; tone < NumTones; tone++ {
		wave := make([]float64, frameLen)
		freq := ToneFrequencies[tone]

		for n := 0; n < frameLen; n++ {
			t := float64(n) / float64(sigRate)
			wave[n] = math.Sin(2*math.Pi*freq*t) * toneAmplitude
		}

		tmpl.Waves[tone] = wave
	}

	return tmpl
}
