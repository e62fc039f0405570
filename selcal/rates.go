package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Map supported input sample rates to the decimation factor,
 *		working rate, frame rate, and frame length the rest of the
 *		pipeline runs at.
 *
 * Grounded on: original_source/selcald/receiver.py SAMPLE_RATES.
 *
 *----------------------------------------------------------------*/

// RateProfile describes how one input sample rate is processed: how much
// it's decimated, the resulting working rate, and the frame geometry used
// for correlation. frame_len * frame_rate is intentionally within 25
// samples of sig_rate (spec.md §3 invariant) so every frame's correlation
// sum is comparable in magnitude.
type RateProfile struct {
	InputRate int
	Decimate  int
	SigRate   int
	FrameRate int
	FrameLen  int
}

// rateProfiles is keyed by the input sample rate declared on the wire
// (CLI flag or WAV header). Order matches spec.md §3.
var rateProfiles = map[int]RateProfile{
	11025: {InputRate: 11025, Decimate: 1, SigRate: 11025, FrameRate: 9, FrameLen: 1225},
	22050: {InputRate: 22050, Decimate: 2, SigRate: 11025, FrameRate: 9, FrameLen: 1225},
	44100: {InputRate: 44100, Decimate: 4, SigRate: 11025, FrameRate: 9, FrameLen: 1225},
	48000: {InputRate: 48000, Decimate: 4, SigRate: 12000, FrameRate: 10, FrameLen: 1200},
}

// SupportedRates returns the enumerated input sample rates, ascending.
func SupportedRates() []int {
	return []int{11025, 22050, 44100, 48000}
}

// LookupRateProfile returns the RateProfile for an input sample rate, or
// an UnsupportedRate error if it isn't one of the enumerated values.
func LookupRateProfile(inputRate int) (RateProfile, error) {
	profile, ok := rateProfiles[inputRate]
	if !ok {
		return RateProfile{}, newError(UnsupportedRate,
			"sample rate %d not supported, must be one of %v", inputRate, SupportedRates())
	}

	return profile, nil
}
