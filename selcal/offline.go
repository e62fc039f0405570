package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Offline WAV analysis: run the same DSP path as the Stream
 *		Driver over an entire file in one pass, producing a
 *		per-frame TonesRecord dump and the log-correlation surface
 *		matrix an external plotter consumes.
 *
 * Grounded on: original_source/selcald/receiver.py's receiver() function.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/go-audio/wav"
)

// OfflineResult is the full output of analyzing one WAV file.
type OfflineResult struct {
	Profile RateProfile
	Records []TonesRecord

	// Surface is a [tone][frame] matrix of log-correlation energies, the
	// "rectangular matrix" spec.md §4.H names as the only output contract
	// of the (external, unimplemented here) 3D plot.
	Surface [NumTones][]float64
}

// AnalyzeWAV decodes a mono 16-bit WAV file, runs the full decimate ->
// band-pass -> frame pipeline over it as a single buffer, and returns
// every frame's TonesRecord plus the correlation surface matrix.
func AnalyzeWAV(decoder *wav.Decoder) (OfflineResult, error) {
	if !decoder.IsValidFile() {
		return OfflineResult{}, fmt.Errorf("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return OfflineResult{}, fmt.Errorf("reading PCM buffer: %w", err)
	}

	profile, err := LookupRateProfile(int(decoder.SampleRate))
	if err != nil {
		return OfflineResult{}, err
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	decimated := decimate(samples, profile.Decimate)

	floats := make([]float64, len(decimated))
	for i, s := range decimated {
		floats[i] = float64(s)
	}

	filter := DesignBandpass(profile.SigRate, 270, 1700)
	filtered := filter.Apply(floats)

	tmpl := GenerateToneTemplate(profile.FrameLen, profile.SigRate)

	numFrames := len(filtered) / profile.FrameLen

	result := OfflineResult{Profile: profile, Records: make([]TonesRecord, 0, numFrames)}
	for tone := 0; tone < NumTones; tone++ {
		result.Surface[tone] = make([]float64, 0, numFrames)
	}

	for i := 0; i < numFrames; i++ {
		frame := filtered[i*profile.FrameLen : (i+1)*profile.FrameLen]

		trec, err := AnalyzeFrame(frame, tmpl)
		if err != nil {
			continue
		}

		result.Records = append(result.Records, trec)

		for tone := 0; tone < NumTones; tone++ {
			result.Surface[tone] = append(result.Surface[tone], trec.Corr[tone])
		}
	}

	return result, nil
}
