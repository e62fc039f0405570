package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Per-frame tone analysis: correlate a frame against all 16
 *		reference templates and reduce the result to a TonesRecord
 *		— the dominant tone pair, a per-tone score vector, and the
 *		two-letter tone-group code the Sliding Decoder consumes.
 *
 * Grounded on: original_source/selcald/tones.py TonesRecord.computeStats
 *		and computeScores.
 *
 *----------------------------------------------------------------*/

import "math"

// TonesRecord is the immutable result of analyzing one frame: 16
// correlation energies, the dominant tone pair, and a per-tone score
// vector used by the Sliding Decoder's Method 2.
type TonesRecord struct {
	Corr    [NumTones]float64
	Avg     float64
	Max     float64
	Max1Idx int
	Max2Idx int
	Scores  [NumTones]float64
	GTC     string
}

// AnalyzeFrame builds a TonesRecord from one frame of filtered samples and
// the tone template for the active rate. Fails only when frame is empty.
func AnalyzeFrame(frame []float64, tmpl ToneTemplate) (TonesRecord, error) {
	if len(frame) == 0 {
		return TonesRecord{}, newError(DegenerateFrame, "frame has zero length")
	}

	var rec TonesRecord

	var tot float64
	for tone := 0; tone < NumTones; tone++ {
		c := correlationEnergy(frame, tmpl.Waves[tone])
		rec.Corr[tone] = c
		tot += c
	}

	rec.Avg = tot / NumTones

	// max1: the largest corr value above 0, with no gap test.
	max1 := 0.0
	idx1 := -1
	for tone := 0; tone < NumTones; tone++ {
		if rec.Corr[tone] > max1 {
			max1 = rec.Corr[tone]
			idx1 = tone
		}
	}

	// max2: the largest corr value among the rest, but only replacing the
	// running candidate when the gap test clears — a competitor must beat
	// the current candidate by more than a quarter of the candidate's gap
	// to max1, which resists spectral leakage into an adjacent bin.
	max2 := 0.0
	idx2 := -1
	for tone := 0; tone < NumTones; tone++ {
		if tone == idx1 {
			continue
		}

		if rec.Corr[tone] > max2 {
			if rec.Corr[tone]-max2 > (max1-max2)/4 {
				max2 = rec.Corr[tone]
				idx2 = tone
			}
		}
	}

	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}

	// A silent or very quiet frame (all correlation energies <= 0, e.g. the
	// gaps spec.md §8 scenarios 1 and 6 hold between transmissions) leaves
	// idx1 and/or idx2 unset: there is no dominant pair to report. ToneLetters
	// has no Python-style negative-index wraparound, so this must be handled
	// before indexing rather than left to panic.
	if idx1 < 0 || idx2 < 0 {
		rec.Max1Idx = -1
		rec.Max2Idx = -1
		rec.Max = max1
		rec.GTC = ""

		return rec, nil
	}

	rec.Max1Idx = idx1
	rec.Max2Idx = idx2
	rec.Max = max1
	rec.GTC = ToneGroupCode(idx1, idx2)

	rec.Scores = computeScores(rec.Corr, rec.Max, rec.Avg, idx1, idx2)

	return rec, nil
}

// computeScores builds the per-tone score vector: 1.0 at the dominant
// pair, a binned fraction in {0.0,0.2,...,0.8} for tones above average,
// and 0 otherwise.
func computeScores(corr [NumTones]float64, max, avg float64, max1idx, max2idx int) [NumTones]float64 {
	const binCount = 5
	const step = 0.2

	bin := (max - avg) / binCount

	var scores [NumTones]float64

	for tone := 0; tone < NumTones; tone++ {
		switch {
		case tone == max1idx || tone == max2idx:
			scores[tone] = 1.0
		case corr[tone] > avg:
			dv := corr[tone] - avg
			binIdx := int(dv / bin)
			scores[tone] = roundTo1(float64(binIdx) * step)
		}
	}

	return scores
}

// roundTo1 rounds to one decimal place, matching Python's round(x, 1).
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}
