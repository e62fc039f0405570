package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	The two-window sliding decoder: tracks a one-second-deep
 *		"earlier" window (Q1) and "later" window (Q2) of TonesRecords
 *		and runs two independent decision methods over them, each
 *		with its own rising/falling-edge hysteresis.
 *
 * Grounded on: original_source/selcald/tones.py TonesMonitor
 *		(trackByMaxTones, trackByScore, incScores/decScores,
 *		resetToneScores, top2). Three behaviors are implemented per
 *		the corrected semantics rather than the source's as-found
 *		behavior: decScores decrements (not increments) maxCnt on
 *		eviction, resetToneScores zeroes all four running arrays
 *		(not tonesQ1MaxCnt twice), and Method 2's warm-up silence in
 *		the first window_size frames is preserved as a natural
 *		consequence of only feeding scoreQ1 via the Q2→Q1 roll-over.
 *
 *----------------------------------------------------------------*/

import "github.com/charmbracelet/log"

// EventSink receives rising-edge SELCAL detections. Implemented by the
// Event Sink component; a nil sink silently discards events (useful for
// decoder-only tests).
type EventSink interface {
	WriteEvent(freqHz int, code, tag string) error
}

const (
	tagByMaxTone = "SELCAL_BYMAXTONE"
	tagByScore   = "SELCAL_BYSCORE"
)

// tgcCounter is a TGC -> occurrence-count map that remembers first-insertion
// order, so that tie-breaks in a scan match the order keys were first seen
// (mirroring a Python dict's insertion-ordered iteration).
type tgcCounter struct {
	counts map[string]int
	order  []string
}

func newTGCCounter() tgcCounter {
	return tgcCounter{counts: make(map[string]int)}
}

func (c *tgcCounter) inc(gtc string) {
	if _, ok := c.counts[gtc]; !ok {
		c.order = append(c.order, gtc)
	}

	c.counts[gtc]++
}

func (c *tgcCounter) dec(gtc string) {
	if _, ok := c.counts[gtc]; ok {
		c.counts[gtc]--
	}
}

// maxExcluding scans in first-insertion order and returns the TGC with the
// highest count, skipping one excluded code.
func (c *tgcCounter) maxExcluding(exclude string) (string, int) {
	best := ""
	bestCnt := 0

	for _, gtc := range c.order {
		if gtc == exclude {
			continue
		}

		if cnt := c.counts[gtc]; cnt > bestCnt {
			best = gtc
			bestCnt = cnt
		}
	}

	return best, bestCnt
}

// DecoderState is the Sliding Decoder's owned, mutable state: two
// sliding windows of TonesRecords, their TGC counters, running score sums,
// and the per-method rising/falling-edge latches. Created once per stream.
type DecoderState struct {
	freqHz int
	sink   EventSink

	q1, q2      []TonesRecord
	cnt1, cnt2  tgcCounter
	scoreQ1     [NumTones]float64
	scoreQ2     [NumTones]float64
	maxCntQ1    [NumTones]int
	maxCntQ2    [NumTones]int
	lastSelcalM []string
	lastSelcalS []string
}

// NewDecoderState creates an empty decoder for one stream at the given
// frequency (logged, not decoded). sink may be nil.
func NewDecoderState(freqHz int, sink EventSink) *DecoderState {
	return &DecoderState{
		freqHz: freqHz,
		sink:   sink,
		cnt1:   newTGCCounter(),
		cnt2:   newTGCCounter(),
	}
}

// SetFrequency updates the frequency logged alongside future events, for
// callers that track a live rig's VFO rather than a fixed value.
func (d *DecoderState) SetFrequency(freqHz int) {
	d.freqHz = freqHz
}

// DecoderOutput is the tagged result of one Track call, replacing the
// source's dynamic result dictionary with fixed fields.
type DecoderOutput struct {
	CurrentTGC string

	IsActive bool
	Selcal   string
	Tg1      string
	Tg1Cnt   int
	Tg2      string
	Tg2Cnt   int

	IsActiveBS bool
	SelcalBS   string
}

func incScores(score *[NumTones]float64, maxCnt *[NumTones]int, trec TonesRecord) {
	for tone := 0; tone < NumTones; tone++ {
		score[tone] += trec.Scores[tone]
	}

	// A silent frame (AnalyzeFrame's no-detection case) carries Max1Idx =
	// Max2Idx = -1: no dominant pair to count.
	if trec.Max1Idx < 0 || trec.Max2Idx < 0 {
		return
	}

	maxCnt[trec.Max1Idx]++
	maxCnt[trec.Max2Idx]++
}

// decScores undoes incScores' contribution for an evicted record. Scores
// are clamped to 0 (spec.md §3's non-negative invariant); maxCnt is
// decremented, correcting the source's decScores which incremented it.
func decScores(score *[NumTones]float64, maxCnt *[NumTones]int, trec TonesRecord) {
	for tone := 0; tone < NumTones; tone++ {
		if score[tone] > 0 {
			score[tone] -= trec.Scores[tone]
			if score[tone] < 0 {
				score[tone] = 0
			}
		}
	}

	if trec.Max1Idx < 0 || trec.Max2Idx < 0 {
		return
	}

	maxCnt[trec.Max1Idx]--
	maxCnt[trec.Max2Idx]--
}

// resetToneScores zeroes all four running arrays, correcting the source's
// resetToneScores which zeroed tonesQ1MaxCnt twice and never touched
// tonesQ2MaxCnt (and never touched the score sums at all).
func (d *DecoderState) resetToneScores() {
	d.scoreQ1 = [NumTones]float64{}
	d.scoreQ2 = [NumTones]float64{}
	d.maxCntQ1 = [NumTones]int{}
	d.maxCntQ2 = [NumTones]int{}
}

// Track folds one new TonesRecord into both sliding windows and returns
// the combined decision of Method 1 (by max-tone count) and Method 2 (by
// score). windowSize is normally the active RateProfile's FrameRate.
func (d *DecoderState) Track(trec TonesRecord, windowSize, minGroupCnt int, minScore float64) DecoderOutput {
	out := DecoderOutput{CurrentTGC: trec.GTC}

	d.maintainQueues(trec, windowSize)
	d.trackByMaxTones(trec, minGroupCnt, &out)
	d.trackByScore(minScore, &out)

	return out
}

func (d *DecoderState) maintainQueues(trec TonesRecord, windowSize int) {
	d.q2 = append(d.q2, trec)
	d.cnt2.inc(trec.GTC)
	incScores(&d.scoreQ2, &d.maxCntQ2, trec)

	if len(d.q2) > windowSize {
		old2 := d.q2[0]
		d.q2 = d.q2[1:]
		d.cnt2.dec(old2.GTC)
		decScores(&d.scoreQ2, &d.maxCntQ2, old2)

		d.q1 = append(d.q1, old2)
		d.cnt1.inc(old2.GTC)
		incScores(&d.scoreQ1, &d.maxCntQ1, old2)

		if len(d.q1) > windowSize {
			old1 := d.q1[0]
			d.q1 = d.q1[1:]
			d.cnt1.dec(old1.GTC)
			decScores(&d.scoreQ1, &d.maxCntQ1, old1)
		}
	}
}

func (d *DecoderState) trackByMaxTones(trec TonesRecord, minGroupCnt int, out *DecoderOutput) {
	q2Max, q2MaxCnt := d.cnt2.maxExcluding("")
	q1Max, q1MaxCnt := d.cnt1.maxExcluding(q2Max)

	out.Tg1, out.Tg1Cnt = q1Max, q1MaxCnt
	out.Tg2, out.Tg2Cnt = q2Max, q2MaxCnt

	if q1MaxCnt >= minGroupCnt && q2MaxCnt >= minGroupCnt && q1Max != q2Max {
		out.IsActive = true
		out.Selcal = q1Max + "-" + q2Max

		if len(d.lastSelcalM) == 0 {
			d.lastSelcalM = []string{q1Max, q2Max}
			d.emit(out.Selcal, tagByMaxTone)
		}

		return
	}

	out.IsActive = false
	out.Selcal = ""

	if len(d.lastSelcalM) > 0 {
		d.cnt1 = newTGCCounter()
		d.cnt2 = newTGCCounter()
		d.lastSelcalM = nil
	}
}

func (d *DecoderState) trackByScore(minScore float64, out *DecoderOutput) {
	q1a, q1b, v1a, v1b := top2(d.scoreQ1, nil)
	excluded := map[int]bool{q1a: true, q1b: true}
	q2a, q2b, v2a, v2b := top2(d.scoreQ2, excluded)

	disjoint := q1a != q2a && q1a != q2b && q1b != q2a && q1b != q2b

	if v1a >= minScore && v1b >= minScore && v2a >= minScore && v2b >= minScore && disjoint {
		out.IsActiveBS = true
		out.SelcalBS = ToneGroupCode(q1a, q1b) + "-" + ToneGroupCode(q2a, q2b)

		if len(d.lastSelcalS) == 0 {
			d.lastSelcalS = []string{out.SelcalBS}
			d.emit(out.SelcalBS, tagByScore)
		}

		return
	}

	out.IsActiveBS = false
	out.SelcalBS = ""

	if len(d.lastSelcalS) > 0 {
		d.resetToneScores()
		d.lastSelcalS = nil
	}
}

func (d *DecoderState) emit(code, tag string) {
	if d.sink == nil {
		return
	}

	// LogWriteFailed is non-fatal by design (spec.md §7): the decoder has
	// no failure mode of its own, so a log error is warned about here
	// rather than propagated.
	if err := d.sink.WriteEvent(d.freqHz, code, tag); err != nil {
		log.Warn("event log write failed", "err", err)
	}
}

// top2 finds the two highest-valued indices in vals, excluding any index
// present in excluded, and returns them in ascending index order (not
// value order) alongside their values.
func top2(vals [NumTones]float64, excluded map[int]bool) (idx1, idx2 int, val1, val2 float64) {
	idx1, idx2 = -1, -1
	max1, max2 := -1.0, -1.0

	for tone := 0; tone < NumTones; tone++ {
		if excluded[tone] {
			continue
		}

		v := vals[tone]

		if v > max1 {
			max2, idx2 = max1, idx1
			max1, idx1 = v, tone
		} else if v > max2 {
			max2, idx2 = v, tone
		}
	}

	if idx1 > idx2 {
		idx1, idx2 = idx2, idx1
	}

	if idx1 >= 0 {
		val1 = vals[idx1]
	}

	if idx2 >= 0 {
		val2 = vals[idx2]
	}

	return idx1, idx2, val1, val2
}
