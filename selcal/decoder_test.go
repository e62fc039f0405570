package selcal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	codes []string
	tags  []string
}

func (s *recordingSink) WriteEvent(freqHz int, code, tag string) error {
	s.codes = append(s.codes, code)
	s.tags = append(s.tags, tag)

	return nil
}

// trecFor builds a TonesRecord whose dominant pair is (tone1,tone2) with
// scores set the way AnalyzeFrame would, for decoder tests that don't need
// a full DSP pass.
func trecFor(tone1, tone2 int) TonesRecord {
	if tone1 > tone2 {
		tone1, tone2 = tone2, tone1
	}

	var scores [NumTones]float64
	scores[tone1] = 1.0
	scores[tone2] = 1.0

	return TonesRecord{
		Max1Idx: tone1,
		Max2Idx: tone2,
		GTC:     ToneGroupCode(tone1, tone2),
		Scores:  scores,
		Avg:     1.0,
		Max:     5.0,
	}
}

// TestDecoderDetectsCleanSelcal feeds a clean two-pair transmission (AB
// held, then CD held) and checks Method 1 ends active with the expected
// code and that the code was emitted to the sink.
func TestDecoderDetectsCleanSelcal(t *testing.T) {
	sink := &recordingSink{}
	d := NewDecoderState(0, sink)

	const windowSize = 9
	const minGroupCnt = 4
	const minScore = 4.5

	abIdx1, abIdx2 := 0, 1 // A,B
	cdIdx1, cdIdx2 := 2, 3 // C,D

	var last DecoderOutput

	for i := 0; i < windowSize; i++ {
		last = d.Track(trecFor(abIdx1, abIdx2), windowSize, minGroupCnt, minScore)
	}

	for i := 0; i < windowSize; i++ {
		last = d.Track(trecFor(cdIdx1, cdIdx2), windowSize, minGroupCnt, minScore)
	}

	require.True(t, last.IsActive)
	require.Equal(t, "AB-CD", last.Selcal)
	require.Contains(t, sink.codes, "AB-CD")
}

// TestDecoderMethod1RisingEdgeFiresOnce checks the rising-edge latch: once
// IsActive goes true, repeated frames matching the same pair don't re-emit.
func TestDecoderMethod1RisingEdgeFiresOnce(t *testing.T) {
	sink := &recordingSink{}
	d := NewDecoderState(0, sink)

	const windowSize = 9
	const minGroupCnt = 4
	const minScore = 4.5

	for i := 0; i < windowSize; i++ {
		d.Track(trecFor(0, 1), windowSize, minGroupCnt, minScore)
	}

	for i := 0; i < 3*windowSize; i++ {
		d.Track(trecFor(2, 3), windowSize, minGroupCnt, minScore)
	}

	count := 0
	for i, c := range sink.codes {
		if c == "AB-CD" && sink.tags[i] == tagByMaxTone {
			count++
		}
	}

	require.Equal(t, 1, count, "rising edge should emit exactly once regardless of how long the pattern persists")
}

// TestDecoderFallingEdgeResets checks that once the pattern breaks, Method
// 1's counters clear so the same code can fire again later.
func TestDecoderFallingEdgeResets(t *testing.T) {
	sink := &recordingSink{}
	d := NewDecoderState(0, sink)

	const windowSize = 9
	const minGroupCnt = 4
	const minScore = 4.5

	runCode := func() {
		for i := 0; i < windowSize; i++ {
			d.Track(trecFor(0, 1), windowSize, minGroupCnt, minScore)
		}

		for i := 0; i < windowSize; i++ {
			d.Track(trecFor(2, 3), windowSize, minGroupCnt, minScore)
		}
	}

	// Break the pattern with unrelated noise before repeating it.
	noise := func() {
		for i := 0; i < 3*windowSize; i++ {
			d.Track(trecFor(4, 5), windowSize, minGroupCnt, minScore)
		}
	}

	runCode()
	noise()
	runCode()

	count := 0
	for i, c := range sink.codes {
		if c == "AB-CD" && sink.tags[i] == tagByMaxTone {
			count++
		}
	}

	require.Equal(t, 2, count, "the same code should be detectable again after the pattern breaks and repeats")
}

// TestDecoderAdjacentTonesStayDisjoint checks that when Method 1 reports a
// code for two groups sharing a tone (AB then BC), its two reported groups
// still differ (spec.md's q1Max != q2Max guard). Sharing a tone letter
// between the halves is allowed: this sequence is reported as AB-BC.
func TestDecoderAdjacentTonesStayDisjoint(t *testing.T) {
	sink := &recordingSink{}
	d := NewDecoderState(0, sink)

	const windowSize = 9
	const minGroupCnt = 4
	const minScore = 4.5

	// AB held, then BC held: B is shared between both halves.
	for i := 0; i < windowSize; i++ {
		d.Track(trecFor(0, 1), windowSize, minGroupCnt, minScore)
	}

	var last DecoderOutput
	for i := 0; i < windowSize; i++ {
		last = d.Track(trecFor(1, 2), windowSize, minGroupCnt, minScore)
	}

	if last.IsActive {
		require.NotEqual(t, last.Tg1, last.Tg2)
	}
}

// TestIncDecScoresRoundTrip checks that incScores followed by decScores on
// the same record returns the running arrays to their prior state, the
// round-trip property the sliding-window eviction relies on.
func TestIncDecScoresRoundTrip(t *testing.T) {
	var score [NumTones]float64
	var maxCnt [NumTones]int

	before := score
	beforeCnt := maxCnt

	trec := trecFor(3, 7)

	incScores(&score, &maxCnt, trec)
	decScores(&score, &maxCnt, trec)

	require.Equal(t, before, score)
	require.Equal(t, beforeCnt, maxCnt)
}

// TestResetToneScoresZeroesEverything checks resetToneScores clears all
// four running arrays, correcting the source's partial reset.
func TestResetToneScoresZeroesEverything(t *testing.T) {
	d := NewDecoderState(0, nil)

	trec := trecFor(1, 2)
	incScores(&d.scoreQ1, &d.maxCntQ1, trec)
	incScores(&d.scoreQ2, &d.maxCntQ2, trec)

	d.resetToneScores()

	require.Equal(t, [NumTones]float64{}, d.scoreQ1)
	require.Equal(t, [NumTones]float64{}, d.scoreQ2)
	require.Equal(t, [NumTones]int{}, d.maxCntQ1)
	require.Equal(t, [NumTones]int{}, d.maxCntQ2)
}

// TestTop2ExcludesIndices checks top2 never returns an excluded index and
// returns results in ascending index order.
func TestTop2ExcludesIndices(t *testing.T) {
	var vals [NumTones]float64
	vals[0] = 9
	vals[5] = 8
	vals[10] = 7

	excluded := map[int]bool{0: true}

	idx1, idx2, v1, v2 := top2(vals, excluded)

	require.Equal(t, 5, idx1)
	require.Equal(t, 10, idx2)
	require.Equal(t, 8.0, v1)
	require.Equal(t, 7.0, v2)
}
