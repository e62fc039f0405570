package selcal

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// synthesizePairSamples renders holdSecs of a two-tone SELCAL pair at
// sigRate as int16 samples, the same synthesis selcal-gentone uses.
func synthesizePairSamples(tone1, tone2 int, holdSecs float64, sigRate int) []int {
	n := int(holdSecs * float64(sigRate))
	out := make([]int, n)

	f1 := ToneFrequencies[tone1]
	f2 := ToneFrequencies[tone2]

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sigRate)
		v := 10000 * (math.Sin(2*math.Pi*f1*t) + math.Sin(2*math.Pi*f2*t)) / 2
		out[i] = int(int16(v))
	}

	return out
}

// synthesizePairPCM renders the same tone pair as little-endian s16 PCM
// bytes, for feeding directly into Driver.Run.
func synthesizePairPCM(tone1, tone2 int, holdSecs float64, sigRate int) []byte {
	samples := synthesizePairSamples(tone1, tone2, holdSecs, sigRate)
	return samplesToPCM(samples)
}

// silencePCM renders holdSecs of all-zero samples — the gap between
// transmissions spec.md §8 scenarios 1 and 6 hold silence over.
func silencePCM(holdSecs float64, sigRate int) []byte {
	return samplesToPCM(make([]int, int(holdSecs*float64(sigRate))))
}

func samplesToPCM(samples []int) []byte {
	buf := make([]byte, 0, len(samples)*2)

	for _, v := range samples {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
		buf = append(buf, b[:]...)
	}

	return buf
}

// TestDriverEndToEndCleanSelcal feeds a synthesized AB-CD transmission
// through the full Driver pipeline and checks Method 1 fires with AB-CD.
func TestDriverEndToEndCleanSelcal(t *testing.T) {
	const sigRate = 11025

	pcm := append(
		synthesizePairPCM(0, 1, 2.0, sigRate),
		synthesizePairPCM(2, 3, 2.0, sigRate)...,
	)

	sink := &recordingSink{}
	driver, err := NewDriver(sigRate, 123450000, sink, 4, 4.5)
	require.NoError(t, err)

	var outputs []DecoderOutput
	err = driver.Run(bytes.NewReader(pcm), func(_ TonesRecord, out DecoderOutput) {
		outputs = append(outputs, out)
	})
	require.NoError(t, err)

	require.Contains(t, sink.codes, "AB-CD")

	found := false
	for _, out := range outputs {
		if out.IsActive && out.Selcal == "AB-CD" {
			found = true
		}
	}
	require.True(t, found)
}

// TestDriverEndToEndReversedSelcal checks a CD-AB transmission decodes to
// CD-AB, not AB-CD — order matters.
func TestDriverEndToEndReversedSelcal(t *testing.T) {
	const sigRate = 11025

	pcm := append(
		synthesizePairPCM(2, 3, 2.0, sigRate),
		synthesizePairPCM(0, 1, 2.0, sigRate)...,
	)

	sink := &recordingSink{}
	driver, err := NewDriver(sigRate, 0, sink, 4, 4.5)
	require.NoError(t, err)

	require.NoError(t, driver.Run(bytes.NewReader(pcm), nil))

	require.Contains(t, sink.codes, "CD-AB")
	require.NotContains(t, sink.codes, "AB-CD")
}

// TestDriverEndToEndSingleToneNoSelcal checks a single held tone pair with
// no second pair never reaches an active decode (a SELCAL transmission
// needs two distinct groups).
func TestDriverEndToEndSingleToneNoSelcal(t *testing.T) {
	const sigRate = 11025

	pcm := synthesizePairPCM(0, 1, 4.0, sigRate)

	sink := &recordingSink{}
	driver, err := NewDriver(sigRate, 0, sink, 4, 4.5)
	require.NoError(t, err)

	require.NoError(t, driver.Run(bytes.NewReader(pcm), nil))

	require.Empty(t, sink.codes)
}

// TestDriverEndToEnd48kHzBoundary checks the 48000Hz rate profile (the one
// with a different working rate and frame length from the rest) runs the
// full pipeline without error and still detects a transmission.
func TestDriverEndToEnd48kHzBoundary(t *testing.T) {
	const sigRate = 48000

	pcm := append(
		synthesizePairPCM(0, 1, 2.0, sigRate),
		synthesizePairPCM(2, 3, 2.0, sigRate)...,
	)

	sink := &recordingSink{}
	driver, err := NewDriver(sigRate, 0, sink, 4, 4.5)
	require.NoError(t, err)

	require.NoError(t, driver.Run(bytes.NewReader(pcm), nil))
	require.Contains(t, sink.codes, "AB-CD")
}

// TestDriverEndToEndFallingEdgeAcrossSilence checks a full AB-CD
// transmission, a long silence gap, and a second distinct EF-GH
// transmission both fire their own rising edge: the falling edge during
// the silence gap must reset Method 1's counters rather than latching the
// first code forever, and the silent frames themselves must not panic
// (the negative-tone-index no-detection case).
func TestDriverEndToEndFallingEdgeAcrossSilence(t *testing.T) {
	const sigRate = 11025

	pcm := bytes.Join([][]byte{
		synthesizePairPCM(0, 1, 2.0, sigRate),
		synthesizePairPCM(2, 3, 2.0, sigRate),
		silencePCM(4.0, sigRate),
		synthesizePairPCM(4, 5, 2.0, sigRate),
		synthesizePairPCM(6, 7, 2.0, sigRate),
	}, nil)

	sink := &recordingSink{}
	driver, err := NewDriver(sigRate, 0, sink, 4, 4.5)
	require.NoError(t, err)

	require.NoError(t, driver.Run(bytes.NewReader(pcm), nil))

	require.Contains(t, sink.codes, "AB-CD")
	require.Contains(t, sink.codes, "EF-GH")

	count := 0
	for i, c := range sink.codes {
		if c == "AB-CD" && sink.tags[i] == tagByMaxTone {
			count++
		}
	}
	require.Equal(t, 1, count, "the first code should not re-fire once the silence gap resets it")
}

// TestDriverRejectsUnsupportedRate checks NewDriver surfaces
// UnsupportedRate immediately rather than during Run.
func TestDriverRejectsUnsupportedRate(t *testing.T) {
	_, err := NewDriver(8000, 0, nil, 4, 4.5)
	require.Error(t, err)

	var selErr *Error
	require.ErrorAs(t, err, &selErr)
	require.Equal(t, UnsupportedRate, selErr.Kind)
}
