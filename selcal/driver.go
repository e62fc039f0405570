package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Pull raw PCM from an input stream, decimate, band-pass,
 *		slice into frames, and feed each frame through the Frame
 *		Analyzer and Sliding Decoder in order.
 *
 * Grounded on: original_source/selcald/selcal_monitor.py monitor_stream
 *		and read_s16le.
 *
 *----------------------------------------------------------------*/

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// Driver owns one stream's DSP pipeline: rate profile, filter, templates,
// and decoder state, wired together in spec.md §4.G's order.
type Driver struct {
	Profile  RateProfile
	Filter   BandpassFilter
	Template ToneTemplate
	Decoder  *DecoderState

	MinGroupCount int
	MinToneScore  float64

	Logger *log.Logger
}

// NewDriver builds a Driver for inputRate, logging decode events to sink
// (which may be nil) at freqHz, with the given Method 1/2 thresholds.
func NewDriver(inputRate, freqHz int, sink EventSink, minGroupCount int, minToneScore float64) (*Driver, error) {
	profile, err := LookupRateProfile(inputRate)
	if err != nil {
		return nil, err
	}

	return &Driver{
		Profile:       profile,
		Filter:        DesignBandpass(profile.SigRate, 270, 1700),
		Template:      GenerateToneTemplate(profile.FrameLen, profile.SigRate),
		Decoder:       NewDecoderState(freqHz, sink),
		MinGroupCount: minGroupCount,
		MinToneScore:  minToneScore,
	}, nil
}

// Run reads PCM chunks from r until EOF, processing each through the full
// pipeline and invoking onFrame (if non-nil) with every TonesRecord and its
// decoder output, in frame order.
func (d *Driver) Run(r io.Reader, onFrame func(TonesRecord, DecoderOutput)) error {
	chunkBytes := d.Profile.InputRate * 2
	buf := make([]byte, chunkBytes)

	for {
		n, err := io.ReadFull(r, buf)
		if n == 0 {
			if errors.Is(err, io.EOF) {
				return nil
			}

			if err != nil {
				return err
			}
		}

		samples, truncated := decodeS16LE(buf[:n])
		if truncated && d.Logger != nil {
			d.Logger.Warn("trailing odd byte in PCM chunk discarded")
		}

		d.processChunk(samples, onFrame)

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

// processChunk decimates, band-passes, and frames one chunk of samples,
// feeding every complete frame through the analyzer and decoder.
func (d *Driver) processChunk(samples []int16, onFrame func(TonesRecord, DecoderOutput)) {
	decimated := decimate(samples, d.Profile.Decimate)

	floats := make([]float64, len(decimated))
	for i, s := range decimated {
		floats[i] = float64(s)
	}

	filtered := d.Filter.Apply(floats)

	frameLen := d.Profile.FrameLen
	numFrames := len(filtered) / frameLen

	for i := 0; i < numFrames; i++ {
		frame := filtered[i*frameLen : (i+1)*frameLen]

		trec, err := AnalyzeFrame(frame, d.Template)
		if err != nil {
			if d.Logger != nil {
				d.Logger.Warn("skipping degenerate frame", "err", err)
			}

			continue
		}

		out := d.Decoder.Track(trec, d.Profile.FrameRate, d.MinGroupCount, d.MinToneScore)

		if onFrame != nil {
			onFrame(trec, out)
		}
	}
}

// decodeS16LE decodes little-endian signed 16-bit samples from buf. A
// trailing odd byte (per spec.md §4.G/§7 BadPcmChunk) is discarded and
// reported via the truncated return value.
func decodeS16LE(buf []byte) (samples []int16, truncated bool) {
	n := len(buf) / 2
	samples = make([]int16, n)

	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
	}

	return samples, len(buf)%2 != 0
}

// decimate keeps every factor-th sample. factor=1 returns samples as-is.
func decimate(samples []int16, factor int) []int16 {
	if factor <= 1 {
		return samples
	}

	out := make([]int16, 0, len(samples)/factor+1)
	for i := 0; i < len(samples); i += factor {
		out = append(out, samples[i])
	}

	return out
}
