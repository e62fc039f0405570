package main

/*------------------------------------------------------------------
 *
 * Purpose:	Synthesize a test SELCAL transmission: two tone pairs, each
 *		held for a configurable duration, for feeding into
 *		selcal-monitor or recording as a WAV fixture.
 *
 * Grounded on: cmd/gen_tone/main.go (a standalone tone-synthesis test
 *		utility) and original_source/selcald/tones.py's note().
 *
 *----------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"
	"github.com/vk4tmz/selcald/selcal"
)

func main() {
	code := pflag.StringP("code", "c", "AB-CD", "Four-letter SELCAL code, e.g. AB-CD.")
	sigRate := pflag.IntP("sig-rate", "r", 11025, "Output sample rate.")
	holdSecs := pflag.Float64P("hold", "t", 1.0, "Seconds each tone pair is held.")
	amplitude := pflag.Float64P("amplitude", "a", 10000, "Peak sample amplitude (max 32767).")
	outPath := pflag.StringP("out", "o", "", "Output WAV path; empty writes raw s16le PCM to stdout.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: selcal-gentone [flags]\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	letters1, letters2, err := parseCode(*code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	samples := synthesize(letters1, letters2, *sigRate, *holdSecs, *amplitude)

	if *outPath == "" {
		if err := writeRaw(os.Stdout, samples); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		return
	}

	if err := writeWAV(*outPath, samples, *sigRate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseCode splits "AB-CD" into the two tone-index pairs it names.
func parseCode(code string) ([2]int, [2]int, error) {
	halves := strings.SplitN(code, "-", 2)
	if len(halves) != 2 || len(halves[0]) != 2 || len(halves[1]) != 2 {
		return [2]int{}, [2]int{}, fmt.Errorf("code must look like AB-CD, got %q", code)
	}

	first, err := letterPairToIndices(halves[0])
	if err != nil {
		return [2]int{}, [2]int{}, err
	}

	second, err := letterPairToIndices(halves[1])
	if err != nil {
		return [2]int{}, [2]int{}, err
	}

	return first, second, nil
}

func letterPairToIndices(pair string) ([2]int, error) {
	var idx [2]int

	for i, c := range pair {
		found := -1

		for t, letter := range selcal.ToneLetters {
			if byte(c) == letter {
				found = t
				break
			}
		}

		if found < 0 {
			return idx, fmt.Errorf("%q is not a SELCAL alphabet letter", string(c))
		}

		idx[i] = found
	}

	return idx, nil
}

// synthesize builds the full two-pair transmission as float samples, each
// pair a sum of its two tone sinusoids at amp amplitude.
func synthesize(pair1, pair2 [2]int, sigRate int, holdSecs, amp float64) []float64 {
	n := int(holdSecs * float64(sigRate))

	out := make([]float64, 0, 2*n)
	out = append(out, synthesizePair(pair1, n, sigRate, amp)...)
	out = append(out, synthesizePair(pair2, n, sigRate, amp)...)

	return out
}

func synthesizePair(pair [2]int, n, sigRate int, amp float64) []float64 {
	samples := make([]float64, n)

	f1 := selcal.ToneFrequencies[pair[0]]
	f2 := selcal.ToneFrequencies[pair[1]]

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sigRate)
		samples[i] = amp * (math.Sin(2*math.Pi*f1*t) + math.Sin(2*math.Pi*f2*t)) / 2
	}

	return samples
}

func writeRaw(f *os.File, samples []float64) error {
	w := bufio.NewWriter(f)

	for _, s := range samples {
		if err := binary.Write(w, binary.LittleEndian, int16(s)); err != nil {
			return err
		}
	}

	return w.Flush()
}

func writeWAV(path string, samples []float64, sigRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sigRate, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sigRate},
		Data:   ints,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return enc.Close()
}
