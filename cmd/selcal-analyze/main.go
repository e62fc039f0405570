package main

/*------------------------------------------------------------------
 *
 * Purpose:	Offline SELCAL analyzer: run the full DSP path over a WAV
 *		file in one pass and print a per-frame TonesRecord dump.
 *
 * Grounded on: original_source/selcald/receiver.py.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
	"github.com/spf13/pflag"
	"github.com/vk4tmz/selcald/selcal"
)

func main() {
	surfaceOut := pflag.String("surface-out", "", "Optional path to dump the log-correlation surface matrix as CSV.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: selcal-analyze [flags] <file.wav>\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help || pflag.NArg() != 1 {
		pflag.Usage()
		if !*help {
			os.Exit(1)
		}

		return
	}

	if err := run(pflag.Arg(0), *surfaceOut); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, surfaceOutPath string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)

	result, err := selcal.AnalyzeWAV(decoder)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", path, err)
	}

	for i, trec := range result.Records {
		fmt.Printf("%06d: gtc=%s max1=%d max2=%d avg=%.2f max=%.2f\n",
			i, trec.GTC, trec.Max1Idx, trec.Max2Idx, trec.Avg, trec.Max)
	}

	if surfaceOutPath != "" {
		return writeSurfaceCSV(surfaceOutPath, result)
	}

	return nil
}

// writeSurfaceCSV dumps the [tone][frame] log-correlation matrix, the
// surface-data contract spec.md §4.H hands off to an external 3D plot.
func writeSurfaceCSV(path string, result selcal.OfflineResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	for tone := 0; tone < selcal.NumTones; tone++ {
		for frame, v := range result.Surface[tone] {
			if frame > 0 {
				fmt.Fprint(f, ",")
			}

			fmt.Fprintf(f, "%.4f", v)
		}

		fmt.Fprintln(f)
	}

	return nil
}
