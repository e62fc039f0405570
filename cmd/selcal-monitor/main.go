package main

/*------------------------------------------------------------------
 *
 * Purpose:	Streaming SELCAL monitor. Reads raw PCM from stdin (or a
 *		live capture device), decodes SELCAL tone pairs in real
 *		time, and appends decode events to a log file.
 *
 * Grounded on: original_source/selcald/selcal_monitor.py's
 *		processArgs/monitor_stream, flag parsing style grounded on
 *		cmd/direwolf/main.go's pflag usage.
 *
 *----------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/vk4tmz/selcald/selcal"
)

// deviceWaitTimeout bounds how long startup blocks for a named capture
// device to enumerate, per SPEC_FULL §4.L, before giving up rather than
// hanging forever on a device that never appears.
const deviceWaitTimeout = 30 * time.Second

func main() {
	// pflag shorthands are a single ASCII character, so the source CLI's
	// multi-letter short forms (-sr, -df, -mgc, -mts) are registered as
	// plain long-flag aliases sharing the same variable instead.
	var (
		freqHz        = pflag.IntP("freq-hz", "f", 0, "Frequency in Hz; logged only.")
		sigRate       = pflag.Int("sig-rate", 11025, "Input sample rate: 11025, 22050, 44100, or 48000.")
		logPath       = pflag.StringP("log", "l", "./selcal.log", "SELCAL event log path.")
		debugFmt      = pflag.String("debug_fmt", "compact", "Per-frame trace verbosity: compact, max-only, or max+avg.")
		minGroupCnt   = pflag.Int("min-group-cnt", 4, "Method 1 (by max-tone count) threshold.")
		minToneScore  = pflag.Float64("min-tone-score", 4.5, "Method 2 (by score) threshold.")
		configPath    = pflag.String("config", "", "Optional YAML config file; flags override it.")
		rigDevice     = pflag.String("rig-device", "", "Hamlib rig device path, e.g. /dev/ttyUSB0. Empty disables rig polling.")
		captureDevice = pflag.String("capture-device", "", "Live capture device name; empty reads PCM from stdin.")
		announce      = pflag.Bool("announce", false, "Announce this monitor via mDNS.")
		indicatorChip = pflag.String("indicator-chip", "", "GPIO chip for the decode indicator, e.g. /dev/gpiochip0. Empty disables it.")
		indicatorLine = pflag.Int("indicator-line", -1, "GPIO line offset for the decode indicator.")
		help          = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.IntVar(sigRate, "sr", 11025, "Alias for --sig-rate.")
	pflag.StringVar(debugFmt, "df", "compact", "Alias for --debug_fmt.")
	pflag.IntVar(minGroupCnt, "mgc", 4, "Alias for --min-group-cnt.")
	pflag.Float64Var(minToneScore, "mts", 4.5, "Alias for --min-tone-score.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: selcal-monitor [flags]\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	cfg := selcal.DefaultConfig()
	cfg.FreqHz = *freqHz
	cfg.SigRate = *sigRate
	cfg.LogPath = *logPath
	cfg.DebugFormat = *debugFmt
	cfg.MinGroupCount = *minGroupCnt
	cfg.MinToneScore = *minToneScore
	cfg.RigDevice = *rigDevice
	cfg.CaptureDevice = *captureDevice
	cfg.AnnounceService = *announce
	cfg.IndicatorGPIOChip = *indicatorChip
	cfg.IndicatorGPIOLine = *indicatorLine

	if *configPath != "" {
		var err error
		cfg, err = selcal.LoadConfigFile(*configPath, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger := selcal.NewLogger("info")

	if err := run(cfg, logger); err != nil {
		logger.Error("monitor exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg selcal.Config, logger *log.Logger) error {
	var sinks selcal.MultiEventSink
	sinks = append(sinks, selcal.NewFileEventSink(cfg.LogPath))

	if cfg.IndicatorGPIOChip != "" && cfg.IndicatorGPIOLine >= 0 {
		ind, err := selcal.OpenIndicator(cfg.IndicatorGPIOChip, cfg.IndicatorGPIOLine)
		if err != nil {
			logger.Warn("decode indicator unavailable", "err", err)
		} else {
			defer ind.Close()
			sinks = append(sinks, ind)
		}
	}

	if cfg.AnnounceService {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			if err := selcal.AnnounceService(ctx, "selcal-monitor", 0, cfg.FreqHz, cfg.SigRate); err != nil {
				logger.Warn("mDNS announcement stopped", "err", err)
			}
		}()
	}

	driver, err := selcal.NewDriver(cfg.SigRate, cfg.FreqHz, sinks, cfg.MinGroupCount, cfg.MinToneScore)
	if err != nil {
		return err
	}

	driver.Logger = selcal.NewLogger("info")

	var rig *selcal.RigController
	if cfg.RigDevice != "" {
		rig, err = selcal.OpenRig(1, cfg.RigDevice, cfg.FreqHz)
		if err != nil {
			logger.Warn("rig control unavailable, using configured frequency", "err", err)
			rig = nil
		} else {
			defer rig.Close()
		}
	}

	var source io.Reader = os.Stdin

	if cfg.CaptureDevice != "" {
		waitCtx, cancelWait := context.WithTimeout(context.Background(), deviceWaitTimeout)
		err := selcal.WaitForDevice(waitCtx, "sound", cfg.CaptureDevice)
		cancelWait()

		if err != nil {
			return fmt.Errorf("waiting for capture device %s: %w", cfg.CaptureDevice, err)
		}

		cs, err := selcal.OpenCaptureSource(cfg.CaptureDevice, cfg.SigRate)
		if err != nil {
			return fmt.Errorf("opening capture device: %w", err)
		}

		defer cs.Close()

		source = cs
	}

	return driver.Run(source, func(trec selcal.TonesRecord, out selcal.DecoderOutput) {
		if rig != nil {
			if hz, err := rig.FrequencyHz(); err != nil {
				logger.Warn("rig frequency query failed", "err", err)
			} else {
				driver.Decoder.SetFrequency(hz)
			}
		}

		printFrameTrace(cfg.DebugFormat, trec, out)
	})
}

// printFrameTrace prints one line of the optional stdout diagnostic trace
// (spec.md §6): one column per tone, then the average and the GTC. The
// dominant pair shows as "|" in compact format and as its bracketed value
// in max-only and max+avg; other above-average tones show as "+" (their
// value in max+avg); the rest show as ".". Grounded on
// original_source/selcald/tones.py's printHeader/printSymbol/printFrame.
func printFrameTrace(format string, trec selcal.TonesRecord, out selcal.DecoderOutput) {
	if format == "" {
		return
	}

	for tone := 0; tone < selcal.NumTones; tone++ {
		switch {
		case tone == trec.Max1Idx || tone == trec.Max2Idx:
			if format == "max-only" || format == "max+avg" {
				fmt.Printf("[%5.2f]", trec.Corr[tone])
			} else {
				fmt.Print(" | ")
			}
		case trec.Corr[tone] > trec.Avg:
			if format == "max+avg" {
				fmt.Printf(" %5.2f ", trec.Corr[tone])
			} else {
				fmt.Print(" + ")
			}
		default:
			fmt.Print(" . ")
		}
	}

	fmt.Printf(" %5.2f  gtc=%s", trec.Avg, trec.GTC)

	if out.IsActive {
		fmt.Printf("  SELCAL(max)=%s", out.Selcal)
	}

	if out.IsActiveBS {
		fmt.Printf("  SELCAL(score)=%s", out.SelcalBS)
	}

	fmt.Println()
}
