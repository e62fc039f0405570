package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Structured logging for everything outside the SELCAL event
 *		log itself — startup, configuration, and the non-fatal
 *		warnings named in spec.md §7 (BadPcmChunk, LogWriteFailed,
 *		DegenerateFrame, RigQueryFailed, IndicatorFailed).
 *
 * Description:	This is a separate concern from the Event Sink (eventlog.go):
 *		the event log is the product (a durable record of SELCAL
 *		detections), this logger is operational visibility into the
 *		process running it.
 *
 * Grounded on: the teacher's go.mod carries charmbracelet/log but no file
 *		in its snapshot actually imports it; given a genuine home
 *		here rather than dropped.
 *
 *----------------------------------------------------------------*/

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process-wide structured logger, writing to stderr
// at the given level ("debug", "info", "warn", "error").
func NewLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02-15:04:05",
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}

	logger.SetLevel(parsed)

	return logger
}
