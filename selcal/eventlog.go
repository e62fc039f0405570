package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Append-only SELCAL decode event log.
 *
 * Description:	One line per rising-edge detection:
 *		YYYY/MM/DD-HH:MM:SS FF.F kHz XY-ZW ~ <tag>
 *		The file is opened append-only on every write rather than
 *		held open for the life of the stream, so a log rotated or
 *		removed out from under the process is simply recreated on
 *		the next event.
 *
 * Grounded on: teacher log.go's log_write (open-for-append-per-write,
 *		create-if-missing); original_source/selcald/tones.py
 *		writeStringToFile/getTimestamp for the line format and
 *		the %Y/%m/%d-%H:%M:%S timestamp.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
)

const eventTimestampFormat = "%Y/%m/%d-%H:%M:%S"

// FileEventSink implements EventSink by appending lines to a path on disk.
type FileEventSink struct {
	Path string
}

// NewFileEventSink returns an EventSink writing to path.
func NewFileEventSink(path string) *FileEventSink {
	return &FileEventSink{Path: path}
}

// WriteEvent appends one event line. Per spec.md §7, a write failure is
// reported (LogWriteFailed) but never blocks the decode pipeline — the
// caller (DecoderState.emit) already discards this error, so failures here
// are advisory only.
func (s *FileEventSink) WriteEvent(freqHz int, code, tag string) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return newError(LogWriteFailed, "open %s: %v", s.Path, err)
	}
	defer f.Close()

	ts, err := strftime.Format(eventTimestampFormat, time.Now().UTC())
	if err != nil {
		return newError(LogWriteFailed, "format timestamp: %v", err)
	}

	line := fmt.Sprintf("%s %.1f kHz %s ~ %s\n", ts, float64(freqHz)/1000.0, code, tag)

	if _, err := f.WriteString(line); err != nil {
		return newError(LogWriteFailed, "write %s: %v", s.Path, err)
	}

	return nil
}
