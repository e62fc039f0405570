package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Pulse a GPIO line for 250ms on every rising-edge SELCAL
 *		detection, for panel-mount hardware that wants a physical
 *		lamp or relay rather than (or in addition to) the log file.
 *
 * Grounded on: no teacher analogue; wires the otherwise-idle
 *		warthog618/go-gpiocdev requirement against this ambient
 *		concern.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const indicatorPulse = 250 * time.Millisecond

// Indicator drives one GPIO output line high for indicatorPulse whenever
// it observes a SELCAL detection. mu serializes Pulse calls against each
// other and against Close, since WriteEvent fires them off in their own
// goroutine rather than on the decode path.
type Indicator struct {
	line *gpiocdev.Line
	mu   sync.Mutex
}

// OpenIndicator requests chip/line as an output, initially low.
func OpenIndicator(chip string, line int) (*Indicator, error) {
	l, err := gpiocdev.RequestLine(chip, line, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, newError(IndicatorFailed, "requesting %s line %d: %v", chip, line, err)
	}

	return &Indicator{line: l}, nil
}

// Pulse drives the line high, then low again after indicatorPulse,
// blocking for the duration of the pulse. Non-fatal by design (spec.md
// §7): a failure here never affects decoding.
func (i *Indicator) Pulse() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.line.SetValue(1); err != nil {
		return newError(IndicatorFailed, "set line high: %v", err)
	}

	time.Sleep(indicatorPulse)

	if err := i.line.SetValue(0); err != nil {
		return newError(IndicatorFailed, "set line low: %v", err)
	}

	return nil
}

// Close releases the GPIO line.
func (i *Indicator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.line.Close(); err != nil {
		return fmt.Errorf("closing gpio line: %w", err)
	}

	return nil
}

// WriteEvent implements EventSink, so an Indicator can be composed
// alongside (or instead of) a FileEventSink via MultiEventSink. freqHz,
// code and tag are ignored — the indicator only cares that a detection
// happened. Pulse runs in its own goroutine and the call returns
// immediately: SPEC_FULL §5 requires GPIO pulses to be fire-and-forget so
// a slow chip can never stall the decode path that calls WriteEvent.
func (i *Indicator) WriteEvent(_ int, _, _ string) error {
	go func() {
		_ = i.Pulse()
	}()

	return nil
}

// MultiEventSink fans one event out to several sinks (e.g. the log file
// and the GPIO indicator), continuing past individual sink failures since
// no sink failure is fatal per spec.md §7.
type MultiEventSink []EventSink

// WriteEvent calls every sink, returning the first error encountered (if
// any) after all sinks have been tried.
func (m MultiEventSink) WriteEvent(freqHz int, code, tag string) error {
	var firstErr error

	for _, sink := range m {
		if err := sink.WriteEvent(freqHz, code, tag); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
