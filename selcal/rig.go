package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Poll the transceiver for its current VFO frequency via
 *		Hamlib, so the monitor can log an accurate frequency instead
 *		of relying on a fixed --freq-hz value the operator might
 *		forget to update after a channel change.
 *
 * Description:	Purely advisory: a query failure never stops decoding, it
 *		just means the last known frequency (or the configured
 *		default) keeps being used.
 *
 * Grounded on: no teacher analogue; wires the otherwise-idle
 *		xylo04/goHamlib requirement against this ambient concern.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/xylo04/goHamlib"
)

// RigController polls a Hamlib-supported transceiver for its VFO
// frequency. lastHz is returned whenever a poll fails.
type RigController struct {
	rig    goHamlib.Rig
	lastHz int
}

// OpenRig opens a Hamlib rig by model number on the given device path
// (e.g. "/dev/ttyUSB0"). initialHz is not sent to the rig; it is the value
// FrequencyHz reports on failure until a poll succeeds.
func OpenRig(model int, device string, initialHz int) (*RigController, error) {
	rig := goHamlib.Rig{}

	if err := rig.Init(model); err != nil {
		return nil, fmt.Errorf("hamlib init model %d: %w", model, err)
	}

	rig.SetConf("rig_pathname", device)

	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("hamlib open %s: %w", device, err)
	}

	return &RigController{rig: rig, lastHz: initialHz}, nil
}

// FrequencyHz returns the rig's current VFO frequency, or the last
// successfully read value (RigQueryFailed, non-fatal) on error.
func (r *RigController) FrequencyHz() (int, error) {
	freq, err := r.rig.GetFreq(goHamlib.VFOCurrent)
	if err != nil {
		return r.lastHz, newError(RigQueryFailed, "hamlib get_freq: %v", err)
	}

	r.lastHz = int(freq)

	return r.lastHz, nil
}

// Close releases the Hamlib rig handle.
func (r *RigController) Close() error {
	return r.rig.Close()
}
