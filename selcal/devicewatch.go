package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Block startup until a named audio capture device appears on
 *		the bus, for the common case of starting the monitor before
 *		a USB sound card or radio interface has enumerated.
 *
 * Grounded on: no teacher analogue; wires the otherwise-idle
 *		jochenvg/go-udev requirement against this ambient concern.
 *
 *----------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// WaitForDevice returns once a device in subsystem whose sysname or
// ID_SERIAL property equals match is present or reported by udev (an empty
// match accepts any device), or when ctx is cancelled.
func WaitForDevice(ctx context.Context, subsystem, match string) error {
	u := udev.Udev{}

	existing := u.NewEnumerate()
	existing.AddMatchSubsystem(subsystem)

	devices, err := existing.Devices()
	if err != nil {
		return fmt.Errorf("enumerating %s devices: %w", subsystem, err)
	}

	for _, d := range devices {
		if deviceMatches(d, match) {
			return nil
		}
	}

	monitor := u.NewMonitorFromNetlink("udev")
	monitor.FilterAddMatchSubsystem(subsystem)

	ch, done, err := monitor.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("watching %s devices: %w", subsystem, err)
	}
	defer done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-ch:
			if d != nil && deviceMatches(d, match) {
				return nil
			}
		}
	}
}

func deviceMatches(d *udev.Device, match string) bool {
	if match == "" {
		return true
	}

	name := d.Sysname()

	return name == match || d.PropertyValue("ID_SERIAL") == match
}
