package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Announce a running monitor on the local network via mDNS, so
 *		a fleet-monitoring tool can discover all SELCAL monitors on
 *		a LAN without static configuration.
 *
 * Grounded on: no teacher analogue; wires the otherwise-idle
 *		brutella/dnssd requirement against this ambient concern.
 *
 *----------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// AnnounceService publishes a "_selcal._tcp" mDNS record for this
// monitor, with freqHz and sigRate exposed as TXT metadata. It blocks
// until ctx is cancelled, so callers should run it in its own goroutine.
func AnnounceService(ctx context.Context, instanceName string, port, freqHz, sigRate int) error {
	cfg := dnssd.Config{
		Name: instanceName,
		Type: "_selcal._tcp",
		Port: port,
		Text: map[string]string{
			"freq_hz":  fmt.Sprintf("%d", freqHz),
			"sig_rate": fmt.Sprintf("%d", sigRate),
		},
	}

	service, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("building mDNS service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("starting mDNS responder: %w", err)
	}

	if _, err := responder.Add(service); err != nil {
		return fmt.Errorf("registering mDNS service: %w", err)
	}

	return responder.Respond(ctx)
}
