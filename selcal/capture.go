package selcal

/*------------------------------------------------------------------
 *
 * Purpose:	Live microphone/line-in capture as an alternative PCM source
 *		to a piped stdin stream, for interactive monitor use.
 *
 * Grounded on: other_examples' chriskillpack-modplayer cmd/main.go
 *		(portaudio.Initialize/OpenDefaultStream/Start usage pattern),
 *		adapted from audio output to audio input.
 *
 *----------------------------------------------------------------*/

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// CaptureSource is an io.Reader backed by a live portaudio input stream,
// so it can be handed directly to Driver.Run in place of os.Stdin.
type CaptureSource struct {
	stream *portaudio.Stream

	mu       sync.Mutex
	notEmpty *sync.Cond
	buf      bytes.Buffer
}

// OpenCaptureSource initializes portaudio and opens a mono input stream at
// sigRate samples/sec on the named device (empty string selects the
// system default input device).
func OpenCaptureSource(deviceName string, sigRate int) (*CaptureSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	cs := &CaptureSource{}
	cs.notEmpty = sync.NewCond(&cs.mu)

	var (
		stream *portaudio.Stream
		err    error
	)

	if deviceName == "" {
		stream, err = portaudio.OpenDefaultStream(1, 0, float64(sigRate), portaudio.FramesPerBufferUnspecified, cs.onInput)
	} else {
		dev, derr := findInputDevice(deviceName)
		if derr != nil {
			portaudio.Terminate()
			return nil, derr
		}

		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: 1,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      float64(sigRate),
			FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
		}
		stream, err = portaudio.OpenStream(params, cs.onInput)
	}

	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("starting capture stream: %w", err)
	}

	cs.stream = stream

	return cs, nil
}

func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing audio devices: %w", err)
	}

	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}

	return nil, fmt.Errorf("no input device named %q", name)
}

// onInput is portaudio's callback, invoked on its own audio thread per
// buffer; samples are appended to an internal queue for Read to drain.
func (cs *CaptureSource) onInput(in []int16) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, s := range in {
		_ = binary.Write(&cs.buf, binary.LittleEndian, s)
	}

	cs.notEmpty.Signal()
}

// Read blocks until at least one byte of captured audio is available,
// then drains whatever is currently buffered.
func (cs *CaptureSource) Read(p []byte) (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for cs.buf.Len() == 0 {
		cs.notEmpty.Wait()
	}

	return cs.buf.Read(p)
}

// Close stops the stream and releases portaudio.
func (cs *CaptureSource) Close() error {
	if cs.stream == nil {
		return nil
	}

	if err := cs.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}

	return portaudio.Terminate()
}
