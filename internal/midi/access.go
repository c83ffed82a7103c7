package midi

import (
	"fmt"
	"log/slog"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Device is a MIDI input port.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ControlChange is a decoded control-change message.
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// Access is the host MIDI transport.
type Access interface {
	// Inputs lists the input ports currently present.
	Inputs() ([]Device, error)
	// Listen delivers control changes from the input id to fn until stop is called.
	Listen(id string, fn func(ControlChange)) (stop func(), err error)
	Close() error
}

// Opener requests MIDI access from the host.
type Opener func() (Access, error)

type driverAccess struct {
	drv      *rtmididrv.Driver
	excluded []string
	logger   *slog.Logger
}

// DriverOpener returns an Opener backed by the rtmidi driver. Ports whose name
// contains any of excluded, ignoring case, are never listed.
func DriverOpener(excluded []string, logger *slog.Logger) Opener {
	return func() (Access, error) {
		drv, err := rtmididrv.New()
		if err != nil {
			return nil, fmt.Errorf("rtmididrv: %w", err)
		}
		return &driverAccess{
			drv:      drv,
			excluded: excluded,
			logger:   logger.With("system", "midi", "driver", drv.String()),
		}, nil
	}
}

// Inputs uses port names as ids; port numbers shift when devices come and go.
func (a *driverAccess) Inputs() ([]Device, error) {
	ins, err := a.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}

	devices := make([]Device, 0, len(ins))
	for _, in := range ins {
		name := in.String()
		if a.isExcluded(name) {
			a.logger.Debug("input excluded", "device", name)
			continue
		}
		devices = append(devices, Device{ID: name, Name: name})
	}
	return devices, nil
}

func (a *driverAccess) Listen(id string, fn func(ControlChange)) (func(), error) {
	in, err := a.find(id)
	if err != nil {
		return nil, err
	}
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", id, err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		var cc ControlChange
		if msg.GetControlChange(&cc.Channel, &cc.Controller, &cc.Value) {
			fn(cc)
		}
	}, gomidi.HandleError(func(listenErr error) {
		a.logger.Warn("listener error", "device", id, "error", listenErr)
	}))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("listen %q: %w", id, err)
	}

	return func() {
		stop()
		_ = in.Close()
	}, nil
}

func (a *driverAccess) Close() error {
	return a.drv.Close()
}

func (a *driverAccess) find(id string) (drivers.In, error) {
	ins, err := a.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	for _, in := range ins {
		if in.String() == id {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
}

func (a *driverAccess) isExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range a.excluded {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
