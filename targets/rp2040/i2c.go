//go:build rp2040

package main

import (
	"machine"
	"time"

	"blinky/core"
)

// openDrainPin emulates an open-drain output on a push-pull GPIO: driving
// low makes the pin an output at 0, releasing makes it an input so the
// pull-up takes the line high.
type openDrainPin struct {
	pin machine.Pin
}

func newOpenDrainPin(pin machine.Pin) *openDrainPin {
	p := &openDrainPin{pin: pin}
	p.Release()
	return p
}

func (p *openDrainPin) Release() {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (p *openDrainPin) Low() {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pin.Low()
}

func (p *openDrainPin) Get() bool {
	return p.pin.Get()
}

// NewSoftI2CBus creates a bit-banged I2C bus on scl/sda at roughly frequencyHz.
func NewSoftI2CBus(scl, sda machine.Pin, frequencyHz uint32) *core.SoftI2C {
	// Half period in nanoseconds: 1e9 / (2 * rate)
	halfPeriod := 5 * time.Microsecond
	if frequencyHz > 0 {
		halfPeriod = time.Duration(500000000/frequencyHz) * time.Nanosecond
	}
	return core.NewSoftI2C(newOpenDrainPin(scl), newOpenDrainPin(sda), func() {
		busyWait(halfPeriod)
	})
}

// busyWait spins for d without yielding to the scheduler
func busyWait(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
