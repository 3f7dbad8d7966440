//go:build stm32f103

package main

import (
	"errors"
	"machine"

	"blinky/core"
)

var errPinNotConfigured = errors.New("pin not configured as output")

// STM32GPIODriver implements the GPIODriver interface for STM32F103
type STM32GPIODriver struct {
	// Track configured pins
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewSTM32GPIODriver creates a new STM32F103 GPIO driver
func NewSTM32GPIODriver() *STM32GPIODriver {
	return &STM32GPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput configures a pin as a push-pull digital output
func (d *STM32GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		// Already configured, this is OK
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *STM32GPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return errPinNotConfigured
	}
	machinePin.Set(value)
	return nil
}
