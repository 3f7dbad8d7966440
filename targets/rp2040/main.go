//go:build rp2040

package main

import (
	"machine"

	"blinky/core"
)

// Board wiring (Raspberry Pi Pico)
const (
	ledPin        = machine.LED // GP25, active high
	sclPin        = machine.GP5
	sdaPin        = machine.GP4
	i2cFrequency  = 100 * machine.KHz
	eepromAddress = core.DefaultEEPROMAddress
)

func main() {
	// Debug output on USB CDC
	machine.Serial.Configure(machine.UARTConfig{})
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)

	ticks := core.NewTickSource()
	core.SetTickDriver(NewSysTickDriver())
	ticks.Arm(core.MustTick(), core.TickFrequencyHz)

	core.SetGPIODriver(NewRPGPIODriver())

	// The RP2040 I2C block sequences start/stop itself, so the bus
	// primitives are bit-banged on two GPIOs instead.
	trace := core.NewTraceBus(NewSoftI2CBus(sclPin, sdaPin, i2cFrequency))
	core.SetI2CBus(trace)

	blinker := core.NewBlinker(ticks, core.MustGPIO(), core.GPIOPin(ledPin))
	blinker.ActiveLow = false

	app := &core.App{
		Blinker: blinker,
		Boot:    core.NewBootCounter(core.NewTransactor(core.MustI2C()), eepromAddress),
	}
	if err := app.Setup(); err != nil {
		trace.DumpBusTrace()
	}

	for {
		if err := app.RunCycles(0); err != nil {
			core.DebugPrintln("led: " + err.Error())
		}
	}
}
