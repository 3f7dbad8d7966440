//go:build stm32f103

package main

import (
	"machine"

	"blinky/core"
)

// Board wiring (Blue Pill)
const (
	ledPin        = machine.PC13 // active low
	i2cFrequency  = 100 * machine.KHz
	eepromAddress = core.DefaultEEPROMAddress
	debugBaud     = 115200
)

func main() {
	// Debug output on the board UART
	machine.Serial.Configure(machine.UARTConfig{BaudRate: debugBaud})
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.DebugPrintln("Hello ARM World!")

	// 1 kHz tick from SysTick
	ticks := core.NewTickSource()
	core.SetTickDriver(NewSysTickDriver())
	ticks.Arm(core.MustTick(), core.TickFrequencyHz)

	core.SetGPIODriver(NewSTM32GPIODriver())

	app := &core.App{
		Blinker: core.NewBlinker(ticks, core.MustGPIO(), core.GPIOPin(ledPin)),
	}

	var trace *core.TraceBus
	bus, err := NewSTM32I2CBus(machine.I2C0, ticks, i2cFrequency)
	if err != nil {
		core.DebugPrintln("i2c configure failed: " + err.Error())
	} else {
		trace = core.NewTraceBus(bus)
		core.SetI2CBus(trace)
		app.Boot = core.NewBootCounter(core.NewTransactor(core.MustI2C()), eepromAddress)
	}

	if err := app.Setup(); err != nil && trace != nil {
		trace.DumpBusTrace()
	}

	// Infinite loop
	for {
		if err := app.RunCycles(0); err != nil {
			core.DebugPrintln("led: " + err.Error())
		}
	}
}
