//go:build rp2040

package main

import (
	"device/arm"
	"machine"
)

// sysTickHandler is the tick callback run from SysTick_Handler.
var sysTickHandler func()

// SysTickDriver implements core.TickDriver on the Cortex-M0+ SysTick timer.
// TinyGo keeps its own time on the RP2040 TIMER alarm, so SysTick is free.
type SysTickDriver struct{}

// NewSysTickDriver constructs the driver
func NewSysTickDriver() *SysTickDriver {
	return &SysTickDriver{}
}

// ArmTicker programs SysTick from the 125 MHz system clock.
func (d *SysTickDriver) ArmTicker(freqHz uint32, onTick func()) {
	sysTickHandler = onTick
	if err := arm.SetupSystemTimer(machine.CPUFrequency() / freqHz); err != nil {
		panic("systick: " + err.Error())
	}
}

//export SysTick_Handler
func handleSysTick() {
	if h := sysTickHandler; h != nil {
		h()
	}
}
