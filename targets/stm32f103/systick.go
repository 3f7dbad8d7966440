//go:build stm32f103

package main

import (
	"device/arm"
	"machine"
)

// sysTickHandler is the tick callback run from SysTick_Handler.
var sysTickHandler func()

// SysTickDriver implements core.TickDriver on the Cortex-M SysTick timer.
type SysTickDriver struct{}

// NewSysTickDriver constructs the driver
func NewSysTickDriver() *SysTickDriver {
	return &SysTickDriver{}
}

// ArmTicker programs SysTick to interrupt freqHz times per second from the
// core clock.
func (d *SysTickDriver) ArmTicker(freqHz uint32, onTick func()) {
	sysTickHandler = onTick
	if err := arm.SetupSystemTimer(machine.CPUFrequency() / freqHz); err != nil {
		// The reload value only overflows for frequencies far below 1 Hz
		// at 72 MHz; this is a wiring error, not a runtime condition.
		panic("systick: " + err.Error())
	}
}

//export SysTick_Handler
func handleSysTick() {
	if h := sysTickHandler; h != nil {
		h()
	}
}
