package core

// TickDriver is the abstract periodic timer interface that core code uses.
// Platform-specific implementations program a hardware timer (SysTick on
// Cortex-M) or, on the host, a goroutine.
type TickDriver interface {
	// ArmTicker starts calling onTick freqHz times per second.
	// onTick runs in interrupt context on hardware and must not block.
	ArmTicker(freqHz uint32, onTick func())
}

// Global singleton used by core code.
var tickDriver TickDriver

// SetTickDriver is called by target-specific code to register its driver.
func SetTickDriver(d TickDriver) {
	tickDriver = d
}

// MustTick returns the configured driver or panics if missing.
func MustTick() TickDriver {
	if tickDriver == nil {
		panic("tick driver not configured")
	}
	return tickDriver
}
