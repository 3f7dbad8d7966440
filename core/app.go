package core

// App is the firmware application: count the boot in EEPROM, then blink.
type App struct {
	Blinker *Blinker
	Boot    *BootCounter // nil when the board has no EEPROM

	BootCount uint32
}

// Setup turns the LED off and records the boot. An EEPROM failure is
// reported through the debug writer and returned, but the LED is already
// usable, so callers may keep going.
func (a *App) Setup() error {
	if err := a.Blinker.Init(); err != nil {
		return err
	}
	if a.Boot == nil {
		return nil
	}
	count, err := a.Boot.Increment()
	if err != nil {
		DebugPrintln("boot count failed: " + err.Error())
		return err
	}
	a.BootCount = count
	return nil
}

// RunCycles blinks n times, or forever when n is zero.
func (a *App) RunCycles(n uint32) error {
	if n == 0 {
		return a.Blinker.Run()
	}
	for i := uint32(0); i < n; i++ {
		if err := a.Blinker.Cycle(); err != nil {
			return err
		}
	}
	return nil
}
