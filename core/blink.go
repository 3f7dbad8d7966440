// LED blink loop driven by the tick source
package core

// Blinker toggles an LED with a fixed half period and counts full cycles.
type Blinker struct {
	Pin        GPIOPin
	HalfPeriod uint32 // Ticks the LED stays on, then off
	ActiveLow  bool   // LED lights when the pin is driven low

	ticks   *TickSource
	gpio    GPIODriver
	seconds uint32
}

// NewBlinker creates a blinker for pin with a half-second half period,
// assuming an active-low LED.
func NewBlinker(ticks *TickSource, gpio GPIODriver, pin GPIOPin) *Blinker {
	return &Blinker{
		Pin:        pin,
		HalfPeriod: ticks.FrequencyHz() / 2,
		ActiveLow:  true,
		ticks:      ticks,
		gpio:       gpio,
	}
}

// Init configures the pin as an output and turns the LED off.
func (b *Blinker) Init() error {
	if err := b.gpio.ConfigureOutput(b.Pin); err != nil {
		return err
	}
	return b.set(false)
}

// Cycle turns the LED on, waits, turns it off, waits, and counts the cycle.
func (b *Blinker) Cycle() error {
	if err := b.set(true); err != nil {
		return err
	}
	b.ticks.Delay(b.HalfPeriod)

	if err := b.set(false); err != nil {
		return err
	}
	b.ticks.Delay(b.HalfPeriod)

	b.seconds++
	DebugPrintln("Second " + utoa(b.seconds))
	return nil
}

// Run cycles forever. It only returns if the GPIO driver fails.
func (b *Blinker) Run() error {
	for {
		if err := b.Cycle(); err != nil {
			return err
		}
	}
}

// Seconds returns the number of completed cycles.
func (b *Blinker) Seconds() uint32 {
	return b.seconds
}

func (b *Blinker) set(on bool) error {
	return b.gpio.SetPin(b.Pin, on != b.ActiveLow)
}
