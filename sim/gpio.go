package sim

import (
	"fmt"
	"sync"

	"blinky/core"
)

// GPIO implements core.GPIODriver by remembering pin levels.
type GPIO struct {
	mu          sync.Mutex
	outputs     map[core.GPIOPin]bool
	levels      map[core.GPIOPin]bool
	transitions map[core.GPIOPin]int

	// OnChange, when set, is called for every write that changes a level.
	OnChange func(pin core.GPIOPin, level bool)
}

// NewGPIO creates a GPIO bank with every pin unconfigured and low.
func NewGPIO() *GPIO {
	return &GPIO{
		outputs:     make(map[core.GPIOPin]bool),
		levels:      make(map[core.GPIOPin]bool),
		transitions: make(map[core.GPIOPin]int),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = true
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	if !g.outputs[pin] {
		g.mu.Unlock()
		return errPinNotOutput(pin)
	}
	changed := g.levels[pin] != value
	g.levels[pin] = value
	if changed {
		g.transitions[pin]++
	}
	onChange := g.OnChange
	g.mu.Unlock()

	if changed && onChange != nil {
		onChange(pin, value)
	}
	return nil
}

// Level returns the last level written to pin.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin]
}

// Transitions returns how many times pin changed level.
func (g *GPIO) Transitions(pin core.GPIOPin) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transitions[pin]
}

type errPinNotOutput core.GPIOPin

func (e errPinNotOutput) Error() string {
	return fmt.Sprintf("sim: pin %d is not configured as output", uint32(e))
}
