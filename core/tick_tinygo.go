//go:build tinygo

package core

// relax is a bare spin on hardware; the countdown is advanced by the
// SysTick interrupt, not by another goroutine.
func relax() {
}
