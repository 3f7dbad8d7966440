package core

import (
	"math"
	"sync/atomic"
)

// TickFrequencyHz is the rate of the system tick used for delays.
const TickFrequencyHz = 1000

// TickSource is a coarse monotonic tick fed by a periodic interrupt.
//
// The countdown is written from two contexts: OnTick decrements it from the
// timer interrupt and Delay stores into it from the caller. Both go through
// atomics, so no interrupt masking is needed.
type TickSource struct {
	countdown atomic.Uint32
	total     atomic.Uint32
	freqHz    uint32
}

// NewTickSource creates an unarmed tick source.
func NewTickSource() *TickSource {
	return &TickSource{freqHz: TickFrequencyHz}
}

// Arm registers OnTick as the periodic callback of d.
// A zero freqHz selects TickFrequencyHz.
func (t *TickSource) Arm(d TickDriver, freqHz uint32) {
	if freqHz == 0 {
		freqHz = TickFrequencyHz
	}
	t.freqHz = freqHz
	d.ArmTicker(freqHz, t.OnTick)
}

// FrequencyHz returns the rate the source was armed with.
func (t *TickSource) FrequencyHz() uint32 {
	return t.freqHz
}

// OnTick is called once per tick interval.
// It advances the monotonic total and decrements the countdown, stopping at zero.
func (t *TickSource) OnTick() {
	t.total.Add(1)
	for {
		cur := t.countdown.Load()
		if cur == 0 {
			return
		}
		if t.countdown.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Delay blocks the caller until ticks tick events have been delivered.
// There is no timeout: if the tick source stops firing, Delay never returns.
func (t *TickSource) Delay(ticks uint32) {
	t.countdown.Store(ticks)
	for t.countdown.Load() != 0 {
		relax()
	}
}

// Remaining returns the current countdown value.
func (t *TickSource) Remaining() uint32 {
	return t.countdown.Load()
}

// Now returns the number of ticks delivered since boot. It wraps at 2^32.
func (t *TickSource) Now() uint32 {
	return t.total.Load()
}

// Expired reports whether timeout ticks have passed since start.
// The subtraction keeps the check correct across wraparound.
func (t *TickSource) Expired(start, timeout uint32) bool {
	return t.Now()-start >= timeout
}

// MillisToTicks converts milliseconds to ticks at freqHz, rounding up so a
// non-zero duration never becomes a zero-tick delay. Durations too long for
// a uint32 saturate.
func MillisToTicks(ms, freqHz uint32) uint32 {
	if ms == 0 {
		return 0
	}
	ticks := (uint64(ms)*uint64(freqHz) + 999) / 1000
	if ticks == 0 {
		return 1
	}
	if ticks > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ticks)
}
