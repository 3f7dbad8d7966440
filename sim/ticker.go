package sim

import (
	"sync"
	"time"

	"blinky/core"
)

// Ticker implements core.TickDriver with a goroutine driven by time.Ticker.
type Ticker struct {
	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// ArmTicker starts calling onTick freqHz times per second. Arming again
// replaces the previous callback.
func (t *Ticker) ArmTicker(freqHz uint32, onTick func()) {
	t.Stop()

	if freqHz == 0 {
		freqHz = core.TickFrequencyHz
	}
	period := time.Second / time.Duration(freqHz)
	if period <= 0 {
		period = time.Nanosecond
	}

	t.mu.Lock()
	done := make(chan struct{})
	t.done = done
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		tk := time.NewTicker(period)
		defer tk.Stop()
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				onTick()
			}
		}
	}()
}

// Stop halts the tick goroutine. A Delay in progress will then never return.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	t.mu.Unlock()
	t.wg.Wait()
}

// ManualTicker implements core.TickDriver for tests; ticks are delivered
// only by Fire.
type ManualTicker struct {
	mu     sync.Mutex
	freqHz uint32
	onTick func()
}

func (m *ManualTicker) ArmTicker(freqHz uint32, onTick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.freqHz = freqHz
	m.onTick = onTick
}

// FrequencyHz returns the armed frequency.
func (m *ManualTicker) FrequencyHz() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freqHz
}

// Fire delivers n ticks.
func (m *ManualTicker) Fire(n int) {
	m.mu.Lock()
	onTick := m.onTick
	m.mu.Unlock()
	if onTick == nil {
		return
	}
	for i := 0; i < n; i++ {
		onTick()
	}
}
