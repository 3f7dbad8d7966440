// Package sim provides host-side stand-ins for the firmware HAL: an I2C
// bus with simulated devices, GPIO, and a tick timer.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"blinky/core"
)

// ErrNotAddressed is returned for data phases issued before an address
// phase succeeded.
var ErrNotAddressed = errors.New("sim: no device addressed")

// OpKind identifies a bus primitive.
type OpKind uint8

const (
	OpStart OpKind = iota + 1
	OpAddress
	OpSend
	OpRecv
	OpStop
)

// Op is one primitive as seen on the simulated bus.
type Op struct {
	Kind  OpKind
	Addr  core.I2CAddress
	Dir   core.I2CDirection
	Value byte // byte sent or received
	Ack   bool // for OpRecv, whether the master acknowledged
}

func (o Op) String() string {
	switch o.Kind {
	case OpStart:
		return "START"
	case OpAddress:
		return fmt.Sprintf("ADDR(0x%02x,%s)", uint8(o.Addr), o.Dir)
	case OpSend:
		return fmt.Sprintf("SEND(0x%02x)", o.Value)
	case OpRecv:
		return fmt.Sprintf("RECV(0x%02x)", o.Value)
	case OpStop:
		return "STOP"
	}
	return "UNKNOWN"
}

// Device is a simulated I2C target.
type Device interface {
	// Start is called when the device is addressed after a (repeated) start.
	Start(dir core.I2CDirection)
	// Write receives a byte from the master and reports whether it was acknowledged.
	Write(b byte) bool
	// Read returns the next byte for the master.
	Read() byte
	// Stop is called at the stop condition ending the device's transfer.
	Stop()
}

// Staller is implemented by devices that hold the bus instead of answering.
type Staller interface {
	Stalled() bool
}

// Bus implements core.I2CBus over a set of simulated devices and records
// every primitive.
type Bus struct {
	mu      sync.Mutex
	devices map[core.I2CAddress]Device
	ops     []Op
	active  Device
	dir     core.I2CDirection

	// OnOp, when set, is called after each primitive is recorded.
	OnOp func(Op)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{devices: make(map[core.I2CAddress]Device)}
}

// Attach places dev at addr, replacing any device already there.
func (b *Bus) Attach(addr core.I2CAddress, dev Device) error {
	if addr > core.MaxI2CAddress {
		return core.ErrAddressRange
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devices[addr] = dev
	return nil
}

// Detach removes the device at addr.
func (b *Bus) Detach(addr core.I2CAddress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.devices, addr)
}

func (b *Bus) record(op Op) {
	b.ops = append(b.ops, op)
	if b.OnOp != nil {
		b.OnOp(op)
	}
}

func (b *Bus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Op{Kind: OpStart})
	b.active = nil
	return nil
}

func (b *Bus) SendAddress(addr core.I2CAddress, dir core.I2CDirection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Op{Kind: OpAddress, Addr: addr, Dir: dir})

	dev, ok := b.devices[addr]
	if !ok {
		return core.ErrNACK
	}
	if s, ok := dev.(Staller); ok && s.Stalled() {
		return core.ErrTimeout
	}
	b.active = dev
	b.dir = dir
	dev.Start(dir)
	return nil
}

func (b *Bus) SendByte(v byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Op{Kind: OpSend, Value: v})

	if b.active == nil || b.dir != core.I2CWrite {
		return ErrNotAddressed
	}
	if !b.active.Write(v) {
		return core.ErrNACK
	}
	return nil
}

func (b *Bus) ReceiveByte(ack bool) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active == nil || b.dir != core.I2CRead {
		b.record(Op{Kind: OpRecv, Value: 0xFF, Ack: ack})
		return 0xFF, ErrNotAddressed
	}
	v := b.active.Read()
	b.record(Op{Kind: OpRecv, Value: v, Ack: ack})
	return v, nil
}

func (b *Bus) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Op{Kind: OpStop})
	if b.active != nil {
		b.active.Stop()
		b.active = nil
	}
	return nil
}

// Ops returns a copy of the recorded primitives.
func (b *Bus) Ops() []Op {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Op(nil), b.ops...)
}

// Trace returns the recorded primitives in their string form.
func (b *Bus) Trace() []string {
	ops := b.Ops()
	trace := make([]string, len(ops))
	for i, op := range ops {
		trace[i] = op.String()
	}
	return trace
}

// Reset clears the recorded primitives.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = nil
}

// Hang is a device that stalls the bus on every transfer.
type Hang struct{}

func (Hang) Start(core.I2CDirection) {}
func (Hang) Write(byte) bool { return false }
func (Hang) Read() byte { return 0xFF }
func (Hang) Stop() {}
func (Hang) Stalled() bool { return true }
