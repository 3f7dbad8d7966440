package core

// BusEvent captures one bus primitive for post-mortem analysis
type BusEvent struct {
	Kind  uint8 // Event kind code
	Value uint8 // Address, data byte, or ack flag depending on Kind
	Err   bool  // Primitive returned an error
}

// Bus event kinds
const (
	BusEvtStart   = 1
	BusEvtAddress = 2
	BusEvtSend    = 3
	BusEvtRecv    = 4
	BusEvtStop    = 5
)

const (
	BusTraceSize = 32 // Keep last 32 primitives
)

// TraceBus wraps an I2CBus and records every primitive in a ring buffer.
// Recording never blocks and never allocates.
type TraceBus struct {
	bus  I2CBus
	ring [BusTraceSize]BusEvent
	head uint8
}

// NewTraceBus wraps bus.
func NewTraceBus(bus I2CBus) *TraceBus {
	return &TraceBus{bus: bus}
}

func (t *TraceBus) record(kind, value uint8, err error) {
	idx := t.head
	t.ring[idx] = BusEvent{Kind: kind, Value: value, Err: err != nil}
	t.head = (idx + 1) % BusTraceSize
}

func (t *TraceBus) Start() error {
	err := t.bus.Start()
	t.record(BusEvtStart, 0, err)
	return err
}

func (t *TraceBus) SendAddress(addr I2CAddress, dir I2CDirection) error {
	err := t.bus.SendAddress(addr, dir)
	t.record(BusEvtAddress, uint8(addr)<<1|uint8(dir), err)
	return err
}

func (t *TraceBus) SendByte(b byte) error {
	err := t.bus.SendByte(b)
	t.record(BusEvtSend, b, err)
	return err
}

func (t *TraceBus) ReceiveByte(ack bool) (byte, error) {
	b, err := t.bus.ReceiveByte(ack)
	t.record(BusEvtRecv, b, err)
	return b, err
}

func (t *TraceBus) Stop() error {
	err := t.bus.Stop()
	t.record(BusEvtStop, 0, err)
	return err
}

// Events returns the recorded events from oldest to newest.
func (t *TraceBus) Events() []BusEvent {
	events := make([]BusEvent, 0, BusTraceSize)
	for i := uint8(0); i < BusTraceSize; i++ {
		evt := t.ring[(t.head+i)%BusTraceSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// Clear empties the ring.
func (t *TraceBus) Clear() {
	for i := range t.ring {
		t.ring[i] = BusEvent{}
	}
	t.head = 0
}

// String renders the event in the START / ADDR(0x50,W) / SEND(0xAA) form.
func (e BusEvent) String() string {
	var s string
	switch e.Kind {
	case BusEvtStart:
		s = "START"
	case BusEvtAddress:
		s = "ADDR(" + hex8(e.Value>>1) + "," + I2CDirection(e.Value&1).String() + ")"
	case BusEvtSend:
		s = "SEND(" + hex8(e.Value) + ")"
	case BusEvtRecv:
		s = "RECV(" + hex8(e.Value) + ")"
	case BusEvtStop:
		s = "STOP"
	default:
		s = "UNKNOWN"
	}
	if e.Err {
		s += "!"
	}
	return s
}

// DumpBusTrace writes the ring through the debug writer, oldest first.
// Call it after a failed transfer.
func (t *TraceBus) DumpBusTrace() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[I2C] === Bus Trace Dump ===")
	for _, evt := range t.Events() {
		debugPrintln("[I2C] " + evt.String())
	}
	debugPrintln("[I2C] === End Dump ===")
}
