package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers/at24cx"

	"blinky/core"
)

func TestTransactConcreteTrace(t *testing.T) {
	bus := NewBus()
	eeprom := NewEEPROM(256)
	eeprom.Load(0xAABB%256, []byte{0x12, 0x34})
	require.NoError(t, bus.Attach(0x50, eeprom))

	buf := make([]byte, 2)
	err := core.Transact(bus, 0x50, []byte{0xAA, 0xBB}, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, core.StatusCode(err))

	assert.Equal(t, []string{
		"START", "ADDR(0x50,W)", "SEND(0xaa)", "SEND(0xbb)",
		"START", "ADDR(0x50,R)", "RECV(0x12)", "RECV(0x34)", "STOP",
	}, bus.Trace())
	assert.Equal(t, []byte{0x12, 0x34}, buf)

	ops := bus.Ops()
	assert.True(t, ops[6].Ack)
	assert.False(t, ops[7].Ack)
}

func TestTransactInvalidArgumentsLeavesBusIdle(t *testing.T) {
	bus := NewBus()
	err := core.Transact(bus, 0x50, nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArguments)
	assert.Equal(t, -1, core.StatusCode(err))
	assert.Empty(t, bus.Ops())
}

func TestAbsentDeviceNACKs(t *testing.T) {
	bus := NewBus()
	err := core.Transact(bus, 0x20, []byte{0x01}, nil)
	require.ErrorIs(t, err, core.ErrNACK)
	assert.Equal(t, []string{"START", "ADDR(0x20,W)", "STOP"}, bus.Trace())
}

func TestHangDeviceTimesOut(t *testing.T) {
	bus := NewBus()
	require.NoError(t, bus.Attach(0x68, Hang{}))

	err := core.Transact(bus, 0x68, nil, make([]byte, 1))
	require.ErrorIs(t, err, core.ErrTimeout)
	assert.Equal(t, core.StatusTimeout, core.StatusCode(err))
	assert.Equal(t, []string{"START", "ADDR(0x68,R)", "STOP"}, bus.Trace())
}

func TestDataWithoutAddress(t *testing.T) {
	bus := NewBus()
	assert.ErrorIs(t, bus.SendByte(0x01), ErrNotAddressed)
	_, err := bus.ReceiveByte(false)
	assert.ErrorIs(t, err, ErrNotAddressed)
}

func TestAttachRejectsWideAddress(t *testing.T) {
	bus := NewBus()
	assert.ErrorIs(t, bus.Attach(0x80, NewEEPROM(16)), core.ErrAddressRange)
}

func TestOnOpAndReset(t *testing.T) {
	bus := NewBus()
	var seen []Op
	bus.OnOp = func(op Op) { seen = append(seen, op) }

	require.NoError(t, bus.Start())
	require.NoError(t, bus.Stop())
	assert.Len(t, seen, 2)

	bus.Reset()
	assert.Empty(t, bus.Ops())
}

func TestEEPROMWithDriver(t *testing.T) {
	bus := NewBus()
	eeprom := NewEEPROM(4096)
	require.NoError(t, bus.Attach(0x50, eeprom))

	dev := at24cx.New(core.NewTransactor(bus))
	dev.Address = 0x50
	dev.Configure(at24cx.Config{})

	require.NoError(t, dev.WriteByte(0x0123, 0x5A))
	assert.Equal(t, []byte{0x5A}, eeprom.Bytes(0x0123, 1))

	v, err := dev.ReadByte(0x0123)
	require.NoError(t, err)
	assert.Equal(t, byte(0x5A), v)

	n, err := dev.WriteAt([]byte("hello"), 0x10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got := make([]byte, 5)
	_, err = dev.ReadAt(got, 0x10)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestEEPROMErased(t *testing.T) {
	e := NewEEPROM(8)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes(0, 8))
}
