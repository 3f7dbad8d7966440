package core

import (
	"blinky/bootrecord"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"
)

// DefaultEEPROMAddress is the address of a 24Cxx EEPROM with A0-A2 tied low.
const DefaultEEPROMAddress = 0x50

// BootCounter keeps a boot count in a 24Cxx EEPROM.
type BootCounter struct {
	dev    at24cx.Device
	Offset uint16 // EEPROM location of the record
}

// NewBootCounter creates a counter for the EEPROM at addr on bus.
// The bus is not touched until Increment.
func NewBootCounter(bus drivers.I2C, addr uint16) *BootCounter {
	dev := at24cx.New(bus)
	dev.Address = addr
	dev.Configure(at24cx.Config{})
	return &BootCounter{dev: dev}
}

// Increment reads the stored count, adds one, and writes it back.
// A blank or corrupt record restarts the count, so the first boot returns 1.
func (c *BootCounter) Increment() (uint32, error) {
	var buf [bootrecord.Size]byte
	if _, err := c.dev.ReadAt(buf[:], int64(c.Offset)); err != nil {
		return 0, err
	}

	count, err := bootrecord.Decode(buf[:])
	if err != nil {
		DebugPrintln("boot record invalid, resetting: " + err.Error())
		count = 0
	}
	count++

	rec := bootrecord.Encode(count)
	if _, err := c.dev.WriteAt(rec[:], int64(c.Offset)); err != nil {
		return 0, err
	}

	DebugPrintln("Boot " + utoa(count))
	return count, nil
}
