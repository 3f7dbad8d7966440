package core

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// I2CDirection is the R/W bit sent with the address.
type I2CDirection uint8

const (
	I2CWrite I2CDirection = 0
	I2CRead  I2CDirection = 1
)

func (d I2CDirection) String() string {
	if d == I2CRead {
		return "R"
	}
	return "W"
}

// MaxI2CAddress is the largest 7-bit address.
const MaxI2CAddress = 0x7F

// I2CBus is the set of bus primitives the transfer sequencer is built on.
// Each call blocks until its single bus step has completed or failed.
type I2CBus interface {
	// Start generates a start condition, or a repeated start when the bus
	// is already owned.
	Start() error

	// SendAddress transmits the 7-bit address with the direction bit and
	// waits for the device to acknowledge.
	SendAddress(addr I2CAddress, dir I2CDirection) error

	// SendByte transmits one data byte and waits for it to complete.
	SendByte(b byte) error

	// ReceiveByte reads one data byte. ack is false for the last byte of a
	// read so the device releases SDA before the stop condition.
	ReceiveByte(ack bool) (byte, error)

	// Stop generates a stop condition and releases the bus.
	Stop() error
}

// Global singleton used by core code.
var i2cBus I2CBus

// SetI2CBus is called by target-specific code to register its bus.
func SetI2CBus(b I2CBus) {
	i2cBus = b
}

// MustI2C returns the configured bus or panics if missing.
func MustI2C() I2CBus {
	if i2cBus == nil {
		panic("I2C bus not configured")
	}
	return i2cBus
}
