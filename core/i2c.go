// I2C transfer sequencing on top of the I2CBus primitives.
package core

import (
	"errors"
	"fmt"
	"sync"
)

// Transact performs one blocking transfer with the device at addr.
//
// When tx is non-empty the device is addressed for writing and tx is sent
// byte by byte. When rx is also non-empty a repeated start follows and the
// device is addressed for reading. When only rx is non-empty the device is
// addressed for reading directly. rx is then filled byte by byte and a stop
// condition ends the transfer. The write phase always comes first.
//
// Transact returns ErrInvalidArguments without touching the bus when both
// tx and rx are empty.
func Transact(bus I2CBus, addr I2CAddress, tx, rx []byte) error {
	if len(tx) == 0 && len(rx) == 0 {
		return ErrInvalidArguments
	}
	if addr > MaxI2CAddress {
		return ErrAddressRange
	}

	if len(tx) > 0 {
		if err := begin(bus, addr, I2CWrite); err != nil {
			return err
		}
		for i, b := range tx {
			if err := bus.SendByte(b); err != nil {
				return abort(bus, fmt.Errorf("send byte %d: %w", i, err))
			}
		}
		if len(rx) > 0 {
			if err := begin(bus, addr, I2CRead); err != nil {
				return err
			}
		}
	} else if err := begin(bus, addr, I2CRead); err != nil {
		return err
	}

	for i := range rx {
		b, err := bus.ReceiveByte(i < len(rx)-1)
		if err != nil {
			return abort(bus, fmt.Errorf("receive byte %d: %w", i, err))
		}
		rx[i] = b
	}

	if err := bus.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// begin issues a (repeated) start and the address phase.
func begin(bus I2CBus, addr I2CAddress, dir I2CDirection) error {
	if err := bus.Start(); err != nil {
		return abort(bus, fmt.Errorf("start: %w", err))
	}
	if err := bus.SendAddress(addr, dir); err != nil {
		return abort(bus, fmt.Errorf("address 0x%02x %s: %w", uint8(addr), dir, err))
	}
	return nil
}

// abort releases the bus after a failed step. The stop error is dropped;
// the step error is what the caller needs.
func abort(bus I2CBus, err error) error {
	_ = bus.Stop()
	return err
}

// Status codes reported by StatusCode.
const (
	StatusOK              = 0
	StatusInvalidArgument = -1
	StatusTimeout         = -2
	StatusNACK            = -3
	StatusBusError        = -4
)

// StatusCode maps a Transact error to a numeric status, 0 meaning success.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrAddressRange):
		return StatusInvalidArgument
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	case errors.Is(err, ErrNACK):
		return StatusNACK
	default:
		return StatusBusError
	}
}

// Transactor serializes transfers on one bus and exposes them through the
// Tx method used by tinygo.org/x/drivers device drivers.
type Transactor struct {
	mu  sync.Mutex
	bus I2CBus
}

// NewTransactor wraps bus.
func NewTransactor(bus I2CBus) *Transactor {
	return &Transactor{bus: bus}
}

// Tx writes w and then reads into r from the device at addr.
func (t *Transactor) Tx(addr uint16, w, r []byte) error {
	if addr > MaxI2CAddress {
		return ErrAddressRange
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Transact(t.bus, I2CAddress(addr), w, r)
}
