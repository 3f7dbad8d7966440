package core

import "errors"

var (
	// ErrInvalidArguments is returned when a transfer has neither a
	// non-empty write buffer nor a non-empty read buffer.
	ErrInvalidArguments = errors.New("i2c: no data to write or read")

	// ErrAddressRange is returned for device addresses that do not fit in 7 bits.
	ErrAddressRange = errors.New("i2c: address out of 7-bit range")

	// ErrTimeout is returned by bus primitives whose hardware step did not
	// complete in time (stuck bus, clock held low).
	ErrTimeout = errors.New("i2c: bus timeout")

	// ErrNACK is returned when the device did not acknowledge an address
	// or data byte.
	ErrNACK = errors.New("i2c: not acknowledged")
)
