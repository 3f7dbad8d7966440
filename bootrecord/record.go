// Package bootrecord defines the checksummed boot counter record kept in
// the board's EEPROM.
package bootrecord

import (
	"encoding/binary"
	"errors"
)

// Size is the encoded record length in bytes.
const Size = 8

// Record layout
const (
	magic0 = 'B'
	magic1 = 'C'

	countOffset = 2
	crcOffset   = 6
)

var (
	ErrShortRecord = errors.New("bootrecord: short record")
	ErrBadMagic    = errors.New("bootrecord: bad magic")
	ErrChecksum    = errors.New("bootrecord: checksum mismatch")
)

// Encode returns the record for count.
func Encode(count uint32) [Size]byte {
	var rec [Size]byte
	rec[0] = magic0
	rec[1] = magic1
	binary.BigEndian.PutUint32(rec[countOffset:], count)
	binary.BigEndian.PutUint16(rec[crcOffset:], CRC16(rec[:crcOffset]))
	return rec
}

// Decode validates b and returns the stored count.
// A blank EEPROM (all 0xFF) fails with ErrBadMagic.
func Decode(b []byte) (uint32, error) {
	if len(b) < Size {
		return 0, ErrShortRecord
	}
	if b[0] != magic0 || b[1] != magic1 {
		return 0, ErrBadMagic
	}
	if binary.BigEndian.Uint16(b[crcOffset:]) != CRC16(b[:crcOffset]) {
		return 0, ErrChecksum
	}
	return binary.BigEndian.Uint32(b[countOffset:]), nil
}
