package core

// OpenDrainLine is one wire of a bit-banged I2C bus. Release lets the
// pull-up take the line high; Low drives it low; Get samples the wire.
type OpenDrainLine interface {
	Release()
	Low()
	Get() bool
}

// DefaultStretchLimit is how many half periods SoftI2C waits for a device
// holding SCL low before giving up.
const DefaultStretchLimit = 1000

// SoftI2C implements the I2CBus primitives by bit-banging two GPIO lines.
type SoftI2C struct {
	SCL OpenDrainLine
	SDA OpenDrainLine

	// HalfPeriod waits half an SCL period. A nil HalfPeriod runs the bus as
	// fast as the GPIO allows.
	HalfPeriod func()

	// StretchLimit bounds clock stretching; zero uses DefaultStretchLimit.
	StretchLimit int

	started bool
}

// NewSoftI2C creates a bus on scl/sda and releases both lines.
func NewSoftI2C(scl, sda OpenDrainLine, halfPeriod func()) *SoftI2C {
	s := &SoftI2C{SCL: scl, SDA: sda, HalfPeriod: halfPeriod}
	scl.Release()
	sda.Release()
	return s
}

func (s *SoftI2C) wait() {
	if s.HalfPeriod != nil {
		s.HalfPeriod()
	}
}

// sclHigh releases SCL and waits for any device stretching the clock.
func (s *SoftI2C) sclHigh() error {
	s.SCL.Release()
	limit := s.StretchLimit
	if limit == 0 {
		limit = DefaultStretchLimit
	}
	for i := 0; !s.SCL.Get(); i++ {
		if i >= limit {
			return ErrTimeout
		}
		s.wait()
	}
	return nil
}

// Start generates a start condition: SDA falls while SCL is high.
// On an owned bus it first returns SDA and SCL high for a repeated start.
func (s *SoftI2C) Start() error {
	if s.started {
		s.SDA.Release()
		s.wait()
		if err := s.sclHigh(); err != nil {
			return err
		}
		s.wait()
	}
	if !s.SDA.Get() {
		// Another device holds SDA; the bus is not free
		return ErrTimeout
	}
	s.SDA.Low()
	s.wait()
	s.SCL.Low()
	s.started = true
	return nil
}

// Stop generates a stop condition: SDA rises while SCL is high.
func (s *SoftI2C) Stop() error {
	if !s.started {
		s.SCL.Release()
		s.SDA.Release()
		return nil
	}
	s.SDA.Low()
	s.wait()
	err := s.sclHigh()
	s.wait()
	s.SDA.Release()
	s.wait()
	s.started = false
	if err != nil {
		return err
	}
	if !s.SDA.Get() {
		return ErrTimeout
	}
	return nil
}

func (s *SoftI2C) writeBit(bit bool) error {
	if bit {
		s.SDA.Release()
	} else {
		s.SDA.Low()
	}
	s.wait()
	if err := s.sclHigh(); err != nil {
		return err
	}
	s.wait()
	s.SCL.Low()
	return nil
}

func (s *SoftI2C) readBit() (bool, error) {
	s.SDA.Release()
	s.wait()
	if err := s.sclHigh(); err != nil {
		return false, err
	}
	bit := s.SDA.Get()
	s.wait()
	s.SCL.Low()
	return bit, nil
}

// writeByte shifts out b MSB first and returns ErrNACK if the device
// leaves SDA high in the acknowledge slot.
func (s *SoftI2C) writeByte(b byte) error {
	for i := 7; i >= 0; i-- {
		if err := s.writeBit(b&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	nack, err := s.readBit()
	if err != nil {
		return err
	}
	if nack {
		return ErrNACK
	}
	return nil
}

func (s *SoftI2C) SendAddress(addr I2CAddress, dir I2CDirection) error {
	return s.writeByte(byte(addr)<<1 | byte(dir))
}

func (s *SoftI2C) SendByte(b byte) error {
	return s.writeByte(b)
}

func (s *SoftI2C) ReceiveByte(ack bool) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := s.readBit()
		if err != nil {
			return 0, err
		}
		b <<= 1
		if bit {
			b |= 1
		}
	}
	// ACK pulls SDA low; NACK leaves it released
	if err := s.writeBit(!ack); err != nil {
		return 0, err
	}
	return b, nil
}
