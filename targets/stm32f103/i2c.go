//go:build stm32f103

package main

import (
	"device/stm32"
	"machine"

	"blinky/core"
)

// stepTimeoutMs bounds every single bus step
const stepTimeoutMs = 10

// STM32I2CBus implements core.I2CBus on the I2C v1 peripheral registers.
// Each primitive waits for its status flag and gives up after a bounded
// number of ticks instead of hanging on a stuck bus.
type STM32I2CBus struct {
	bus     *stm32.I2C_Type
	ticks   *core.TickSource
	timeout uint32
}

// NewSTM32I2CBus configures pins and clock through machine.I2C, then takes
// over the peripheral registers. SCL is PB6, SDA is PB7.
func NewSTM32I2CBus(i2c *machine.I2C, ticks *core.TickSource, frequency uint32) (*STM32I2CBus, error) {
	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequency,
		SCL:       machine.PB6,
		SDA:       machine.PB7,
	})
	if err != nil {
		return nil, err
	}
	return &STM32I2CBus{
		bus:     i2c.Bus,
		ticks:   ticks,
		timeout: core.MillisToTicks(stepTimeoutMs, ticks.FrequencyHz()),
	}, nil
}

// waitSR1 waits for flag in SR1, failing on acknowledge failure or timeout
func (b *STM32I2CBus) waitSR1(flag uint32) error {
	start := b.ticks.Now()
	for !b.bus.SR1.HasBits(flag) {
		if b.bus.SR1.HasBits(stm32.I2C_SR1_AF) {
			b.bus.SR1.ClearBits(stm32.I2C_SR1_AF)
			return core.ErrNACK
		}
		if b.ticks.Expired(start, b.timeout) {
			return core.ErrTimeout
		}
	}
	return nil
}

func (b *STM32I2CBus) Start() error {
	b.bus.CR1.SetBits(stm32.I2C_CR1_START)
	return b.waitSR1(stm32.I2C_SR1_SB)
}

func (b *STM32I2CBus) SendAddress(addr core.I2CAddress, dir core.I2CDirection) error {
	if dir == core.I2CRead {
		b.bus.CR1.SetBits(stm32.I2C_CR1_ACK)
	}
	b.bus.DR.Set(uint32(addr)<<1 | uint32(dir))
	if err := b.waitSR1(stm32.I2C_SR1_ADDR); err != nil {
		return err
	}
	// Reading SR2 after SR1 clears ADDR and releases SCL
	b.bus.SR2.Get()
	return nil
}

func (b *STM32I2CBus) SendByte(v byte) error {
	b.bus.DR.Set(uint32(v))
	return b.waitSR1(stm32.I2C_SR1_BTF)
}

func (b *STM32I2CBus) ReceiveByte(ack bool) (byte, error) {
	// ACK applies to the byte being shifted in. The peripheral starts
	// receiving as soon as ADDR is cleared, so the first byte of a read is
	// always acknowledged.
	if ack {
		b.bus.CR1.SetBits(stm32.I2C_CR1_ACK)
	} else {
		b.bus.CR1.ClearBits(stm32.I2C_CR1_ACK)
	}
	if err := b.waitSR1(stm32.I2C_SR1_RxNE); err != nil {
		return 0, err
	}
	return byte(b.bus.DR.Get()), nil
}

func (b *STM32I2CBus) Stop() error {
	b.bus.CR1.SetBits(stm32.I2C_CR1_STOP)
	start := b.ticks.Now()
	for b.bus.CR1.HasBits(stm32.I2C_CR1_STOP) {
		if b.ticks.Expired(start, b.timeout) {
			return core.ErrTimeout
		}
	}
	return nil
}
