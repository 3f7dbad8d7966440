package sim

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"blinky/core"
)

// Device types accepted in a scenario.
const (
	DeviceEEPROM = "eeprom"
	DeviceHang   = "hang"
)

// MaxTickHz is the fastest tick the host can represent: one per nanosecond.
const MaxTickHz = uint32(time.Second)

// DeviceConfig places one simulated device on the bus.
type DeviceConfig struct {
	Type    string `yaml:"type"`
	Address uint8  `yaml:"address"`
	Size    int    `yaml:"size,omitempty"` // eeprom only
}

// Scenario describes a simulated board.
type Scenario struct {
	TickHz       uint32         `yaml:"tick_hz"`
	HalfPeriodMs uint32         `yaml:"half_period_ms"`
	Cycles       uint32         `yaml:"cycles"`
	LEDPin       uint32         `yaml:"led_pin"`
	ActiveLow    bool           `yaml:"active_low"`
	EEPROM       *uint8         `yaml:"eeprom_address,omitempty"`
	Devices      []DeviceConfig `yaml:"devices"`
}

// DefaultScenario mirrors the reference board: 1 kHz tick, LED on pin 13
// active low, blink at 1 Hz, a 4 KiB EEPROM at 0x50.
func DefaultScenario() *Scenario {
	addr := uint8(core.DefaultEEPROMAddress)
	return &Scenario{
		TickHz:       core.TickFrequencyHz,
		HalfPeriodMs: 500,
		Cycles:       0,
		LEDPin:       13,
		ActiveLow:    true,
		EEPROM:       &addr,
		Devices: []DeviceConfig{
			{Type: DeviceEEPROM, Address: core.DefaultEEPROMAddress, Size: 4096},
		},
	}
}

// ParseScenario decodes YAML on top of DefaultScenario.
func ParseScenario(data []byte) (*Scenario, error) {
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// Validate checks device addresses and types.
func (s *Scenario) Validate() error {
	if s.TickHz == 0 {
		return errors.New("scenario: tick_hz must be positive")
	}
	if s.TickHz > MaxTickHz {
		return fmt.Errorf("scenario: tick_hz %d above %d", s.TickHz, MaxTickHz)
	}
	seen := make(map[uint8]bool)
	for _, d := range s.Devices {
		if d.Address > core.MaxI2CAddress {
			return fmt.Errorf("scenario: device address 0x%02x: %w", d.Address, core.ErrAddressRange)
		}
		if seen[d.Address] {
			return fmt.Errorf("scenario: duplicate device address 0x%02x", d.Address)
		}
		seen[d.Address] = true
		switch d.Type {
		case DeviceEEPROM:
			if d.Size < 0 {
				return fmt.Errorf("scenario: eeprom at 0x%02x: negative size", d.Address)
			}
		case DeviceHang:
		default:
			return fmt.Errorf("scenario: unknown device type %q", d.Type)
		}
	}
	if s.EEPROM != nil && *s.EEPROM > core.MaxI2CAddress {
		return fmt.Errorf("scenario: eeprom_address 0x%02x: %w", *s.EEPROM, core.ErrAddressRange)
	}
	return nil
}

// Rig is a simulated board assembled from a Scenario.
type Rig struct {
	Bus     *Bus
	GPIO    *GPIO
	Ticks   *core.TickSource
	EEPROMs map[core.I2CAddress]*EEPROM
	App     *core.App
}

// Build wires the scenario's devices, GPIO, and tick source into a core.App.
// The tick source is armed on driver.
func (s *Scenario) Build(driver core.TickDriver) (*Rig, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	rig := &Rig{
		Bus:     NewBus(),
		GPIO:    NewGPIO(),
		Ticks:   core.NewTickSource(),
		EEPROMs: make(map[core.I2CAddress]*EEPROM),
	}
	for _, d := range s.Devices {
		addr := core.I2CAddress(d.Address)
		var dev Device
		switch d.Type {
		case DeviceEEPROM:
			size := d.Size
			if size == 0 {
				size = 4096
			}
			e := NewEEPROM(size)
			rig.EEPROMs[addr] = e
			dev = e
		case DeviceHang:
			dev = Hang{}
		}
		if err := rig.Bus.Attach(addr, dev); err != nil {
			return nil, err
		}
	}

	rig.Ticks.Arm(driver, s.TickHz)

	blinker := core.NewBlinker(rig.Ticks, rig.GPIO, core.GPIOPin(s.LEDPin))
	blinker.ActiveLow = s.ActiveLow
	blinker.HalfPeriod = core.MillisToTicks(s.HalfPeriodMs, s.TickHz)

	rig.App = &core.App{Blinker: blinker}
	if s.EEPROM != nil {
		rig.App.Boot = core.NewBootCounter(core.NewTransactor(rig.Bus), uint16(*s.EEPROM))
	}
	return rig, nil
}
