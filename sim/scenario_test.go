package sim

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blinky/bootrecord"
	"blinky/core"
)

func TestParseScenarioDefaults(t *testing.T) {
	s, err := ParseScenario([]byte("cycles: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), s.Cycles)
	assert.Equal(t, uint32(core.TickFrequencyHz), s.TickHz)
	require.NotNil(t, s.EEPROM)
	assert.Equal(t, uint8(0x50), *s.EEPROM)
	require.Len(t, s.Devices, 1)
}

func TestParseScenarioDevices(t *testing.T) {
	s, err := ParseScenario([]byte(`
tick_hz: 2000
half_period_ms: 100
led_pin: 25
active_low: false
eeprom_address: 0x51
devices:
  - type: eeprom
    address: 0x51
    size: 256
  - type: hang
    address: 0x68
`))
	require.NoError(t, err)
	assert.Equal(t, uint32(2000), s.TickHz)
	assert.False(t, s.ActiveLow)
	assert.Equal(t, uint8(0x51), *s.EEPROM)
	assert.Equal(t, []DeviceConfig{
		{Type: DeviceEEPROM, Address: 0x51, Size: 256},
		{Type: DeviceHang, Address: 0x68},
	}, s.Devices)
}

func TestParseScenarioErrors(t *testing.T) {
	cases := map[string]string{
		"unknown type": "devices:\n  - type: lamp\n    address: 0x10\n",
		"wide address": "devices:\n  - type: hang\n    address: 0x90\n",
		"duplicate":    "devices:\n  - type: hang\n    address: 0x10\n  - type: eeprom\n    address: 0x10\n",
		"zero tick":    "tick_hz: 0\n",
		"fast tick":    "tick_hz: 2000000000\n",
		"bad yaml":     "devices: [\n",
		"wide eeprom":  "eeprom_address: 0x80\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cycles: 2\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.Cycles)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRigBootCount(t *testing.T) {
	s := DefaultScenario()
	rig, err := s.Build(&ManualTicker{})
	require.NoError(t, err)

	require.NoError(t, rig.App.Setup())
	assert.Equal(t, uint32(1), rig.App.BootCount)
	require.NoError(t, rig.App.Setup())
	assert.Equal(t, uint32(2), rig.App.BootCount)

	rec := rig.EEPROMs[0x50].Bytes(0, bootrecord.Size)
	count, err := bootrecord.Decode(rec)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), count)

	// LED is off after setup: active low means the pin is high
	assert.True(t, rig.GPIO.Level(13))
}

func TestRigBootCountCorruptRecord(t *testing.T) {
	rig, err := DefaultScenario().Build(&ManualTicker{})
	require.NoError(t, err)

	rec := bootrecord.Encode(41)
	rec[7] ^= 0xFF
	rig.EEPROMs[0x50].Load(0, rec[:])

	require.NoError(t, rig.App.Setup())
	assert.Equal(t, uint32(1), rig.App.BootCount)
}

func TestRigBootCountHungEEPROM(t *testing.T) {
	s, err := ParseScenario([]byte("devices:\n  - type: hang\n    address: 0x50\n"))
	require.NoError(t, err)
	rig, err := s.Build(&ManualTicker{})
	require.NoError(t, err)

	err = rig.App.Setup()
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Equal(t, uint32(0), rig.App.BootCount)
}

func TestRigNoEEPROM(t *testing.T) {
	s, err := ParseScenario([]byte("eeprom_address: null\ndevices: []\n"))
	require.NoError(t, err)
	rig, err := s.Build(&ManualTicker{})
	require.NoError(t, err)
	require.NoError(t, rig.App.Setup())
	assert.Nil(t, rig.App.Boot)
}

func TestRigBlinksOnRealTicker(t *testing.T) {
	s, err := ParseScenario([]byte("half_period_ms: 2\n"))
	require.NoError(t, err)

	ticker := &Ticker{}
	rig, err := s.Build(ticker)
	require.NoError(t, err)
	defer ticker.Stop()

	require.NoError(t, rig.App.Setup())
	require.NoError(t, rig.App.RunCycles(3))

	assert.Equal(t, uint32(3), rig.App.Blinker.Seconds())
	// one transition for setup (low to high) then two per cycle
	assert.Equal(t, 7, rig.GPIO.Transitions(13))
	assert.Equal(t, uint32(0), rig.Ticks.Remaining())
}

func TestManualTicker(t *testing.T) {
	m := &ManualTicker{}
	m.Fire(3) // unarmed, no-op

	ts := core.NewTickSource()
	ts.Arm(m, 500)
	assert.Equal(t, uint32(500), m.FrequencyHz())
	m.Fire(4)
	assert.Equal(t, uint32(4), ts.Now())
}

func TestTickerClampsPeriod(t *testing.T) {
	tk := &Ticker{}
	defer tk.Stop()

	ts := core.NewTickSource()
	ts.Arm(tk, math.MaxUint32)
	require.Eventually(t, func() bool { return ts.Now() > 0 }, time.Second, time.Millisecond)
}

func TestExampleScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "examples", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			rig, err := s.Build(&ManualTicker{})
			require.NoError(t, err)
			err = rig.App.Setup()
			for _, d := range s.Devices {
				if d.Type == DeviceHang {
					assert.ErrorIs(t, err, core.ErrTimeout)
					return
				}
			}
			require.NoError(t, err)
			if s.EEPROM != nil {
				assert.Equal(t, uint32(1), rig.App.BootCount)
			}
		})
	}
}
