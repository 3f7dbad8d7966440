package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"blinky/core"
	"blinky/sim"
)

var (
	scenarioPath = flag.String("scenario", "", "YAML scenario file (default: reference board)")
	cycles       = flag.Uint("cycles", 0, "Blink cycles to run, 0 to use the scenario value (forever if unset)")
	hz           = flag.Uint("hz", 0, "Override the tick frequency")
	traceBus     = flag.Bool("trace", false, "Log every I2C primitive")
	imagePath    = flag.String("eeprom-image", "", "File holding the EEPROM contents across runs")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
)

// options are the command line settings of one simulation run.
type options struct {
	scenario string
	cycles   uint32
	hz       uint32
	trace    bool
	image    string
}

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	opts := options{
		scenario: *scenarioPath,
		cycles:   uint32(*cycles),
		hz:       uint32(*hz),
		trace:    *traceBus,
		image:    *imagePath,
	}
	if err := run(log, opts); err != nil {
		log.WithError(err).Error("Simulation failed")
		os.Exit(1)
	}
}

func run(log *logrus.Logger, opts options) error {
	scenario := sim.DefaultScenario()
	if opts.scenario != "" {
		var err error
		if scenario, err = sim.LoadScenario(opts.scenario); err != nil {
			return err
		}
	}
	if opts.hz != 0 {
		scenario.TickHz = opts.hz
	}
	if opts.cycles != 0 {
		scenario.Cycles = opts.cycles
	}

	core.SetDebugWriter(func(s string) { log.WithField("src", "firmware").Info(s) })
	core.SetDebugEnabled(true)

	ticker := &sim.Ticker{}
	defer ticker.Stop()

	rig, err := scenario.Build(ticker)
	if err != nil {
		return err
	}

	rig.GPIO.OnChange = func(pin core.GPIOPin, level bool) {
		lit := level != scenario.ActiveLow
		log.WithFields(logrus.Fields{"pin": pin, "level": level, "lit": lit}).Debug("LED")
	}
	if opts.trace {
		rig.Bus.OnOp = func(op sim.Op) {
			log.WithField("src", "i2c").Info(op.String())
		}
	}

	log.WithFields(logrus.Fields{
		"tick_hz": scenario.TickHz,
		"cycles":  scenario.Cycles,
		"devices": len(scenario.Devices),
	}).Info("Starting simulated board")

	eeprom := bootEEPROM(scenario, rig)
	if eeprom != nil && opts.image != "" {
		if err := loadImage(eeprom, opts.image); err != nil {
			return err
		}
	}

	if err := rig.App.Setup(); err != nil {
		// The LED still works without the EEPROM, as on hardware
		log.WithError(err).WithField("status", core.StatusCode(err)).Warn("Boot count unavailable")
	} else if rig.App.Boot != nil {
		log.WithField("boot", rig.App.BootCount).Info("Boot recorded")
	}

	if eeprom != nil && opts.image != "" {
		if err := os.WriteFile(opts.image, eeprom.Bytes(0, eeprom.Size()), 0o644); err != nil {
			return fmt.Errorf("save eeprom image: %w", err)
		}
	}

	if err := rig.App.RunCycles(scenario.Cycles); err != nil {
		return fmt.Errorf("blink: %w", err)
	}
	log.WithField("seconds", rig.App.Blinker.Seconds()).Info("Done")
	return nil
}

// bootEEPROM returns the simulated EEPROM holding the boot record, if any.
func bootEEPROM(scenario *sim.Scenario, rig *sim.Rig) *sim.EEPROM {
	if scenario.EEPROM == nil {
		return nil
	}
	return rig.EEPROMs[core.I2CAddress(*scenario.EEPROM)]
}

// loadImage fills eeprom from path. A missing file leaves it erased.
func loadImage(eeprom *sim.EEPROM, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load eeprom image: %w", err)
	}
	if len(data) > eeprom.Size() {
		data = data[:eeprom.Size()]
	}
	eeprom.Load(0, data)
	return nil
}
