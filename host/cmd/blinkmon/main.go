package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"

	"blinky/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate of the board's debug UART")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	var stopped atomic.Bool
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		stopped.Store(true)
	}()

	if err := run(log, serial.Open, cfg, stopped.Load); err != nil {
		log.WithError(err).Error("Monitor failed")
		os.Exit(1)
	}
	log.Info("Stopped")
}

// opener opens the debug port; serial.Open outside of tests.
type opener func(cfg *serial.Config) (serial.Port, error)

// run prints every line from the debug port until stop reports true or
// the port fails. The port is closed on every path.
func run(log *logrus.Logger, open opener, cfg *serial.Config, stop func() bool) error {
	log.WithField("device", cfg.Device).WithField("baud", cfg.Baud).Info("Opening debug port")
	port, err := open(cfg)
	if err != nil {
		return fmt.Errorf("open debug port: %w", err)
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		log.WithError(err).Debug("Flush failed")
	}

	err = serial.ReadLines(port, stop, func(line string) {
		log.WithField("device", cfg.Device).Info(line)
	})
	if err != nil {
		return fmt.Errorf("read debug port: %w", err)
	}
	return nil
}
