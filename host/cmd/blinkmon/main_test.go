package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blinky/host/serial"
)

// fakePort serves data once, then fails reads with err
type fakePort struct {
	data   *bytes.Reader
	err    error
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.data.Len() > 0 {
		return p.data.Read(b)
	}
	if p.err != nil {
		return 0, p.err
	}
	return 0, io.EOF
}

func (p *fakePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *fakePort) Flush() error { return nil }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newTestLogger() (*logrus.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	l := logrus.New()
	l.SetOutput(&out)
	return l, &out
}

func openFake(p *fakePort) opener {
	return func(*serial.Config) (serial.Port, error) { return p, nil }
}

func TestRunClosesPortOnReadError(t *testing.T) {
	unplugged := errors.New("device unplugged")
	port := &fakePort{data: bytes.NewReader([]byte("Boot 3\r\n")), err: unplugged}
	log, out := newTestLogger()

	err := run(log, openFake(port), serial.DefaultConfig("fake"), func() bool { return false })
	assert.ErrorIs(t, err, unplugged)
	assert.True(t, port.closed)
	assert.Contains(t, out.String(), "Boot 3")
}

func TestRunStopsOnRequest(t *testing.T) {
	port := &fakePort{data: bytes.NewReader([]byte("Second 1\r\nSecond 2\r\n"))}
	log, out := newTestLogger()

	reads := 0
	stop := func() bool {
		reads++
		return reads > 3
	}
	require.NoError(t, run(log, openFake(port), serial.DefaultConfig("fake"), stop))
	assert.True(t, port.closed)
	assert.Contains(t, out.String(), "Second 2")
}

func TestRunOpenError(t *testing.T) {
	log, _ := newTestLogger()
	cfg := serial.DefaultConfig(filepath.Join(t.TempDir(), "ttyNONE"))
	err := run(log, serial.Open, cfg, func() bool { return true })
	assert.Error(t, err)
}
