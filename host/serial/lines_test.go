package serial

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns its chunks one Read at a time, with io.EOF timeouts in between
type chunkReader struct {
	chunks []string
	err    error
}

func (c *chunkReader) Read(b []byte) (int, error) {
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}
	chunk := c.chunks[0]
	c.chunks = c.chunks[1:]
	if chunk == "" {
		return 0, io.EOF // read timeout
	}
	return copy(b, chunk), nil
}

func TestReadLinesUntilEOF(t *testing.T) {
	var lines []string
	err := ReadLines(strings.NewReader("Boot 3\r\nSecond 1\nSecond 2\npartial"), nil, func(l string) {
		lines = append(lines, l)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Boot 3", "Second 1", "Second 2", "partial"}, lines)
}

func TestReadLinesSurvivesTimeouts(t *testing.T) {
	r := &chunkReader{chunks: []string{"Sec", "", "ond 1\n", "", "", "Second 2\n"}}

	var lines []string
	calls := 0
	stop := func() bool {
		calls++
		return len(lines) == 2
	}
	require.NoError(t, ReadLines(r, stop, func(l string) { lines = append(lines, l) }))
	assert.Equal(t, []string{"Second 1", "Second 2"}, lines)
	assert.Greater(t, calls, 2)
}

func TestReadLinesReturnsReadError(t *testing.T) {
	boom := errors.New("device unplugged")
	r := &chunkReader{chunks: []string{"half"}, err: boom}

	var lines []string
	err := ReadLines(r, func() bool { return false }, func(l string) { lines = append(lines, l) })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"half"}, lines)
}

func TestReadLinesSplitsLongLines(t *testing.T) {
	long := strings.Repeat("x", MaxLineLength+10)

	var lines []string
	require.NoError(t, ReadLines(strings.NewReader(long+"\n"), nil, func(l string) {
		lines = append(lines, l)
	}))
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], MaxLineLength)
	assert.Len(t, lines[1], 10)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
	assert.Equal(t, 115200, cfg.Baud)
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}
