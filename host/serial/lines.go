package serial

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// MaxLineLength bounds a single line; longer input is split.
const MaxLineLength = 256

// ReadLines reads r and calls fn for every complete line, without the
// trailing CR/LF. With a stop function, a read timeout (zero bytes with
// io.EOF) is not the end of the stream and ReadLines keeps going until stop
// returns true or r fails. With a nil stop, io.EOF ends the stream.
// A partial line left at the end is flushed to fn.
func ReadLines(r io.Reader, stop func() bool, fn func(line string)) error {
	var pending bytes.Buffer
	chunk := make([]byte, 64)

	flush := func() {
		if pending.Len() > 0 {
			fn(strings.TrimRight(pending.String(), "\r"))
			pending.Reset()
		}
	}

	for stop == nil || !stop() {
		n, err := r.Read(chunk)
		for _, b := range chunk[:n] {
			if b == '\n' {
				flush()
				continue
			}
			pending.WriteByte(b)
			if pending.Len() >= MaxLineLength {
				flush()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) && n == 0 && stop != nil {
				continue
			}
			flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	flush()
	return nil
}
