//go:build !tinygo

package core

import "runtime"

// relax lets the host ticker goroutine run while Delay polls.
func relax() {
	runtime.Gosched()
}
