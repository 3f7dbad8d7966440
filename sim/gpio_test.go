package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blinky/core"
)

func TestGPIO(t *testing.T) {
	g := NewGPIO()
	assert.Error(t, g.SetPin(3, true), "pin must be configured first")

	var changes []bool
	g.OnChange = func(pin core.GPIOPin, level bool) {
		assert.Equal(t, core.GPIOPin(3), pin)
		changes = append(changes, level)
	}

	require.NoError(t, g.ConfigureOutput(3))
	require.NoError(t, g.SetPin(3, true))
	require.NoError(t, g.SetPin(3, true))
	require.NoError(t, g.SetPin(3, false))

	assert.False(t, g.Level(3))
	assert.Equal(t, 2, g.Transitions(3))
	assert.Equal(t, []bool{true, false}, changes)
}
