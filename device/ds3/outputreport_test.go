package ds3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/device/ds3"
)

func TestOutputReportUpdateAndAccessors(t *testing.T) {
	o := ds3.NewOutputReport()
	payload := make([]byte, ds3.OutputReportSize)
	payload[1] = 10  // rumble right duration
	payload[2] = 200 // rumble right power
	payload[3] = 0   // rumble left duration
	payload[4] = 0   // rumble left power
	payload[9] = 0b0000_1010 << 0
	payload[9] = 0x0A // LED mask bits [1..5) = 0101 -> LEDs 0 and 2

	require.NoError(t, o.Update(payload))
	assert.Equal(t, byte(10), o.RumbleRightDuration())
	assert.Equal(t, byte(200), o.RumbleRightPower())
	assert.True(t, o.IsRightMotorActive())
	assert.False(t, o.IsLeftMotorActive())

	mask := o.LEDMask()
	assert.Equal(t, byte(0x05), mask)
	states := o.LEDStates()
	assert.True(t, states[0])
	assert.False(t, states[1])
	assert.True(t, states[2])
	assert.False(t, states[3])
}

func TestOutputReportUpdateRejectsWrongLength(t *testing.T) {
	o := ds3.NewOutputReport()
	err := o.Update(make([]byte, 10))
	require.Error(t, err)
	var dsErr *ds3.Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ds3.InvalidLength, dsErr.Kind)
	// State is left untouched on rejection.
	assert.Equal(t, make([]byte, ds3.OutputReportSize), o.Bytes())
}
