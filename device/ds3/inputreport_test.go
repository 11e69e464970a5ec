package ds3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/device/ds3"
)

func TestNewInputReportDefaults(t *testing.T) {
	r := ds3.NewInputReport()
	b := r.Bytes()
	require.Len(t, b, ds3.InputReportSize)
	assert.Equal(t, byte(0x01), b[0])
	assert.Equal(t, byte(0x05), b[31])
	assert.Equal(t, []byte{127, 127, 127, 127}, b[6:10])
	// Motion slots default to 511, big-endian 10-bit.
	for _, off := range []int{41, 43, 45} {
		assert.Equal(t, uint16(511), uint16(b[off])<<8|uint16(b[off+1]))
	}
}

func TestSetButtonBitfieldAndAnalog(t *testing.T) {
	analogButtons := map[ds3.Button]bool{
		ds3.ButtonL2: true, ds3.ButtonR2: true, ds3.ButtonL1: true, ds3.ButtonR1: true,
		ds3.ButtonTriangle: true, ds3.ButtonCircle: true, ds3.ButtonCross: true, ds3.ButtonSquare: true,
		ds3.ButtonUp: true, ds3.ButtonRight: true, ds3.ButtonDown: true, ds3.ButtonLeft: true,
	}
	allButtons := []ds3.Button{
		ds3.ButtonSelect, ds3.ButtonL3, ds3.ButtonR3, ds3.ButtonStart,
		ds3.ButtonUp, ds3.ButtonRight, ds3.ButtonDown, ds3.ButtonLeft,
		ds3.ButtonL2, ds3.ButtonR2, ds3.ButtonL1, ds3.ButtonR1,
		ds3.ButtonTriangle, ds3.ButtonCircle, ds3.ButtonCross, ds3.ButtonSquare,
		ds3.ButtonPS,
	}

	for _, b := range allButtons {
		for _, pressed := range []bool{true, false} {
			r := ds3.NewInputReport()
			r.SetButton(b, pressed, nil)
			assert.Equal(t, pressed, r.ButtonPressed(b), "button %v pressed=%v", b, pressed)

			if analogButtons[b] {
				raw := r.Bytes()
				want := byte(0)
				if pressed {
					want = 255
				}
				assert.Equal(t, want, raw[10+int(b)], "button %v analog byte", b)
			}
		}
	}
}

func TestSetButtonExplicitAnalogValue(t *testing.T) {
	r := ds3.NewInputReport()
	v := byte(128)
	r.SetButton(ds3.ButtonCross, true, &v)
	assert.Equal(t, byte(128), r.Bytes()[10+int(ds3.ButtonCross)])
}

func TestApplyFrame(t *testing.T) {
	r := ds3.NewInputReport()

	// Scenario 1: start pressed (bit 3 -> 0x08), sticks centered.
	// The literal trace in the scenario places the 0x7F stick bytes one
	// index earlier than the authoritative field table (sticks at
	// [6..10)); this test follows the field table, which every other
	// scenario and invariant is consistent with. See DESIGN.md.
	frame := make([]byte, ds3.OutputReportSize)
	frame[0] = 0x01
	frame[2] = 0x08 // bit3 = start
	frame[6], frame[7], frame[8], frame[9] = 0x7F, 0x7F, 0x7F, 0x7F
	frame[31] = 0x05

	require.NoError(t, r.ApplyFrame(frame))
	b := r.Bytes()
	assert.Equal(t, frame, b[0:48])
	// Byte 48 (outside the 48-byte frame) is untouched by ApplyFrame.
	assert.Equal(t, byte(0x00), b[48])
}

func TestApplyFrameRejectsWrongLength(t *testing.T) {
	r := ds3.NewInputReport()
	err := r.ApplyFrame(make([]byte, 47))
	require.Error(t, err)
	var dsErr *ds3.Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ds3.InvalidLength, dsErr.Kind)
}
