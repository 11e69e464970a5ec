package ds3

import "encoding/binary"

// InputReport is the 49-byte DS3 input report (host <- controller).
// Byte 0 is the fixed report ID 0x01; byte 31 is a fixed marker 0x05;
// the remaining bytes are button/stick/pressure/motion state.
type InputReport struct {
	bytes [InputReportSize]byte
}

// NewInputReport returns a report with every invariant default applied:
// ID byte, marker byte, centered sticks, and motion values initialized
// to 511 (the DS3 reports no acceleration/rotation as mid-scale, not zero).
func NewInputReport() *InputReport {
	r := &InputReport{}
	r.bytes[inReportID] = ReportIDInput
	r.bytes[inMarkerByte] = inMarkerValue
	r.SetSticks(stickCenter, stickCenter, stickCenter, stickCenter)
	for i := 0; i < 3; i++ {
		r.setMotion(i, 511)
	}
	return r
}

// Bytes returns a copy of the full 49-byte report.
func (r *InputReport) Bytes() []byte {
	out := make([]byte, InputReportSize)
	copy(out, r.bytes[:])
	return out
}

// SetSticks sets LX, LY, RX, RY (bytes 6..10), clamped to 0..255 by the
// uint8 parameter type itself.
func (r *InputReport) SetSticks(lx, ly, rx, ry uint8) {
	r.bytes[inStickLX+0] = lx
	r.bytes[inStickLX+1] = ly
	r.bytes[inStickLX+2] = rx
	r.bytes[inStickLX+3] = ry
}

// SetButton updates the button bitfield at bytes [2..5) for bit b, and, if
// the button carries an analog pressure, writes the pressure byte at
// offset 10+int(b): pressed ? (analog value, defaulting to 255) : 0.
func (r *InputReport) SetButton(b Button, pressed bool, analog *byte) {
	if b >= buttonCount {
		return
	}
	field := uint32(r.bytes[inButtonsLo]) | uint32(r.bytes[inButtonsLo+1])<<8 | uint32(r.bytes[inButtonsLo+2])<<16
	mask := uint32(1) << uint(b)
	if pressed {
		field |= mask
	} else {
		field &^= mask
	}
	r.bytes[inButtonsLo+0] = byte(field)
	r.bytes[inButtonsLo+1] = byte(field >> 8)
	r.bytes[inButtonsLo+2] = byte(field >> 16)

	if b.hasAnalog() {
		if !pressed {
			r.bytes[inPressureLo+int(b)] = 0
			return
		}
		if analog != nil {
			r.bytes[inPressureLo+int(b)] = *analog
		} else {
			r.bytes[inPressureLo+int(b)] = 255
		}
	}
}

// ButtonPressed reports the current state of bit b in the button field.
func (r *InputReport) ButtonPressed(b Button) bool {
	if b >= buttonCount {
		return false
	}
	field := uint32(r.bytes[inButtonsLo]) | uint32(r.bytes[inButtonsLo+1])<<8 | uint32(r.bytes[inButtonsLo+2])<<16
	return field&(uint32(1)<<uint(b)) != 0
}

// setMotion packs a 10-bit value big-endian into motion slot i (0, 1, or 2),
// covering bytes [41..47).
func (r *InputReport) setMotion(i int, value uint16) {
	off := inMotionLo + i*2
	binary.BigEndian.PutUint16(r.bytes[off:off+2], value&0x03FF)
}

// SetAccelX, SetAccelY, SetAccelZ write the three big-endian 10-bit motion
// slots at bytes [41..47). The DS3 report folds its single gyro axis into
// this same region on real hardware; the spec names only three slots, so
// only these three setters are exposed.
func (r *InputReport) SetAccelX(v uint16) { r.setMotion(0, v) }
func (r *InputReport) SetAccelY(v uint16) { r.setMotion(1, v) }
func (r *InputReport) SetAccelZ(v uint16) { r.setMotion(2, v) }

// ApplyFrame copies a 48-byte client frame (opcode byte included, serving
// dual duty as the report ID) into bytes [0..48), leaving byte 48 untouched.
// Returns InvalidLength if frame isn't exactly 48 bytes.
func (r *InputReport) ApplyFrame(frame []byte) error {
	if len(frame) != OutputReportSize {
		return NewInvalidLength("input frame must be %d bytes, got %d", OutputReportSize, len(frame))
	}
	copy(r.bytes[0:OutputReportSize], frame)
	return nil
}
