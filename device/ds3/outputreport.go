package ds3

// OutputReport is the 48-byte DS3 output report (host -> controller),
// carrying rumble motor and LED state. It is populated by a USB epOut
// transfer or SET_REPORT(output, 0x01); the TCP bridge only reads it and
// mirrors it to the client.
type OutputReport struct {
	bytes [OutputReportSize]byte
}

// NewOutputReport returns a zero-initialized output report.
func NewOutputReport() *OutputReport { return &OutputReport{} }

// Bytes returns a copy of the full 48-byte report.
func (o *OutputReport) Bytes() []byte {
	out := make([]byte, OutputReportSize)
	copy(out, o.bytes[:])
	return out
}

// Update overwrites the report with a new 48-byte payload. Returns
// InvalidLength and leaves the existing state untouched if payload isn't
// exactly 48 bytes.
func (o *OutputReport) Update(payload []byte) error {
	if len(payload) != OutputReportSize {
		return NewInvalidLength("output report must be %d bytes, got %d", OutputReportSize, len(payload))
	}
	copy(o.bytes[:], payload)
	return nil
}

func (o *OutputReport) RumbleRightDuration() byte { return o.bytes[outRumbleRightDuration] }
func (o *OutputReport) RumbleRightPower() byte    { return o.bytes[outRumbleRightPower] }
func (o *OutputReport) RumbleLeftDuration() byte  { return o.bytes[outRumbleLeftDuration] }
func (o *OutputReport) RumbleLeftPower() byte     { return o.bytes[outRumbleLeftPower] }

func (o *OutputReport) IsRightMotorActive() bool {
	return o.RumbleRightDuration() > 0 && o.RumbleRightPower() > 0
}

func (o *OutputReport) IsLeftMotorActive() bool {
	return o.RumbleLeftDuration() > 0 && o.RumbleLeftPower() > 0
}

// LEDMask returns the 4-bit LED selector packed into bits [1..5) of byte 9.
func (o *OutputReport) LEDMask() byte {
	return (o.bytes[outLEDByte] >> outLEDShift) & outLEDMask
}

// LEDStates expands LEDMask into four individual LED on/off flags.
func (o *OutputReport) LEDStates() [4]bool {
	mask := o.LEDMask()
	var states [4]bool
	for i := range states {
		states[i] = mask&(1<<uint(i)) != 0
	}
	return states
}
