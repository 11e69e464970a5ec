// Package ds3 implements the Sony DualShock 3 HID report codec: the input,
// output, and feature report layouts, the emulated flash memory banks, and
// the F1/F4/F5/EF sub-command state machines. It is pure value logic with no
// networking or USB I/O — callers feed it bytes and read bytes back.
package ds3

const (
	DefaultVID = 0x054C
	DefaultPID = 0x0268
)

const (
	InputReportSize   = 49
	OutputReportSize  = 48
	FeatureReportSize = 64
	FlashBankSize     = 256
)

const (
	ReportIDInput  = 0x01
	ReportIDOutput = 0x01
)

// HID report type numbers, as carried in the high byte of wValue on
// GET_REPORT/SET_REPORT control transfers.
const (
	ReportTypeInput   = 0x01
	ReportTypeOutput  = 0x02
	ReportTypeFeature = 0x03
)

// Feature report IDs understood by GetFeatureReport/SetFeatureReport.
const (
	FeatureControllerInfo  = 0x01
	FeatureFlashAccess     = 0xF1
	FeatureDeviceInfo      = 0xF2
	FeaturePairingInfo     = 0xF5
	FeatureExtSensorConfig = 0xEF
	FeatureSensorConfig    = 0xF7
	FeatureSensorStatus    = 0xF8
)

// Input report field offsets, per the DS3 0x01 input report layout.
const (
	inReportID    = 0
	inButtonsLo   = 2 // bytes [2..5) hold the 17-bit button field, LE bit order
	inButtonsHi   = 5
	inStickLX     = 6 // bytes [6..10) hold LX,LY,RX,RY
	inPressureLo  = 10
	inMarkerByte  = 31
	inMarkerValue = 0x05
	inMotionLo    = 41 // bytes [41..47) hold three big-endian 10-bit motion values
)

const stickCenter = 127

// Output report field offsets, per the DS3 0x01 output report layout.
const (
	outRumbleRightDuration = 1
	outRumbleRightPower    = 2
	outRumbleLeftDuration  = 3
	outRumbleLeftPower     = 4
	outLEDByte             = 9
	outLEDShift            = 1
	outLEDMask             = 0x0F
)

// Button identifies one of the 17 bits in the input report button bitfield.
// Bit position within the field matches the enumeration order given below.
type Button uint8

const (
	ButtonSelect Button = iota
	ButtonL3
	ButtonR3
	ButtonStart
	ButtonUp
	ButtonRight
	ButtonDown
	ButtonLeft
	ButtonL2
	ButtonR2
	ButtonL1
	ButtonR1
	ButtonTriangle
	ButtonCircle
	ButtonCross
	ButtonSquare
	ButtonPS

	buttonCount
)

// hasAnalog reports whether b carries an analog pressure byte at
// offset 10+int(b) in the input report.
func (b Button) hasAnalog() bool {
	switch b {
	case ButtonL2, ButtonR2, ButtonL1, ButtonR1,
		ButtonTriangle, ButtonCircle, ButtonCross, ButtonSquare,
		ButtonUp, ButtonRight, ButtonDown, ButtonLeft:
		return true
	default:
		return false
	}
}

// FlashRegion names one of the documented factory-blob regions inside a
// flash bank, for use in tests and diagnostics. Offsets are bank-relative.
type FlashRegion struct {
	Name        string
	Bank        int
	Start, End  int
}

// Documented flash bank layout from the factory-blob description. Bank 0 is
// "A", bank 1 is "B".
var FlashRegions = []FlashRegion{
	{"headerA", 0, 0x00, 0x04},
	{"configA", 0, 0x08, 0x20},
	{"stickCalibrationA", 0, 0x20, 0x30},
	{"extendedCalibrationA", 0, 0x30, 0x60},
	{"firmwareStickMetaA", 0, 0x60, 0x6F},
	{"deadzoneGainA", 0, 0x70, 0xA0},
	{"rumbleLUTA", 0, 0xB0, 0x100},
	{"rumbleLUTB", 1, 0x00, 0x70},
	{"headerB", 1, 0x70, 0x80},
	{"motionCalibrationB", 1, 0x90, 0xB0},
	{"footerB", 1, 0xF0, 0x100},
}
