package ds3

import "encoding/binary"

// FeatureState holds everything GET/SET feature reports read and mutate:
// the two flash banks, the 4-byte runtime control state, the paired/device
// MAC pair, the serial number, and the current flash bank/address pointer.
type FeatureState struct {
	Flash *FlashBanks

	state [4]byte

	DeviceMAC   [6]byte
	PairedMAC   [6]byte
	Serial      uint32
	PCBRevision byte

	FlashBank int  // 0 or 1, only bit 0 of any written selector matters
	FlashAddr byte // 0..255
}

// NewFeatureState returns a feature state with freshly populated flash
// banks and all other fields at their zero value.
func NewFeatureState() *FeatureState {
	return &FeatureState{Flash: NewFlashBanks()}
}

// InputStreamingEnabled reports state[1] == 0x01, per the F4 sub-commands.
func (f *FeatureState) InputStreamingEnabled() bool {
	return f.state[1] == 0x01
}

// GetFeatureReport builds the 64-byte GET response for reportID, per the
// feature report layouts. Returns UnsupportedReport for an unknown ID.
func (f *FeatureState) GetFeatureReport(reportID byte) ([]byte, error) {
	r := make([]byte, FeatureReportSize)
	switch reportID {
	case FeatureControllerInfo:
		r[0] = 0x00
		r[1] = 0x01
		copy(r[2:6], f.Flash.ReadAt(0, 1, 4))
		// Destination range r[6..44) is 38 bytes; the documented source
		// range A[0x60..0x8C) is 44 — the destination slot is authoritative
		// since it is what fits in the fixed 64-byte response.
		copy(r[6:44], f.Flash.ReadAt(0, 0x60, 44-6))
		return r, nil

	case FeatureFlashAccess:
		// Header written as documented in the source: 0x01 at index 1,
		// not the 0x0B some comments document. See DESIGN.md.
		copy(r[0:5], []byte{0x57, 0x01, 0xFF, 0xFF, 0x10})
		data := f.Flash.Read16(f.FlashBank, f.FlashAddr)
		copy(r[5:21], data[:])
		return r, nil

	case FeatureDeviceInfo:
		copy(r[0:4], []byte{0xF2, 0xFF, 0xFF, 0x00})
		copy(r[4:10], reversed(f.DeviceMAC[:]))
		r[10] = 0x00
		r[11] = 0x03
		binary.LittleEndian.PutUint32(r[12:16], f.Serial)
		r[16] = f.PCBRevision
		copy(r[17:36], f.Flash.ReadAt(0, 0x6C, 36-17))
		return r, nil

	case FeaturePairingInfo:
		r[0] = 0x01
		r[1] = 0x00
		copy(r[2:8], f.PairedMAC[:])
		copy(r[8:10], reversed(f.DeviceMAC[0:2]))
		r[10] = 0x00
		r[11] = 0x03
		binary.LittleEndian.PutUint32(r[12:16], f.Serial)
		r[16] = f.PCBRevision
		copy(r[17:36], f.Flash.ReadAt(0, 0x6C, 36-17))
		return r, nil

	case FeatureExtSensorConfig:
		a := int(f.state[2])
		r[1] = 0xEF
		copy(r[2:6], f.Flash.ReadAt(0, 1, 4))
		copy(r[5:9], f.state[0:4]) // overwrites r[5], written last per spec order
		copy(r[0x11:0x21], f.Flash.ReadAt(1, a, 0x21-0x11))
		r[0x30] = 0x05
		return r, nil

	case FeatureSensorConfig:
		r[0x07] = 0xFF
		copy(r[0x11:0x25], f.Flash.ReadAt(0, 0x8C, 0x25-0x11))
		r[0x30] = 0x05
		return r, nil

	case FeatureSensorStatus:
		r[0], r[1], r[2], r[3] = 0x00, 0x01, 0x00, 0x00
		r[4] = f.Flash.Byte(0, 3)
		copy(r[5:9], f.state[0:4])
		a := int(f.state[2])
		copy(r[0x11:0x21], f.Flash.ReadAt(1, a, 0x21-0x11))
		r[0x30] = 0x05
		return r, nil

	default:
		return nil, UnsupportedReport(ReportTypeFeature, reportID)
	}
}

// SetFeatureReport applies a SET_REPORT(feature, reportID, data) request.
func (f *FeatureState) SetFeatureReport(reportID byte, data []byte) error {
	switch reportID {
	case FeatureFlashAccess:
		return f.setFlashAccess(data)
	case FeatureExtSensorConfig:
		if len(data) < 8 {
			return NewProtocolError("0xEF SET payload too short: %d bytes", len(data))
		}
		copy(f.state[0:4], data[4:8])
		return nil
	case FeaturePairingInfo:
		if len(data) < 8 {
			return NewProtocolError("0xF5 SET payload too short: %d bytes", len(data))
		}
		copy(f.PairedMAC[:], data[2:8])
		return nil
	default:
		return UnsupportedReport(ReportTypeFeature, reportID)
	}
}

// ControlSetReport applies a SET_REPORT(feature, 0xF4, data) control
// sub-command — kept separate from SetFeatureReport because 0xF4 is the
// controller-control state machine rather than a flash/pairing mutation,
// and §4.1 documents it with its own byte-0 prefix convention.
func (f *FeatureState) ControlSetReport(data []byte) error {
	if len(data) < 2 {
		return NewProtocolError("0xF4 SET payload too short: %d bytes", len(data))
	}
	switch data[1] {
	case 0x01: // disable input streaming
		f.state[1] = 0x00
	case 0x02: // enable input streaming
		f.state[1] = 0x01
	case 0x03: // enable motion-sensor output
		f.state[1] = 0x03
	case 0x04, 0x0B: // restart, shutdown: same reset
		f.state = [4]byte{}
		f.FlashBank = 0
		f.FlashAddr = 0
	case 0x0C: // startup: treated as enable streaming
		f.state[1] = 0x01
	default:
		return NewProtocolError("unrecognized F4 sub-command 0x%02X", data[1])
	}
	return nil
}

func (f *FeatureState) setFlashAccess(data []byte) error {
	if len(data) < 2 {
		return NewProtocolError("0xF1 SET payload too short: %d bytes", len(data))
	}
	switch data[1] {
	case 0x0B: // setAddress
		if len(data) < 6 {
			return NewProtocolError("0xF1 setAddress payload too short: %d bytes", len(data))
		}
		f.FlashBank = int(data[4]) & 1
		f.FlashAddr = data[5]
	case 0x0A: // write
		if len(data) < 8 {
			return NewProtocolError("0xF1 write payload too short: %d bytes", len(data))
		}
		f.Flash.Write(f.FlashBank, f.FlashAddr, data[7:])
	default:
		return NewProtocolError("unrecognized flash sub-command 0x%02X", data[1])
	}
	return nil
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
