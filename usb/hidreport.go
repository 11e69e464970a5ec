package usb

// DS3ReportDescriptor is the HID report descriptor the gadget publishes
// verbatim to the host. It declares:
//   - Report ID 1: one 48-byte input report and one 48-byte output report
//   - Report IDs 2, 0xEE, 0xEF: 48-byte feature report slots
//
// Byte budget for the Report ID 1 input report matches the §4.1 field
// table exactly: 1 (reserved) + 3 (buttons) + 1 (reserved) + 4 (sticks)
// + 16 (pressures) + 5 (reserved) + 1 (marker) + 9 (reserved) + 6 (motion)
// + 2 (reserved) = 48 bytes, plus the leading report-ID byte the HID
// transport prepends to make the 49-byte InputReport the codec produces.
var DS3ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x05, // Usage (Game Pad)
	0xA1, 0x01, // Collection (Application)

	0x85, 0x01, //   Report ID (1) -- input report begins

	0x75, 0x08, //   Report Size 8
	0x95, 0x01, //   Report Count 1
	0x81, 0x03, //   Input (Const,Var,Abs) -- byte[1] reserved

	0x05, 0x09, //   Usage Page (Button)
	0x19, 0x01, //   Usage Minimum (1)
	0x29, 0x11, //   Usage Maximum (17)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size 1
	0x95, 0x18, //   Report Count 24
	0x81, 0x02, //   Input (Data,Var,Abs) -- bytes[2..5) button bitfield

	0x75, 0x08, //   Report Size 8
	0x95, 0x01, //   Report Count 1
	0x81, 0x03, //   Input (Const,Var,Abs) -- byte[5] reserved

	0x05, 0x01, //   Usage Page (Generic Desktop)
	0x09, 0x30, //   Usage (X)
	0x09, 0x31, //   Usage (Y)
	0x09, 0x32, //   Usage (Z)
	0x09, 0x35, //   Usage (Rz)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size 8
	0x95, 0x04, //   Report Count 4
	0x81, 0x02, //   Input (Data,Var,Abs) -- bytes[6..10) sticks

	0x06, 0x00, 0xFF, //   Usage Page (Vendor 0xFF00)
	0x09, 0x20, //   Usage (Vendor 0x20)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size 8
	0x95, 0x10, //   Report Count 16
	0x81, 0x02, //   Input (Data,Var,Abs) -- bytes[10..26) analog pressures

	0x75, 0x08, //   Report Size 8
	0x95, 0x05, //   Report Count 5
	0x81, 0x03, //   Input (Const,Var,Abs) -- bytes[26..31) reserved

	0x75, 0x08, //   Report Size 8
	0x95, 0x01, //   Report Count 1
	0x81, 0x03, //   Input (Const,Var,Abs) -- byte[31] marker (0x05)

	0x75, 0x08, //   Report Size 8
	0x95, 0x09, //   Report Count 9
	0x81, 0x03, //   Input (Const,Var,Abs) -- bytes[32..41) reserved

	0x06, 0x00, 0xFF, //   Usage Page (Vendor 0xFF00)
	0x09, 0x21, //   Usage (Vendor 0x21)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size 8
	0x95, 0x06, //   Report Count 6
	0x81, 0x02, //   Input (Data,Var,Abs) -- bytes[41..47) accel/gyro

	0x75, 0x08, //   Report Size 8
	0x95, 0x02, //   Report Count 2
	0x81, 0x03, //   Input (Const,Var,Abs) -- bytes[47..49) reserved

	0x85, 0x01, //   Report ID (1) -- output report begins
	0x06, 0x00, 0xFF, //   Usage Page (Vendor 0xFF00)
	0x09, 0x22, //   Usage (Vendor 0x22)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size 8
	0x95, 0x30, //   Report Count 48
	0x91, 0x02, //   Output (Data,Var,Abs)

	0x85, 0x02, //   Report ID (2) -- feature slot
	0x06, 0x00, 0xFF,
	0x09, 0x23,
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x30,
	0xB1, 0x02, //   Feature (Data,Var,Abs)

	0x85, 0xEE, //   Report ID (0xEE) -- feature slot
	0x06, 0x00, 0xFF,
	0x09, 0x23,
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x30,
	0xB1, 0x02,

	0x85, 0xEF, //   Report ID (0xEF) -- feature slot
	0x06, 0x00, 0xFF,
	0x09, 0x23,
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x30,
	0xB1, 0x02,

	0xC0, // End Collection
}

// DS3 vendor strings, verbatim.
const (
	DS3Manufacturer = "Sony Computer Entertainment Inc."
	DS3Product      = "PLAYSTATION(R)3 Controller"
	DS3Serial       = "SN00000000"
)

const (
	DS3EndpointIn  = 0x81
	DS3EndpointOut = 0x02
	ds3PollMs      = 10 // bidirectional interrupt endpoints, 10ms poll/report interval
)

// DS3Descriptor builds the full descriptor set for the emulated controller:
// vendor 0x054C, product 0x0268, class composite, bidirectional interrupt
// endpoints polled every 10ms, HID subclass/protocol none/none. The set
// holds no configuration descriptor, so it does not describe bus power
// or a maximum current draw.
func DS3Descriptor(vid, pid uint16) Descriptor {
	return Descriptor{
		Device: DeviceDescriptor{
			BcdUSB:             0x0200,
			BDeviceClass:       0x00,
			BDeviceSubClass:    0x00,
			BDeviceProtocol:    0x00,
			BMaxPacketSize0:    0x40,
			IDVendor:           vid,
			IDProduct:          pid,
			BcdDevice:          0x0100,
			IManufacturer:      0x01,
			IProduct:           0x02,
			ISerialNumber:      0x03,
			BNumConfigurations: 0x01,
		},
		Interface: InterfaceDescriptor{
			BInterfaceNumber:   0x00,
			BAlternateSetting:  0x00,
			BNumEndpoints:      0x02,
			BInterfaceClass:    0x03, // HID
			BInterfaceSubClass: 0x00, // none
			BInterfaceProtocol: 0x00, // none
			IInterface:         0x00,
		},
		Endpoints: []EndpointDescriptor{
			{BEndpointAddress: DS3EndpointIn, BMAttributes: 0x03, WMaxPacketSize: 64, BInterval: ds3PollMs},
			{BEndpointAddress: DS3EndpointOut, BMAttributes: 0x03, WMaxPacketSize: 64, BInterval: ds3PollMs},
		},
		HID: HIDDescriptor{
			BcdHID:            0x0111,
			BCountryCode:      0x00,
			WDescriptorLength: uint16(len(DS3ReportDescriptor)),
		},
		Report: DS3ReportDescriptor,
		Strings: map[uint8]string{
			0: "\x04\x09",
			1: DS3Manufacturer,
			2: DS3Product,
			3: DS3Serial,
		},
	}
}
