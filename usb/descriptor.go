// Package usb holds USB descriptor primitives used to describe the emulated
// DS3 gadget to a host: the standard device/interface/endpoint descriptors
// plus the HID class descriptor and report descriptor. Generalized from a
// USB/IP gadget project's descriptor builder to a single fixed DS3 device.
package usb

import (
	"bytes"
	"encoding/binary"
)

// USB descriptor type constants.
const (
	DeviceDescType    = 0x01
	ConfigDescType    = 0x02
	InterfaceDescType = 0x04
	EndpointDescType  = 0x05
	HIDDescType       = 0x21
	ReportDescType    = 0x22
)

// Descriptor lengths in bytes (fixed values from the USB spec).
const (
	DeviceDescLen    = 18
	ConfigDescLen    = 9
	InterfaceDescLen = 9
	EndpointDescLen  = 7
	HIDDescLen       = 9
)

// Descriptor holds all static descriptor data for the emulated device.
type Descriptor struct {
	Device    DeviceDescriptor
	Interface InterfaceDescriptor
	Endpoints []EndpointDescriptor
	HID       HIDDescriptor
	Report    []byte // the HID report descriptor bytes (type 0x22)
	Strings   map[uint8]string
}

// DeviceDescriptor is the standard 18-byte USB device descriptor.
type DeviceDescriptor struct {
	BcdUSB             uint16
	BDeviceClass       uint8
	BDeviceSubClass    uint8
	BDeviceProtocol    uint8
	BMaxPacketSize0    uint8
	IDVendor           uint16
	IDProduct          uint16
	BcdDevice          uint16
	IManufacturer      uint8
	IProduct           uint8
	ISerialNumber      uint8
	BNumConfigurations uint8
}

func (d DeviceDescriptor) Write(b *bytes.Buffer) {
	b.WriteByte(DeviceDescLen)
	b.WriteByte(DeviceDescType)
	_ = binary.Write(b, binary.LittleEndian, d.BcdUSB)
	b.WriteByte(d.BDeviceClass)
	b.WriteByte(d.BDeviceSubClass)
	b.WriteByte(d.BDeviceProtocol)
	b.WriteByte(d.BMaxPacketSize0)
	_ = binary.Write(b, binary.LittleEndian, d.IDVendor)
	_ = binary.Write(b, binary.LittleEndian, d.IDProduct)
	_ = binary.Write(b, binary.LittleEndian, d.BcdDevice)
	b.WriteByte(d.IManufacturer)
	b.WriteByte(d.IProduct)
	b.WriteByte(d.ISerialNumber)
	b.WriteByte(d.BNumConfigurations)
}

// InterfaceDescriptor is the standard 9-byte interface descriptor.
type InterfaceDescriptor struct {
	BInterfaceNumber   uint8
	BAlternateSetting  uint8
	BNumEndpoints      uint8
	BInterfaceClass    uint8
	BInterfaceSubClass uint8
	BInterfaceProtocol uint8
	IInterface         uint8
}

func (i InterfaceDescriptor) Write(b *bytes.Buffer) {
	b.WriteByte(InterfaceDescLen)
	b.WriteByte(InterfaceDescType)
	b.WriteByte(i.BInterfaceNumber)
	b.WriteByte(i.BAlternateSetting)
	b.WriteByte(i.BNumEndpoints)
	b.WriteByte(i.BInterfaceClass)
	b.WriteByte(i.BInterfaceSubClass)
	b.WriteByte(i.BInterfaceProtocol)
	b.WriteByte(i.IInterface)
}

// EndpointDescriptor is the standard 7-byte endpoint descriptor.
type EndpointDescriptor struct {
	BEndpointAddress uint8
	BMAttributes     uint8
	WMaxPacketSize   uint16
	BInterval        uint8
}

func (e EndpointDescriptor) Write(b *bytes.Buffer) {
	b.WriteByte(EndpointDescLen)
	b.WriteByte(EndpointDescType)
	b.WriteByte(e.BEndpointAddress)
	b.WriteByte(e.BMAttributes)
	_ = binary.Write(b, binary.LittleEndian, e.WMaxPacketSize)
	b.WriteByte(e.BInterval)
}

// HIDDescriptor is the 9-byte HID class descriptor naming one report
// sub-descriptor.
type HIDDescriptor struct {
	BcdHID            uint16
	BCountryCode      uint8
	WDescriptorLength uint16 // length of the accompanying report descriptor
}

func (h HIDDescriptor) Write(b *bytes.Buffer) {
	b.WriteByte(HIDDescLen)
	b.WriteByte(HIDDescType)
	_ = binary.Write(b, binary.LittleEndian, h.BcdHID)
	b.WriteByte(h.BCountryCode)
	b.WriteByte(0x01) // bNumDescriptors
	b.WriteByte(ReportDescType)
	_ = binary.Write(b, binary.LittleEndian, h.WDescriptorLength)
}

// EncodeStringDescriptor converts a UTF-8 string to a USB string
// descriptor: bLength, bDescriptorType (0x03), then UTF-16LE code units.
func EncodeStringDescriptor(s string) []byte {
	runes := []rune(s)
	buf := make([]byte, 2+len(runes)*2)
	buf[0] = uint8(len(buf))
	buf[1] = 0x03
	for i, r := range runes {
		buf[2+i*2] = uint8(r)
		buf[2+i*2+1] = uint8(r >> 8)
	}
	return buf
}

// Bytes concatenates the device descriptor, the interface descriptor, its
// endpoints, the HID descriptor, and the report descriptor, in the order a
// ConfigFS gadget directory expects them written.
func (d Descriptor) Bytes() []byte {
	var b bytes.Buffer
	d.Device.Write(&b)
	d.Interface.Write(&b)
	for _, ep := range d.Endpoints {
		ep.Write(&b)
	}
	d.HID.Write(&b)
	b.Write(d.Report)
	return b.Bytes()
}
