// Package gadget defines the interface the HID Function programs against
// to present itself as a USB peripheral, plus the concrete implementations:
// a Linux FunctionFS-backed adapter and an in-memory fake for tests.
package gadget

import (
	"context"

	"github.com/ds3gadget/ds3bridge/usb"
)

// Adapter is the boundary between the HID Function and the host kernel's
// USB gadget subsystem. Bind publishes the descriptors and opens the
// endpoint files; AwaitConfigured blocks until the host has enumerated and
// configured the gadget; WriteIn/ReadOut move report bytes across the
// interrupt endpoints; Release tears everything down.
type Adapter interface {
	// Bind opens the gadget's control and data endpoints and writes the
	// descriptor set. It does not block for host enumeration.
	Bind(desc usb.Descriptor) error

	// AwaitConfigured blocks until the host has set the gadget's
	// configuration, or ctx is done.
	AwaitConfigured(ctx context.Context) error

	// RegisterReportDescriptor installs the handler invoked for ep0
	// GET_REPORT/SET_REPORT control transfers.
	RegisterReportDescriptor(h ControlHandler)

	// WriteIn sends one interrupt-IN report to the host. It blocks until
	// accepted by the endpoint or ctx is done.
	WriteIn(ctx context.Context, report []byte) error

	// ReadOut blocks until one interrupt-OUT report arrives from the host,
	// or ctx is done.
	ReadOut(ctx context.Context) ([]byte, error)

	// Unbind closes the endpoint files without releasing other resources.
	Unbind() error

	// Release tears down everything Bind allocated. Idempotent.
	Release() error
}

// ControlHandler answers ep0 class requests. reportType is one of
// ds3.ReportTypeInput/Output/Feature; reportID identifies which report.
// For GET_REPORT, data is nil and the return value is sent to the host.
// For SET_REPORT, data holds the host's payload and the return value is
// ignored.
type ControlHandler interface {
	HandleGetReport(reportType, reportID byte) ([]byte, error)
	HandleSetReport(reportType, reportID byte, data []byte) error
}
