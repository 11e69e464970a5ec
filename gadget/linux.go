//go:build linux

package gadget

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ds3gadget/ds3bridge/usb"
)

// FunctionFS magic numbers for the descriptor blob written to ep0, per the
// kernel's functionfs.h.
const (
	ffsDescriptorsMagicV2 = 0x00000003
	ffsHasFSDesc          = 0x00000001
	ffsHasHSDesc          = 0x00000002
	ffsStringsMagic       = 0x00000002
)

// LinuxConfig names the FunctionFS mount point a gadget function directory
// lives under (e.g. "/dev/ds3gadget" after the host has mounted functionfs
// there and bound it into a ConfigFS gadget).
type LinuxConfig struct {
	MountPoint string
}

// Linux is a FunctionFS-backed Adapter. It opens ep0 (control) plus one
// interrupt-IN and one interrupt-OUT endpoint file under MountPoint, writes
// the descriptor/strings blobs to ep0, and shuttles reports by read/write
// on the endpoint files.
type Linux struct {
	cfg LinuxConfig

	mu      sync.Mutex
	ep0     *os.File
	epIn    *os.File
	epOut   *os.File
	handler ControlHandler

	configured chan struct{}
	closeOnce  sync.Once
}

// NewLinux constructs an unbound Linux adapter for the given mount point.
func NewLinux(cfg LinuxConfig) *Linux {
	return &Linux{cfg: cfg, configured: make(chan struct{})}
}

func (l *Linux) Bind(desc usb.Descriptor) error {
	ep0, err := os.OpenFile(filepath.Join(l.cfg.MountPoint, "ep0"), os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("gadget: open ep0: %w", err)
	}

	if err := writeDescriptors(ep0, desc); err != nil {
		ep0.Close()
		return fmt.Errorf("gadget: write descriptors: %w", err)
	}
	if err := writeStrings(ep0, desc.Strings); err != nil {
		ep0.Close()
		return fmt.Errorf("gadget: write strings: %w", err)
	}

	epIn, err := os.OpenFile(filepath.Join(l.cfg.MountPoint, "ep1"), os.O_WRONLY, 0)
	if err != nil {
		ep0.Close()
		return fmt.Errorf("gadget: open ep1 (in): %w", err)
	}
	epOut, err := os.OpenFile(filepath.Join(l.cfg.MountPoint, "ep2"), os.O_RDONLY, 0)
	if err != nil {
		ep0.Close()
		epIn.Close()
		return fmt.Errorf("gadget: open ep2 (out): %w", err)
	}

	l.mu.Lock()
	l.ep0, l.epIn, l.epOut = ep0, epIn, epOut
	l.mu.Unlock()

	go l.watchEP0()

	return nil
}

// writeDescriptors builds the FunctionFS descriptor blob (full-speed and
// high-speed variants both point at the same descriptor set, since this
// device's behavior does not change by link speed) and writes it to ep0.
func writeDescriptors(ep0 *os.File, desc usb.Descriptor) error {
	raw := desc.Bytes()

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:4], ffsDescriptorsMagicV2)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(hdr)+len(raw)*2))
	binary.LittleEndian.PutUint32(hdr[8:12], ffsHasFSDesc|ffsHasHSDesc)

	buf := append(hdr[:], raw...)
	buf = append(buf, raw...)
	_, err := ep0.Write(buf)
	return err
}

func writeStrings(ep0 *os.File, strs map[uint8]string) error {
	var body []byte
	body = binary.LittleEndian.AppendUint32(body, 0x0409) // language ID, US English
	ids := make([]uint8, 0, len(strs))
	for id := range strs {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		body = append(body, []byte(strs[id])...)
		body = append(body, 0)
	}

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], ffsStringsMagic)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(hdr)+len(body)))

	_, err := ep0.Write(append(hdr[:], body...))
	return err
}

// watchEP0 services control requests (GET_REPORT/SET_REPORT delivered as
// FunctionFS class/vendor setup events) until ep0 is closed.
func (l *Linux) watchEP0() {
	buf := make([]byte, 4096)
	for {
		l.mu.Lock()
		ep0 := l.ep0
		l.mu.Unlock()
		if ep0 == nil {
			return
		}

		n, err := ep0.Read(buf)
		if err != nil {
			return
		}
		l.handleSetupEvent(buf[:n])
	}
}

// handleSetupEvent decodes one FunctionFS setup event. reportType/reportID
// arrive in wValue (high/low byte) per the HID class spec; direction
// determines GET_REPORT vs SET_REPORT.
func (l *Linux) handleSetupEvent(event []byte) {
	if len(event) < 8 {
		return
	}
	bRequestType := event[0]
	wValue := binary.LittleEndian.Uint16(event[2:4])
	reportType := byte(wValue >> 8)
	reportID := byte(wValue)

	l.mu.Lock()
	h := l.handler
	ep0 := l.ep0
	l.mu.Unlock()
	if h == nil || ep0 == nil {
		return
	}

	const dirIn = 0x80
	if bRequestType&dirIn != 0 {
		data, err := h.HandleGetReport(reportType, reportID)
		if err != nil {
			return
		}
		_, _ = ep0.Write(data)
		return
	}

	if len(event) > 8 {
		_ = h.HandleSetReport(reportType, reportID, event[8:])
	}
}

func (l *Linux) AwaitConfigured(ctx context.Context) error {
	select {
	case <-l.configured:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Linux) RegisterReportDescriptor(h ControlHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
	select {
	case <-l.configured:
	default:
		close(l.configured)
	}
}

func (l *Linux) WriteIn(ctx context.Context, report []byte) error {
	l.mu.Lock()
	epIn := l.epIn
	l.mu.Unlock()
	if epIn == nil {
		return fmt.Errorf("gadget: WriteIn before Bind")
	}
	done := make(chan error, 1)
	go func() { _, err := epIn.Write(report); done <- err }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Linux) ReadOut(ctx context.Context) ([]byte, error) {
	l.mu.Lock()
	epOut := l.epOut
	l.mu.Unlock()
	if epOut == nil {
		return nil, fmt.Errorf("gadget: ReadOut before Bind")
	}
	buf := make([]byte, 64)
	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() { n, err := epOut.Read(buf); done <- result{n, err} }()
	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return buf[:r.n], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Linux) Unbind() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var err error
	for _, f := range []*os.File{l.ep0, l.epIn, l.epOut} {
		if f != nil {
			if cerr := f.Close(); cerr != nil {
				err = cerr
			}
		}
	}
	l.ep0, l.epIn, l.epOut = nil, nil, nil
	return err
}

func (l *Linux) Release() error {
	var err error
	l.closeOnce.Do(func() { err = l.Unbind() })
	return err
}
