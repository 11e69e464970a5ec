package gadget

import (
	"context"
	"fmt"
	"sync"

	"github.com/ds3gadget/ds3bridge/usb"
)

// Fake is an in-memory Adapter standing in for the kernel-backed half of
// the system in tests, the way the teacher's in-process MockServer stands
// in for a live USB server. Bind/AwaitConfigured succeed immediately; IN
// reports land on a channel a test can drain, OUT reports are injected by
// a test via Inject.
type Fake struct {
	mu       sync.Mutex
	bound    bool
	released bool
	handler  ControlHandler
	desc     usb.Descriptor

	in  chan []byte
	out chan []byte
}

// NewFake constructs a ready-to-bind Fake adapter.
func NewFake() *Fake {
	return &Fake{
		in:  make(chan []byte, 64),
		out: make(chan []byte, 64),
	}
}

func (f *Fake) Bind(desc usb.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return fmt.Errorf("gadget: Bind after Release")
	}
	f.desc = desc
	f.bound = true
	return nil
}

func (f *Fake) AwaitConfigured(ctx context.Context) error {
	f.mu.Lock()
	bound := f.bound
	f.mu.Unlock()
	if !bound {
		return fmt.Errorf("gadget: AwaitConfigured before Bind")
	}
	return nil
}

func (f *Fake) RegisterReportDescriptor(h ControlHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *Fake) WriteIn(ctx context.Context, report []byte) error {
	cp := append([]byte(nil), report...)
	select {
	case f.in <- cp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fake) ReadOut(ctx context.Context) ([]byte, error) {
	select {
	case b := <-f.out:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Fake) Unbind() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = false
	return nil
}

func (f *Fake) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	f.bound = false
	return nil
}

// Inject delivers an OUT report to whatever is calling ReadOut, simulating
// a host sending an output report.
func (f *Fake) Inject(report []byte) {
	f.out <- append([]byte(nil), report...)
}

// Sent drains one IN report previously handed to WriteIn, for test
// assertions. It does not block.
func (f *Fake) Sent() ([]byte, bool) {
	select {
	case b := <-f.in:
		return b, true
	default:
		return nil, false
	}
}

// GetReport exercises the registered ControlHandler's GET_REPORT path
// directly, as ep0 would.
func (f *Fake) GetReport(reportType, reportID byte) ([]byte, error) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return nil, fmt.Errorf("gadget: no handler registered")
	}
	return h.HandleGetReport(reportType, reportID)
}

// SetReport exercises the registered ControlHandler's SET_REPORT path
// directly, as ep0 would.
func (f *Fake) SetReport(reportType, reportID byte, data []byte) error {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return fmt.Errorf("gadget: no handler registered")
	}
	return h.HandleSetReport(reportType, reportID, data)
}

// Descriptor returns the descriptor passed to Bind, for test assertions.
func (f *Fake) Descriptor() usb.Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.desc
}
