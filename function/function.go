// Package function implements the HID Function: the stateful gadget
// endpoint that owns the DS3 controller's report buffers, answers
// GET_REPORT/SET_REPORT control transfers, periodically writes input
// reports to the gadget's IN endpoint, and consumes OUT reports from it.
package function

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ds3gadget/ds3bridge/device/ds3"
	"github.com/ds3gadget/ds3bridge/gadget"
)

const samplerInterval = 10 * time.Millisecond

// Function wires a ds3.Controller to a gadget.Adapter: it is the
// HandleTransfer/HandleControl half of a USB device, generalized from the
// teacher's DualShock4 to the DS3 protocol engine.
type Function struct {
	controller *ds3.Controller
	adapter    gadget.Adapter
	log        *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New constructs a Function over an already-bound adapter. Controller is
// exposed so a bridge.Session can feed input frames and read output bytes
// without going through the gadget at all (the TCP side bypasses USB
// entirely, per spec).
func New(controller *ds3.Controller, adapter gadget.Adapter, log *slog.Logger) *Function {
	if log == nil {
		log = slog.Default()
	}
	return &Function{controller: controller, adapter: adapter, log: log}
}

// Controller returns the shared controller for the bridge to drive.
func (f *Function) Controller() *ds3.Controller { return f.controller }

// Enable registers this Function as the adapter's control handler, then
// starts the 10ms input sampler and the epOut consumer goroutine. Mirrors
// the teacher's on_enable() naming.
func (f *Function) Enable(ctx context.Context) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.running = true
	f.mu.Unlock()

	f.adapter.RegisterReportDescriptor(f)

	f.wg.Add(2)
	go f.runInputSampler(ctx)
	go f.runOutputConsumer(ctx)
}

// Release cancels the sampler and epOut consumer and waits for both to
// exit. Idempotent.
func (f *Function) Release() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	cancel := f.cancel
	f.running = false
	f.mu.Unlock()

	cancel()
	f.wg.Wait()
}

func (f *Function) runInputSampler(ctx context.Context) {
	defer f.wg.Done()
	ticker := time.NewTicker(samplerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !f.controller.InputStreamingEnabled() {
				continue
			}
			report := f.controller.ReadInputBytes()
			writeCtx, cancel := context.WithTimeout(ctx, samplerInterval)
			err := f.adapter.WriteIn(writeCtx, report)
			cancel()
			if err != nil && ctx.Err() == nil {
				f.log.Warn("dropped input sample", "error", err)
			}
		}
	}
}

func (f *Function) runOutputConsumer(ctx context.Context) {
	defer f.wg.Done()
	for {
		frame, err := f.adapter.ReadOut(ctx)
		if err != nil {
			if ctx.Err() == nil {
				f.log.Warn("epOut read failed, function releasing", "error", err)
				f.mu.Lock()
				cancel := f.cancel
				f.mu.Unlock()
				cancel()
			}
			return
		}
		if len(frame) != ds3.OutputReportSize+1 || frame[0] != ds3.ReportIDOutput {
			f.log.Warn("dropped malformed epOut frame", "len", len(frame))
			continue
		}
		if err := f.controller.ApplyOutputFrame(frame[1:]); err != nil {
			f.log.Warn("dropped epOut frame", "error", err)
		}
	}
}

// HandleGetReport implements gadget.ControlHandler.
func (f *Function) HandleGetReport(reportType, reportID byte) ([]byte, error) {
	switch reportType {
	case ds3.ReportTypeInput:
		return f.controller.ReadInputBytes(), nil
	case ds3.ReportTypeFeature:
		return f.controller.GetFeatureReport(reportID)
	default:
		return nil, ds3.UnsupportedReport(reportType, reportID)
	}
}

// HandleSetReport implements gadget.ControlHandler.
func (f *Function) HandleSetReport(reportType, reportID byte, data []byte) error {
	switch reportType {
	case ds3.ReportTypeOutput:
		return f.controller.ApplyOutputFrame(data)
	case ds3.ReportTypeFeature:
		return f.controller.SetFeatureReport(reportID, data)
	default:
		return ds3.UnsupportedReport(reportType, reportID)
	}
}
