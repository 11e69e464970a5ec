package ds3

import "sync"

// Controller owns the three DS3 report buffers. Per §5 of the governing
// design, every buffer gets its own mutex so a threaded implementation's
// input sampler, output sampler, and control-request handler never block
// each other for longer than an O(48-64 byte) copy.
type Controller struct {
	inputMu sync.Mutex
	input   *InputReport

	outputMu sync.Mutex
	output   *OutputReport

	featureMu sync.Mutex
	feature   *FeatureState
}

// NewController returns a Controller with all three buffers at their
// documented defaults.
func NewController() *Controller {
	return &Controller{
		input:   NewInputReport(),
		output:  NewOutputReport(),
		feature: NewFeatureState(),
	}
}

// ApplyInputFrame copies a 48-byte client frame into the input report.
func (c *Controller) ApplyInputFrame(frame []byte) error {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	return c.input.ApplyFrame(frame)
}

// SetButton mutates the input report's button bitfield directly (used by
// the interactive CLI collaborator and by tests).
func (c *Controller) SetButton(b Button, pressed bool, analog *byte) {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	c.input.SetButton(b, pressed, analog)
}

// SetSticks mutates the input report's stick axes directly.
func (c *Controller) SetSticks(lx, ly, rx, ry uint8) {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	c.input.SetSticks(lx, ly, rx, ry)
}

// ReadInputBytes returns a copy of the current 49-byte input report.
func (c *Controller) ReadInputBytes() []byte {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	return c.input.Bytes()
}

// ApplyOutputFrame overwrites the output report (from an epOut transfer
// or SET_REPORT(output, 0x01)).
func (c *Controller) ApplyOutputFrame(payload []byte) error {
	c.outputMu.Lock()
	defer c.outputMu.Unlock()
	return c.output.Update(payload)
}

// ReadOutputBytes returns a copy of the current 48-byte output report.
func (c *Controller) ReadOutputBytes() []byte {
	c.outputMu.Lock()
	defer c.outputMu.Unlock()
	return c.output.Bytes()
}

// GetFeatureReport dispatches a GET_REPORT(feature, reportID) request.
func (c *Controller) GetFeatureReport(reportID byte) ([]byte, error) {
	c.featureMu.Lock()
	defer c.featureMu.Unlock()
	return c.feature.GetFeatureReport(reportID)
}

// SetFeatureReport dispatches a SET_REPORT(feature, reportID, data)
// request, routing 0xF4 to the control sub-command handler.
func (c *Controller) SetFeatureReport(reportID byte, data []byte) error {
	c.featureMu.Lock()
	defer c.featureMu.Unlock()
	if reportID == 0xF4 {
		return c.feature.ControlSetReport(data)
	}
	return c.feature.SetFeatureReport(reportID, data)
}

// InputStreamingEnabled reports whether the F4 state machine currently
// allows the input sampler to write to epIn.
func (c *Controller) InputStreamingEnabled() bool {
	c.featureMu.Lock()
	defer c.featureMu.Unlock()
	return c.feature.InputStreamingEnabled()
}
