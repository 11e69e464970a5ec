package gadget_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/device/ds3"
	"github.com/ds3gadget/ds3bridge/gadget"
	"github.com/ds3gadget/ds3bridge/usb"
)

type echoHandler struct{ lastSet []byte }

func (h *echoHandler) HandleGetReport(reportType, reportID byte) ([]byte, error) {
	return []byte{reportType, reportID}, nil
}

func (h *echoHandler) HandleSetReport(reportType, reportID byte, data []byte) error {
	h.lastSet = data
	return nil
}

func TestFakeBindAndAwaitConfigured(t *testing.T) {
	f := gadget.NewFake()
	desc := usb.DS3Descriptor(ds3.DefaultVID, ds3.DefaultPID)
	require.NoError(t, f.Bind(desc))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.AwaitConfigured(ctx))
	assert.Equal(t, desc.Report, f.Descriptor().Report)
}

func TestFakeWriteInAndReadOut(t *testing.T) {
	f := gadget.NewFake()
	ctx := context.Background()

	require.NoError(t, f.WriteIn(ctx, []byte{1, 2, 3}))
	got, ok := f.Sent()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	f.Inject([]byte{9, 9})
	out, err := f.ReadOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, out)
}

func TestFakeControlHandlerDispatch(t *testing.T) {
	f := gadget.NewFake()
	h := &echoHandler{}
	f.RegisterReportDescriptor(h)

	data, err := f.GetReport(0x03, 0xF1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0xF1}, data)

	require.NoError(t, f.SetReport(0x03, 0xF4, []byte{0x42, 0x02}))
	assert.Equal(t, []byte{0x42, 0x02}, h.lastSet)
}
