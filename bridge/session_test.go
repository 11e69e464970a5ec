package bridge_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/bridge"
	"github.com/ds3gadget/ds3bridge/device/ds3"
	"github.com/ds3gadget/ds3bridge/gadget"
)

// Session's constructor is unexported; its read/write behavior is
// exercised end-to-end through Bridge over a real loopback socket, the way
// the teacher drives apiclient against a live api.Server in server_test.go.

func TestOutputSamplerMirrorsControllerState(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	payload := make([]byte, ds3.OutputReportSize)
	payload[9] = 0x0A
	require.NoError(t, b.Controller().ApplyOutputFrame(payload))

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 48)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 48, n)
	assert.Equal(t, byte(0x0A), buf[9])
}

func TestMalformedClientFrameIsDroppedWithoutClosingSession(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0x02, 0x00, 0x00})
	require.NoError(t, err)

	frame := make([]byte, 48)
	frame[0] = 0x01
	frame[2] = 0x04
	_, err = conn.Write(frame)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return b.Controller().ReadInputBytes()[2] == 0x04
	}, time.Second, 5*time.Millisecond)
}
