package bridge_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds3gadget/ds3bridge/bridge"
	"github.com/ds3gadget/ds3bridge/gadget"
	"github.com/ds3gadget/ds3bridge/internal/bridgeio"
)

func testConfig(t *testing.T) bridge.Config {
	t.Helper()
	dir := t.TempDir()
	return bridge.Config{
		BridgeDir:         dir,
		ProcessFile:       "process.txt",
		ConfiguredTimeout: time.Second,
	}
}

func TestStartWritesProcessFileAndAcceptsOneClient(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	pid, port, err := bridgeio.ReadProcessFile(filepath.Join(cfg.BridgeDir, cfg.ProcessFile))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.Equal(t, b.Addr().(*net.TCPAddr).Port, port)

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 48)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(buf)
	require.NoError(t, err)
}

func TestRawLogFileRecordsBothDirections(t *testing.T) {
	cfg := testConfig(t)
	cfg.RawLogFile = filepath.Join(cfg.BridgeDir, "raw.log")
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	frame := make([]byte, 48)
	frame[0] = 0x01
	_, err = conn.Write(frame)
	require.NoError(t, err)

	buf := make([]byte, 48)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(buf)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(cfg.RawLogFile)
		if err != nil {
			return false
		}
		return len(data) > 0 && strings.Contains(string(data), "C->S") && strings.Contains(string(data), "S->C")
	}, time.Second, 10*time.Millisecond)
}

func TestSecondConnectionIsRejectedWhileSessionOpen(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	first, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer first.Close()

	time.Sleep(20 * time.Millisecond)

	second, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	buf := make([]byte, 1)
	_ = second.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err = second.Read(buf)
	require.Error(t, err)
}

func TestInputFrameUpdatesController(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)
	defer b.Release()

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	frame := make([]byte, 48)
	frame[0] = 0x01
	frame[2] = 0x08
	_, err = conn.Write(frame)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return b.Controller().ReadInputBytes()[2] == 0x08
	}, time.Second, 5*time.Millisecond)
}

func TestShutdownFrameReleasesBridge(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)

	conn, err := net.Dial("tcp", b.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0xFF})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := net.DialTimeout("tcp", b.Addr().String(), 50*time.Millisecond)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestReleaseIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	b, err := bridge.Start(context.Background(), cfg, gadget.NewFake(), nil)
	require.NoError(t, err)

	b.Release()
	assert.NotPanics(t, func() { b.Release() })
}
