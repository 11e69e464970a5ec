// Package bridge implements the single-client TCP↔gadget bridge: it binds
// the USB gadget, accepts at most one connection at a time, decodes input
// frames from the client into the shared controller, and mirrors the
// controller's output state back to the client at a fixed cadence.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ds3gadget/ds3bridge/device/ds3"
	"github.com/ds3gadget/ds3bridge/function"
	"github.com/ds3gadget/ds3bridge/gadget"
	"github.com/ds3gadget/ds3bridge/internal/bridgeio"
	dslog "github.com/ds3gadget/ds3bridge/internal/log"
	"github.com/ds3gadget/ds3bridge/usb"
)

const outputSamplerInterval = 10 * time.Millisecond

// pidFunc is overridable in tests that assert on the written process file.
var pidFunc = os.Getpid

// Bridge owns the listener, the gadget, the controller (via its Function),
// the current Session, and the output sampler. Exactly one Bridge exists
// per process.
type Bridge struct {
	cfg     Config
	log     *slog.Logger
	ln      net.Listener
	adapter gadget.Adapter
	fn      *function.Function
	raw     dslog.RawLogger
	rawFile *os.File

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	session  *Session
	released bool
}

// Start binds the gadget, waits for the host to configure it, opens a TCP
// listener on an ephemeral port, writes the process discovery file, and
// begins accepting connections and sampling output. On any failure it
// unwinds everything already acquired and returns a BindFailure.
func Start(ctx context.Context, cfg Config, adapter gadget.Adapter, log *slog.Logger) (*Bridge, error) {
	if log == nil {
		log = slog.Default()
	}

	desc := usb.DS3Descriptor(ds3.DefaultVID, ds3.DefaultPID)
	if err := adapter.Bind(desc); err != nil {
		return nil, ds3.NewBindFailure("bind gadget: %v", err)
	}

	timeout := cfg.ConfiguredTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	awaitCtx, cancelAwait := context.WithTimeout(ctx, timeout)
	err := adapter.AwaitConfigured(awaitCtx)
	cancelAwait()
	if err != nil {
		_ = adapter.Unbind()
		return nil, ds3.NewBindFailure("await configured: %v", err)
	}

	ln, err := net.Listen("tcp4", "0.0.0.0:0")
	if err != nil {
		_ = adapter.Unbind()
		return nil, ds3.NewBindFailure("listen: %v", err)
	}

	controller := ds3.NewController()
	fn := function.New(controller, adapter, log)

	var rawFile *os.File
	raw := dslog.NewRaw(nil)
	if cfg.RawLogFile != "" {
		f, err := os.OpenFile(cfg.RawLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = adapter.Unbind()
			_ = ln.Close()
			return nil, ds3.NewBindFailure("open raw log file: %v", err)
		}
		rawFile = f
		raw = dslog.NewRaw(f)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	b := &Bridge{cfg: cfg, log: log, ln: ln, adapter: adapter, fn: fn, raw: raw, rawFile: rawFile, cancel: cancel}

	fn.Enable(runCtx)

	port := ln.Addr().(*net.TCPAddr).Port
	processPath := filepath.Join(cfg.BridgeDir, cfg.ProcessFile)
	if err := bridgeio.WriteProcessFile(processPath, pidFunc(), port); err != nil {
		b.Release()
		return nil, ds3.NewBindFailure("write process file: %v", err)
	}

	b.wg.Add(2)
	go b.acceptLoop(runCtx)
	go b.outputSampler(runCtx)

	return b, nil
}

// Controller exposes the shared report buffers, e.g. for an in-process CLI
// collaborator or tests.
func (b *Bridge) Controller() *ds3.Controller { return b.fn.Controller() }

// Addr returns the bound TCP address.
func (b *Bridge) Addr() net.Addr { return b.ln.Addr() }

func (b *Bridge) acceptLoop(ctx context.Context) {
	defer b.wg.Done()
	for {
		conn, err := b.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			b.log.Warn("accept error", "error", err)
			return
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}

		b.mu.Lock()
		if b.session != nil {
			b.mu.Unlock()
			b.log.Info("extra connection rejected", "remote", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		sess := newSession(conn, b.fn.Controller(), b.log, b.raw, b.handleShutdown, b.handleSessionClosed)
		b.session = sess
		b.mu.Unlock()

		b.log.Info("session opened", "remote", conn.RemoteAddr())
		sess.start()
	}
}

func (b *Bridge) outputSampler(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(outputSamplerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mu.Lock()
			sess := b.session
			b.mu.Unlock()
			if sess == nil {
				continue
			}
			sess.SendOutput(b.fn.Controller().ReadOutputBytes())
		}
	}
}

func (b *Bridge) handleSessionClosed(remote string) {
	b.mu.Lock()
	b.session = nil
	b.mu.Unlock()
	b.log.Info("session closed", "remote", remote)
}

func (b *Bridge) handleShutdown() {
	b.mu.Lock()
	b.session = nil
	b.mu.Unlock()
	b.Release()
}

// Release cancels the output sampler, releases the Session, closes the
// listener, unbinds the gadget, and releases the Function. Idempotent;
// completes only after all of those have finished.
func (b *Bridge) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	sess := b.session
	b.session = nil
	b.mu.Unlock()

	b.cancel()
	if sess != nil {
		sess.Close()
	}
	_ = b.ln.Close()
	b.wg.Wait()

	b.fn.Release()
	if err := b.adapter.Release(); err != nil {
		b.log.Warn("gadget release failed", "error", err)
	}
	if b.rawFile != nil {
		_ = b.rawFile.Close()
	}
}
