package bridge

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ds3gadget/ds3bridge/device/ds3"
	dslog "github.com/ds3gadget/ds3bridge/internal/log"
)

const writeTimeout = 20 * time.Millisecond

// Session owns one client socket. Generalizes the teacher's
// apiclient.Transport/DeviceStream bidirectional-wrapper shape to the
// server side: a read loop feeding a controller, and a SendOutput writer
// the output sampler calls from another goroutine.
type Session struct {
	conn       net.Conn
	controller *ds3.Controller
	log        *slog.Logger
	raw        dslog.RawLogger
	onShutdown func()
	onClosed   func(remote string)

	mu       sync.Mutex
	released bool
}

func newSession(conn net.Conn, controller *ds3.Controller, log *slog.Logger, raw dslog.RawLogger, onShutdown func(), onClosed func(string)) *Session {
	if raw == nil {
		raw = dslog.NewRaw(nil)
	}
	return &Session{
		conn:       conn,
		controller: controller,
		log:        log.With("remote", conn.RemoteAddr().String()),
		raw:        raw,
		onShutdown: onShutdown,
		onClosed:   onClosed,
	}
}

// start launches the read loop in its own goroutine.
func (s *Session) start() {
	go s.readLoop()
}

func (s *Session) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			s.handleReadError(err)
			return
		}

		s.raw.Log(true, buf[:n])

		kind, chunk := decodeFrame(buf[:n])
		switch kind {
		case frameInput:
			if err := s.controller.ApplyInputFrame(chunk); err != nil {
				s.log.Warn("rejected input frame", "error", err)
			}
		case frameShutdown:
			s.log.Info("shutdown frame received")
			s.Close()
			go s.onShutdown()
			return
		case frameDrop:
			s.log.Warn("dropped malformed frame", "len", n)
		}
	}
}

func (s *Session) handleReadError(err error) {
	remote := s.conn.RemoteAddr().String()
	s.Close()
	if !errors.Is(err, net.ErrClosed) {
		s.log.Warn("session read failed", "error", err)
	}
	s.onClosed(remote)
}

// SendOutput copies payload into a fresh buffer and writes it to the
// client with a short deadline so a stalled client cannot block the
// sampler. Returns false if the session is already released.
func (s *Session) SendOutput(payload []byte) bool {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	if len(payload) != frameSize {
		return false
	}
	buf := make([]byte, frameSize)
	copy(buf, payload)

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := s.conn.Write(buf)
	if err != nil {
		s.log.Warn("dropped output sample", "error", err)
		return false
	}
	s.raw.Log(false, buf)
	return true
}

// Close closes the socket. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	_ = s.conn.Close()
}
