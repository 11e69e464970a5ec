package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ds3gadget/ds3bridge/bridge"
	"github.com/ds3gadget/ds3bridge/gadget"
	"github.com/ds3gadget/ds3bridge/internal/bridgeio"
)

// Serve is the default command: bind the gadget, bridge one TCP client,
// and run until SIGINT/SIGTERM. A client shutdown frame releases the
// bridge, but Run does not return on it; it still waits for a signal.
type Serve struct {
	Gadget gadget.Config `embed:"" prefix:"gadget."`
	Bridge bridge.Config `embed:"" prefix:"bridge."`
}

func (s *Serve) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.Bridge.ConfiguredTimeout == 0 {
		s.Bridge.ConfiguredTimeout = 5 * time.Second
	}

	stagedPath := filepath.Join(s.Bridge.BridgeDir, s.Bridge.StagedLibrary)
	logger.Info("staging native library", "src", s.Bridge.StagedLibrarySrc, "dst", stagedPath)
	if err := bridgeio.EnsureStaged(s.Bridge.StagedLibrarySrc, stagedPath); err != nil {
		logger.Error("failed to stage native library", "error", err)
		return err
	}

	adapter := gadget.NewLinux(gadget.LinuxConfig{MountPoint: s.Gadget.MountPoint})

	logger.Info("binding DS3 gadget", "mount", s.Gadget.MountPoint)
	b, err := bridge.Start(ctx, s.Bridge, adapter, logger)
	if err != nil {
		logger.Error("failed to start bridge", "error", err)
		return err
	}
	logger.Info("bridge listening", "addr", b.Addr().String())

	<-ctx.Done()
	logger.Info("shutting down")
	b.Release()
	return nil
}
