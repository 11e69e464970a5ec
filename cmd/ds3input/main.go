// Command ds3input is the interactive CLI collaborator: it dials a running
// ds3bridged's TCP port, reads stdin lines, and writes 48-byte input
// frames mapping shorthand letters and full button names to presses.
package main

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ds3gadget/ds3bridge/device/ds3"
	"github.com/ds3gadget/ds3bridge/internal/bridgeio"
)

// CLI flags: either dial addr directly, or discover it from the bridge's
// process file.
type CLI struct {
	Addr        string `help:"host:port of a running ds3bridged" xor:"target"`
	ProcessFile string `help:"well-known process.txt to discover the port from" xor:"target" default:"/data/local/tmp/ds3_bridge/process.txt"`
}

func main() {
	var cli CLI
	kong.Parse(&cli, kong.Name("ds3input"), kong.Description("Interactive input injector for ds3bridged"))

	addr := cli.Addr
	if addr == "" {
		_, port, err := bridgeio.ReadProcessFile(cli.ProcessFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ds3input: could not discover bridge port:", err)
			os.Exit(1)
		}
		addr = fmt.Sprintf("127.0.0.1:%d", port)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ds3input: dial:", err)
		os.Exit(1)
	}
	defer conn.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		frame := make([]byte, 48)
		frame[0] = 0xFF
		_, _ = conn.Write(frame)
		_ = conn.Close()
		os.Exit(0)
	}()

	controller := ds3.NewController()
	controller.SetSticks(127, 127, 127, 127)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if line == "stk" {
			lx, ly := uint8(rand.IntN(256)), uint8(rand.IntN(256))
			rx, ry := uint8(rand.IntN(256)), uint8(rand.IntN(256))
			controller.SetSticks(lx, ly, rx, ry)
		} else if b, ok := lineToButton(line); ok {
			controller.SetButton(b, true, nil)
			go func(b ds3.Button) {
				time.Sleep(50 * time.Millisecond)
				controller.SetButton(b, false, nil)
			}(b)
		} else {
			fmt.Fprintln(os.Stderr, "ds3input: unrecognized input:", line)
			continue
		}

		frame := controller.ReadInputBytes()[0:48]
		if _, err := conn.Write(frame); err != nil {
			fmt.Fprintln(os.Stderr, "ds3input: write:", err)
			os.Exit(1)
		}
	}

	frame := make([]byte, 48)
	frame[0] = 0xFF
	_, _ = conn.Write(frame)
}
