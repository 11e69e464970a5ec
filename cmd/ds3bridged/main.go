// Command ds3bridged binds the emulated DS3 gadget, accepts a single TCP
// client, and bridges input/output reports between them until shutdown.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/ds3gadget/ds3bridge/internal/configpaths"
	dslog "github.com/ds3gadget/ds3bridge/internal/log"
)

// CLI is the top-level command tree: `ds3bridged serve` (the default) and
// `ds3bridged config init` for scaffolding a config file.
type CLI struct {
	Serve  Serve         `cmd:"" default:"1" help:"Bind the gadget and bridge a TCP client to it"`
	Config ConfigCommand `cmd:"" help:"Configuration file management"`

	ConfigFile string `name:"config" help:"Path to a JSON/YAML/TOML config file" env:"DS3BRIDGE_CONFIG"`
	LogLevel   string `name:"log-level" help:"trace, debug, info, warn, error" default:"info" env:"DS3BRIDGE_LOG_LEVEL"`
	LogFile    string `name:"log-file" help:"Also write logs to this file; console logs then go to stderr only" env:"DS3BRIDGE_LOG_FILE"`
}

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.CandidatePaths(userCfg)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ds3bridged"),
		kong.Description("DualShock 3 USB gadget emulator and TCP bridge"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := dslog.SetupLogger(cli.LogLevel, cli.LogFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if len(a) > len("--config=") && a[:len("--config=")] == "--config=" {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("DS3BRIDGE_CONFIG")
}
