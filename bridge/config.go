package bridge

import "time"

// Config names the filesystem locations the Bridge's external
// collaborators expect, loadable from flags or a JSON/YAML/TOML file the
// way the teacher's cmd/viiper wires kong.Configuration.
type Config struct {
	BridgeDir        string `json:"bridge_dir" yaml:"bridge_dir" toml:"bridge_dir" default:"/data/local/tmp/ds3_bridge"`
	ProcessFile      string `json:"process_file" yaml:"process_file" toml:"process_file" default:"process.txt"`
	StagedLibrary    string `json:"staged_library" yaml:"staged_library" toml:"staged_library" default:"libaio.so"`
	StagedLibrarySrc string `json:"staged_library_src" yaml:"staged_library_src" toml:"staged_library_src" default:"./lib/libaio.so" help:"source path of the shared native library to stage into bridge_dir/staged_library if missing"`

	ConfiguredTimeout time.Duration `json:"configured_timeout" yaml:"configured_timeout" toml:"configured_timeout" default:"5s"`

	RawLogFile string `json:"raw_log_file" yaml:"raw_log_file" toml:"raw_log_file" help:"optional path to append a hex dump of every client frame"`
}
