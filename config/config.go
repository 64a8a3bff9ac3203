// Package config loads WebCPU settings from CUE files.
package config

import (
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/jemendoz/WebCPU/emulator"
)

// Schema closes the set of recognised settings.
const Schema = `
max_steps?: int & >=0
verbose?:   bool
log_level?: "debug" | "info" | "warn" | "error"
assemble?:  bool
listen?:    string
max_conns?: int & >0
`

// Config holds the settings of the WebCPU commands.
type Config struct {
	MaxSteps int    // Instruction budget of a bounded run, unbounded if 0.
	Verbose  bool   // Trace every instruction.
	LogLevel string // Minimum log level.
	Assemble bool   // Read programs with the assembler syntax.
	Listen   string // HTTP listen address, empty to not serve.
	MaxConns int    // Concurrent HTTP connection limit.
}

// file is the on-disk form; absent fields are left at their defaults.
type file struct {
	MaxSteps *int    `json:"max_steps"`
	Verbose  *bool   `json:"verbose"`
	LogLevel *string `json:"log_level"`
	Assemble *bool   `json:"assemble"`
	Listen   *string `json:"listen"`
	MaxConns *int    `json:"max_conns"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxSteps: emulator.DEFAULT_MAX_STEPS,
		LogLevel: "info",
		MaxConns: 16,
	}
}

// Load reads each CUE file in order on top of the defaults.
// Later files override earlier ones.
func Load(paths ...string) (cfg Config, err error) {
	cfg = Default()

	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + Schema + "})")
	if err = schema.Err(); err != nil {
		return
	}

	for _, path := range paths {
		var content []byte
		content, err = os.ReadFile(path)
		if err != nil {
			return
		}

		value := ctx.CompileBytes(content, cue.Filename(path))
		if err = value.Err(); err != nil {
			return
		}

		value = schema.Unify(value)
		if err = value.Validate(cue.Concrete(true)); err != nil {
			return
		}

		var fc file
		if err = value.Decode(&fc); err != nil {
			return
		}
		cfg.merge(fc)
	}

	return
}

func (cfg *Config) merge(fc file) {
	if fc.MaxSteps != nil {
		cfg.MaxSteps = *fc.MaxSteps
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Assemble != nil {
		cfg.Assemble = *fc.Assemble
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.MaxConns != nil {
		cfg.MaxConns = *fc.MaxConns
	}
}
