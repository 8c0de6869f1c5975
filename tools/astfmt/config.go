// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package astfmt

import (
	"log/slog"
	"os"
	"slices"

	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/fmterr"
	"github.com/gx-org/polyast/build/printer"
	"github.com/xyproto/env/v2"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

// Environment variables providing default values to the configuration.
const (
	EnvIteratorType = "POLYAST_ITERATOR_TYPE"
	EnvAlwaysBlock  = "POLYAST_ALWAYS_BLOCK"
	EnvLogLevel     = "POLYAST_LOG_LEVEL"
)

// Output formats.
const (
	FormatC    = "c"
	FormatYAML = "yaml"
	FormatFlow = "flow"
)

// Config configures how trees are formatted.
type Config struct {
	Format         string            `yaml:"format"`
	IteratorType   string            `yaml:"iterator_type"`
	AlwaysBlock    bool              `yaml:"always_block"`
	OutermostBlock bool              `yaml:"outermost_block"`
	Macros         bool              `yaml:"macros"`
	MacrosOnce     bool              `yaml:"macros_once"`
	OpNames        map[string]string `yaml:"op_names"`
	LogLevel       string            `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no configuration file
// is given. Defaults are read from the environment.
func DefaultConfig() Config {
	env.Load()
	return Config{
		Format:       FormatC,
		IteratorType: env.Str(EnvIteratorType, printer.DefaultIteratorType),
		AlwaysBlock:  env.Bool(EnvAlwaysBlock),
		MacrosOnce:   true,
		LogLevel:     env.Str(EnvLogLevel, "warn"),
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep the value they have in cfg.
func LoadConfig(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmterr.Wrap(fmterr.Parse, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (cfg Config) Validate() error {
	switch cfg.Format {
	case FormatC, FormatYAML, FormatFlow:
	default:
		return fmterr.Invalidf("unknown format %q: want %s, %s, or %s", cfg.Format, FormatC, FormatYAML, FormatFlow)
	}
	_, err := cfg.PrinterOptions()
	if err != nil {
		return err
	}
	_, err = cfg.Level()
	return err
}

// PrinterOptions returns the options of the C printer.
func (cfg Config) PrinterOptions() (printer.Options, error) {
	opts := printer.Options{
		IteratorType:   cfg.IteratorType,
		AlwaysBlock:    cfg.AlwaysBlock,
		OutermostBlock: cfg.OutermostBlock,
		MacrosOnce:     cfg.MacrosOnce,
	}
	names := maps.Keys(cfg.OpNames)
	slices.Sort(names)
	for _, name := range names {
		op := astkind.OpFromString(name)
		if op == astkind.OpError {
			return opts, fmterr.Invalidf("unknown operation %q", name)
		}
		if err := opts.OpNames.Set(op, cfg.OpNames[name]); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Level returns the logging level of the configuration.
func (cfg Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return level, fmterr.Invalidf("invalid log level %q", cfg.LogLevel)
	}
	return level, nil
}
