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

package astfmt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/fmterr"
	"github.com/gx-org/polyast/tools/astfmt"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(astfmt.EnvIteratorType, "long")
	t.Setenv(astfmt.EnvAlwaysBlock, "true")
	t.Setenv(astfmt.EnvLogLevel, "debug")
	cfg := astfmt.DefaultConfig()
	want := astfmt.Config{
		Format:       astfmt.FormatC,
		IteratorType: "long",
		AlwaysBlock:  true,
		MacrosOnce:   true,
		LogLevel:     "debug",
	}
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Errorf("unexpected configuration (-got +want):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(astfmt.EnvIteratorType, "int")
	path := writeFile(t, t.TempDir(), "config.yaml", `
format: flow
macros: true
op_names:
  min: MIN
  fdiv_q: FLOORD
`)
	cfg, err := astfmt.LoadConfig(path, astfmt.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != astfmt.FormatFlow || !cfg.Macros || cfg.IteratorType != "int" {
		t.Errorf("unexpected configuration: %+v", cfg)
	}
	opts, err := cfg.PrinterOptions()
	if err != nil {
		t.Fatal(err)
	}
	for op, want := range map[astkind.OpType]string{
		astkind.OpMin:   "MIN",
		astkind.OpFDivQ: "FLOORD",
		astkind.OpMax:   "max",
	} {
		if got := opts.OpNames.Name(op); got != want {
			t.Errorf("operator %s: got %q but want %q", op, got, want)
		}
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  astfmt.Config
	}{
		{
			name: "format",
			cfg:  astfmt.Config{Format: "html", LogLevel: "info"},
		},
		{
			name: "operation",
			cfg:  astfmt.Config{Format: astfmt.FormatC, LogLevel: "info", OpNames: map[string]string{"plus": "+"}},
		},
		{
			name: "log level",
			cfg:  astfmt.Config{Format: astfmt.FormatC, LogLevel: "loud"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.cfg.Validate(); !fmterr.IsKind(err, fmterr.Invalid) {
				t.Errorf("got error %v but want an invalid error", err)
			}
		})
	}
	if _, err := astfmt.LoadConfig(writeFile(t, t.TempDir(), "bad.yaml", "format: [c"), astfmt.Config{}); !fmterr.IsKind(err, fmterr.Parse) {
		t.Errorf("got error %v but want a parse error", err)
	}
}
