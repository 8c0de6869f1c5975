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

// Package astyaml reads and writes trees of generated code as YAML documents.
//
// An expression is a mapping with a single key identifying its variant:
//
//	{op: add, args: [{id: i}, {val: 1}]}
//	{id: i}
//	{val: 1}
//
// A node is a mapping whose first key identifies its variant (iterator, mark,
// user, or guard) except for blocks, which are sequences of nodes.
// The reader expects the keys in the order used by the writer.
package astyaml

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

// Option configures how documents are written.
type Option func(*config)

type config struct {
	flow   bool
	indent int
}

// Flow writes documents in flow style, on a single line.
func Flow() Option {
	return func(cfg *config) {
		cfg.flow = true
	}
}

// Indent sets the number of spaces used to indent block style documents.
func Indent(n int) Option {
	return func(cfg *config) {
		cfg.indent = n
	}
}

func newConfig(opts []Option) config {
	cfg := config{indent: 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func encode(w io.Writer, cfg config, docs ...*yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(cfg.indent)
	for _, doc := range docs {
		if cfg.flow {
			doc.Style = yaml.FlowStyle
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return enc.Close()
}

func toString(doc *yaml.Node, err error, opts []Option) (string, error) {
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := encode(&buf, newConfig(opts), doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
