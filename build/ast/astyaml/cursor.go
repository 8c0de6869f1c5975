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

package astyaml

import (
	"github.com/gx-org/polyast/build/fmterr"
	"gopkg.in/yaml.v3"
)

func posOf(node *yaml.Node) fmterr.Pos {
	return fmterr.Pos{Line: node.Line, Column: node.Column}
}

// cursor walks the keys of a YAML mapping in order.
type cursor struct {
	node *yaml.Node
	// pos is the index of the next key in the content of the node.
	pos int
}

func newCursor(node *yaml.Node) (*cursor, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmterr.PosErrorf(posOf(node), "expecting a mapping")
	}
	return &cursor{node: node}, nil
}

// more returns true if there are keys left to read.
func (c *cursor) more() bool {
	return c.pos+1 < len(c.node.Content)
}

// next returns the next key and its value.
func (c *cursor) next() (key, val *yaml.Node, err error) {
	if !c.more() {
		return nil, nil, fmterr.PosErrorf(posOf(c.node), "missing key")
	}
	key, val = c.node.Content[c.pos], c.node.Content[c.pos+1]
	c.pos += 2
	if key.Kind != yaml.ScalarNode {
		return nil, nil, fmterr.PosErrorf(posOf(key), "expecting a scalar key")
	}
	return key, val, nil
}

// pushBack moves the cursor back by one key.
func (c *cursor) pushBack() {
	if c.pos >= 2 {
		c.pos -= 2
	}
}

// eatKey reads the next key, which has to be expected, and returns its value.
func (c *cursor) eatKey(expected string) (*yaml.Node, error) {
	if !c.more() {
		return nil, fmterr.PosErrorf(posOf(c.node), "missing key %q", expected)
	}
	key, val, err := c.next()
	if err != nil {
		return nil, err
	}
	if key.Value != expected {
		return nil, fmterr.PosErrorf(posOf(key), "expecting different key: got %q but want %q", key.Value, expected)
	}
	return val, nil
}

// end checks that all the keys of the mapping have been read.
func (c *cursor) end() error {
	if !c.more() {
		return nil
	}
	key := c.node.Content[c.pos]
	return fmterr.PosErrorf(posOf(key), "unexpected key %q", key.Value)
}

// scalar returns the value of a scalar node.
func scalar(node *yaml.Node, what string) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return "", fmterr.PosErrorf(posOf(node), "expecting %s", what)
	}
	return node.Value, nil
}
