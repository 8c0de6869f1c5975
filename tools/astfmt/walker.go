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
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astyaml"
	"github.com/gx-org/polyast/build/ctx"
	"go.uber.org/multierr"
)

type (
	// FileWriter writes a file given its content.
	FileWriter interface {
		Write(path string, content string) error
		Close() error
	}

	// Walker walks across a file system to rewrite serialized trees in
	// their canonical form.
	Walker struct {
		ctx *ctx.Ctx
		fw  FileWriter
		// Rewritten lists the files whose content changed.
		Rewritten []string
	}

	printFileWriter struct {
		w io.Writer
	}

	osFileWriter struct{}
)

func (fw printFileWriter) Write(path string, content string) error {
	_, err := fmt.Fprintf(fw.w, "%s:\n%s\n", path, content)
	return err
}

func (printFileWriter) Close() error {
	return nil
}

func (osFileWriter) Write(path string, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

func (osFileWriter) Close() error {
	return nil
}

// NewWalker returns a new walker. If dryRun is true, the files are written
// to out instead of being rewritten.
func NewWalker(c *ctx.Ctx, out io.Writer, dryRun bool) *Walker {
	var fw FileWriter = osFileWriter{}
	if dryRun {
		fw = printFileWriter{w: out}
	}
	return NewWalkerWithWriter(c, fw)
}

// NewWalkerWithWriter returns a walker writing files with fw.
func NewWalkerWithWriter(c *ctx.Ctx, fw FileWriter) *Walker {
	return &Walker{ctx: c, fw: fw}
}

type fileInfo interface {
	IsDir() bool
	Name() string
}

// IsTreeFile returns true if the file may contain serialized trees.
func IsTreeFile(fi fileInfo) bool {
	if fi.IsDir() {
		return false
	}
	ext := filepath.Ext(fi.Name())
	return ext == ".yaml" || ext == ".yml"
}

// Canonical returns the canonical form of a stream of serialized trees.
// All the trees are validated before being written.
func Canonical(c *ctx.Ctx, data []byte) (string, error) {
	nodes, err := astyaml.ReadNodes(c, bytes.NewReader(data))
	defer func() {
		for _, node := range nodes {
			node.Free()
		}
	}()
	if err != nil {
		return "", err
	}
	for _, node := range nodes {
		err = multierr.Append(err, ast.Validate(node))
	}
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := astyaml.WriteNodes(&out, nodes); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Fix a path.
func (w *Walker) Fix(path string, info fs.FileInfo, err error) error {
	if err != nil {
		return err
	}
	if !IsTreeFile(info) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src, err := Canonical(w.ctx, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if string(data) == src {
		return nil
	}
	w.ctx.Logger().Info("rewriting file", "path", path)
	w.Rewritten = append(w.Rewritten, path)
	return w.fw.Write(path, src)
}

// Walk fixes all the files in a folder and its subfolders.
func (w *Walker) Walk(folder string) error {
	return filepath.Walk(folder, w.Fix)
}

// Close the walker.
func (w *Walker) Close() error {
	return w.fw.Close()
}
