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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/tools/astfmt"
)

type memWriter struct {
	files  map[string]string
	closed bool
}

func (w *memWriter) Write(path, content string) error {
	w.files[path] = content
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func TestCanonical(t *testing.T) {
	c := ctx.New()
	src := "{user: {op: call, args: [{id: S}]}}\n---\n[{user: {id: T}}]\n"
	got, err := astfmt.Canonical(c, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	again, err := astfmt.Canonical(c, []byte(got))
	if err != nil {
		t.Fatal(err)
	}
	if again != got {
		t.Errorf("canonical form is not stable:\n%s", cmp.Diff(got, again))
	}
	if !strings.Contains(got, "---") {
		t.Errorf("canonical form lost a document:\n%s", got)
	}
	if c.Stats().Live() != 0 {
		t.Errorf("%d objects have not been released", c.Stats().Live())
	}
}

func TestCanonicalInvalid(t *testing.T) {
	_, err := astfmt.Canonical(ctx.New(), []byte("guard: {id: c}\n"))
	if err == nil || !strings.Contains(err.Error(), "missing if then branch") {
		t.Errorf("got error %v but want a missing then branch error", err)
	}
}

func TestWalker(t *testing.T) {
	dir := t.TempDir()
	canonical, err := astfmt.Canonical(ctx.New(), []byte("{user: {id: S}}"))
	if err != nil {
		t.Fatal(err)
	}
	flow := writeFile(t, dir, "flow.yaml", "{user: {id: S}}\n")
	writeFile(t, dir, "canonical.yml", canonical)
	writeFile(t, dir, "notes.txt", "{user: {id: S}}\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := writeFile(t, filepath.Join(dir, "sub"), "nested.yaml", "[{user: {id: T}}]\n")

	fw := &memWriter{files: make(map[string]string)}
	w := astfmt.NewWalkerWithWriter(ctx.New(), fw)
	if err := w.Walk(dir); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !fw.closed {
		t.Errorf("file writer has not been closed")
	}
	if diff := cmp.Diff(w.Rewritten, []string{flow, nested}); diff != "" {
		t.Errorf("unexpected rewritten files (-got +want):\n%s", diff)
	}
	if got := fw.files[flow]; got != canonical {
		t.Errorf("got:\n%s\nbut want:\n%s", got, canonical)
	}
}

func TestWalkerWritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", "{user: {id: S}}\n")
	w := astfmt.NewWalker(ctx.New(), nil, false)
	if err := w.Walk(dir); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := astfmt.Canonical(ctx.New(), []byte("{user: {id: S}}"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Errorf("got:\n%s\nbut want:\n%s", got, want)
	}
}
