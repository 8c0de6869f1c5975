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

// Package astfmt formats serialized trees of generated code.
//
// Trees are read from YAML documents and written as C code or as
// canonical YAML documents.
package astfmt

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astyaml"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
	"github.com/gx-org/polyast/build/metrics"
	"github.com/gx-org/polyast/build/printer"
	"github.com/gx-org/polyast/tools/astflag"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/multierr"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	cfg    Config
	ctx    *ctx.Ctx
	reg    *prometheus.Registry
	logger *slog.Logger
}

type flags struct {
	fs *flag.FlagSet

	format         *string
	macros         *bool
	alwaysBlock    *bool
	iteratorType   *string
	opNames        map[string]string
	config         *string
	diff           *string
	metrics        *bool
	folder         *string
	dryRun         *bool
	outermostBlock *bool
}

func newFlags(stderr io.Writer, cfg Config) *flags {
	fs := flag.NewFlagSet("astfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &flags{
		fs:             fs,
		format:         fs.String("format", cfg.Format, "output format: c, yaml, or flow"),
		macros:         fs.Bool("macros", cfg.Macros, "print the definitions of the macros used by the C code"),
		alwaysBlock:    fs.Bool("always_block", cfg.AlwaysBlock, "print braces around all the bodies"),
		outermostBlock: fs.Bool("outermost_block", cfg.OutermostBlock, "print the braces of the outermost block"),
		iteratorType:   fs.String("iterator_type", cfg.IteratorType, "C type of loop iterators"),
		opNames:        astflag.StringMap(fs, "op_names", "C spelling of operators, for example min=MIN,max=MAX"),
		config:         fs.String("config", "", "YAML configuration file"),
		diff:           fs.String("diff", "", "print the difference between the C code of the input and of this file"),
		metrics:        fs.Bool("metrics", false, "print allocation metrics on the standard error"),
		folder:         fs.String("folder", "", "rewrite all the YAML files of a folder in their canonical form"),
		dryRun:         fs.Bool("dry_run", true, "print rewritten files on the standard output instead of writing them"),
	}
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: astfmt [flags] [file.yaml...]\n")
		fs.PrintDefaults()
	}
	return f
}

// apply overrides the configuration with the flags set on the command line.
func (f *flags) apply(cfg Config) Config {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "format":
			cfg.Format = *f.format
		case "macros":
			cfg.Macros = *f.macros
		case "always_block":
			cfg.AlwaysBlock = *f.alwaysBlock
		case "outermost_block":
			cfg.OutermostBlock = *f.outermostBlock
		case "iterator_type":
			cfg.IteratorType = *f.iteratorType
		}
	})
	if len(f.opNames) > 0 && cfg.OpNames == nil {
		cfg.OpNames = make(map[string]string)
	}
	for op, name := range f.opNames {
		cfg.OpNames[op] = name
	}
	return cfg
}

// Run runs astfmt given its command line arguments and returns an exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	f := newFlags(stderr, DefaultConfig())
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if err := a.run(f); err != nil {
		a.report(err)
		return ExitError
	}
	return ExitOK
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func (a *app) report(err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if isTerminal(a.stderr) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	level, levelErr := a.cfg.Level()
	verbose := levelErr == nil && level <= slog.LevelDebug
	for _, err := range multierr.Errors(err) {
		prefix.Fprint(a.stderr, "error: ")
		if verbose {
			fmt.Fprintln(a.stderr, fmterr.Verbose(err))
		} else {
			fmt.Fprintln(a.stderr, err)
		}
	}
}

func (a *app) setup(f *flags) error {
	cfg := DefaultConfig()
	if *f.config != "" {
		var err error
		if cfg, err = LoadConfig(*f.config, cfg); err != nil {
			return err
		}
	}
	a.cfg = f.apply(cfg)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	level, _ := a.cfg.Level()
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.ctx = ctx.New(ctx.WithLogger(a.logger))
	if *f.metrics {
		a.reg = prometheus.NewRegistry()
		if _, err := metrics.Register(a.reg, a.ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) run(f *flags) error {
	if err := a.setup(f); err != nil {
		return err
	}
	var err error
	switch {
	case *f.folder != "":
		err = a.walk(*f.folder, *f.dryRun)
	case *f.diff != "":
		err = a.diff(f.fs.Args(), *f.diff)
	default:
		err = a.format(f.fs.Args())
	}
	if a.reg != nil {
		err = multierr.Append(err, writeMetrics(a.stderr, a.reg))
	}
	return err
}

func (a *app) walk(folder string, dryRun bool) error {
	w := NewWalker(a.ctx, a.stdout, dryRun)
	return multierr.Append(w.Walk(folder), w.Close())
}

// read reads all the trees of a file. The standard input is read if path
// is empty or "-".
func (a *app) read(path string) ([]*ast.Node, error) {
	r := a.stdin
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	a.logger.Debug("reading trees", "path", path)
	nodes, err := astyaml.ReadNodes(a.ctx, r)
	for _, node := range nodes {
		err = multierr.Append(err, ast.Validate(node))
	}
	if err != nil {
		freeAll(nodes)
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return nodes, nil
}

func freeAll(nodes []*ast.Node) {
	for _, node := range nodes {
		node.Free()
	}
}

func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{""}
	}
	return args
}

func (a *app) format(args []string) error {
	for _, path := range inputs(args) {
		nodes, err := a.read(path)
		if err != nil {
			return err
		}
		err = a.write(a.stdout, nodes)
		freeAll(nodes)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *app) write(w io.Writer, nodes []*ast.Node) error {
	switch a.cfg.Format {
	case FormatYAML:
		return astyaml.WriteNodes(w, nodes)
	case FormatFlow:
		return astyaml.WriteNodes(w, nodes, astyaml.Flow())
	}
	opts, err := a.cfg.PrinterOptions()
	if err != nil {
		return err
	}
	p := printer.New(w, opts)
	for _, node := range nodes {
		if a.cfg.Macros {
			if err := p.PrintNodeMacros(node); err != nil {
				return err
			}
		}
		if err := p.PrintNode(node); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) toC(path string) (string, error) {
	nodes, err := a.read(path)
	if err != nil {
		return "", err
	}
	defer freeAll(nodes)
	opts, err := a.cfg.PrinterOptions()
	if err != nil {
		return "", err
	}
	var out strings.Builder
	p := printer.New(&out, opts)
	for _, node := range nodes {
		if err := p.PrintNode(node); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

func (a *app) diff(args []string, other string) error {
	if len(args) > 1 {
		return fmt.Errorf("--diff compares a single input with %s: got %d inputs", other, len(args))
	}
	from, err := a.toC(inputs(args)[0])
	if err != nil {
		return err
	}
	to, err := a.toC(other)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.stdout, LineDiff(from, to))
	return err
}

// LineDiff returns the line by line difference between two texts.
// Removed lines start with -, added lines with +, and common lines with a
// space.
func LineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	fromChars, toChars, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(fromChars, toChars, false), lines)
	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
