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

// Package ctx provides the context shared by all the objects of a tree:
// reference counting of the session, last error state, identifier
// interning, allocation statistics and logging.
//
// A context is not safe for concurrent mutation. Only its statistics may be
// read from other goroutines.
package ctx

import (
	"io"
	"log/slog"
)

type (
	// Ctx is a reference counted session token.
	Ctx struct {
		ref    int
		err    error
		ids    map[string]*ID
		stats  Stats
		logger *slog.Logger
	}

	// Option configures a new context.
	Option func(*Ctx)
)

// WithLogger sets the logger of the context.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Ctx) {
		c.logger = logger
	}
}

// New returns a new context with a reference count of 1.
func New(opts ...Option) *Ctx {
	c := &Ctx{
		ref:    1,
		ids:    make(map[string]*ID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ref increments the reference count of the context and returns it.
func (c *Ctx) Ref() *Ctx {
	c.ref++
	return c
}

// Deref decrements the reference count of the context.
func (c *Ctx) Deref() {
	if c.ref <= 0 {
		c.logger.Error("context dereferenced too many times")
		return
	}
	c.ref--
}

// Refs returns the number of references to the context.
func (c *Ctx) Refs() int {
	return c.ref
}

// Err returns the last error recorded on the context.
func (c *Ctx) Err() error {
	return c.err
}

// SetErr records an error on the context.
func (c *Ctx) SetErr(err error) {
	if err == nil {
		return
	}
	c.err = err
	c.logger.Debug("error recorded", "error", err)
}

// ResetErr clears the last error.
func (c *Ctx) ResetErr() {
	c.err = nil
}

// Logger returns the logger of the context.
func (c *Ctx) Logger() *slog.Logger {
	return c.logger
}

// Stats returns the allocation statistics of the context.
func (c *Ctx) Stats() *Stats {
	return &c.stats
}

// NumIDs returns the number of interned identifiers alive.
func (c *Ctx) NumIDs() int {
	return len(c.ids)
}
