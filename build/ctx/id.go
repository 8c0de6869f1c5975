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

package ctx

// ID is a reference counted identifier.
//
// Identifiers without user data are interned by name: creating the same name
// twice in a context returns the same identifier. Identifiers are compared by
// identity.
type ID struct {
	ctx  *Ctx
	ref  int
	name string
	user any
}

// NewID returns an identifier given its name and optional user data.
func NewID(c *Ctx, name string, user any) *ID {
	if c == nil {
		return nil
	}
	if user == nil {
		if id, ok := c.ids[name]; ok {
			id.ref++
			return id
		}
	}
	id := &ID{ctx: c.Ref(), ref: 1, name: name, user: user}
	if user == nil {
		c.ids[name] = id
	}
	return id
}

// Copy returns a new reference to the identifier.
func (id *ID) Copy() *ID {
	if id == nil {
		return nil
	}
	id.ref++
	return id
}

// Free releases a reference to the identifier. Always returns nil.
func (id *ID) Free() *ID {
	if id == nil {
		return nil
	}
	id.ref--
	if id.ref > 0 {
		return nil
	}
	if id.user == nil && id.ctx.ids[id.name] == id {
		delete(id.ctx.ids, id.name)
	}
	id.ctx.Deref()
	return nil
}

// Ctx returns the context of the identifier.
func (id *ID) Ctx() *Ctx {
	return id.ctx
}

// Name of the identifier.
func (id *ID) Name() string {
	return id.name
}

// User returns the user data attached to the identifier.
func (id *ID) User() any {
	return id.user
}

func (id *ID) String() string {
	if id == nil {
		return "<nil>"
	}
	return id.name
}
