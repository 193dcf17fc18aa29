/*
 * Copyright 2025 The Router Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package element

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bittoy/router/errh"
)

// RouterGlobalPath is the reserved element path addressing the
// router itself rather than any element in it, used for handlers
// like "stop" or "list" that aren't scoped to one element.
const RouterGlobalPath = "."

// ReadHandler produces a handler's current value as a string.
type ReadHandler func() (string, error)

// WriteHandler applies a string value, reporting any rejection into
// sink rather than through a return value, the same error-sink
// convention configure/initialize use.
type WriteHandler func(value string, sink *errh.Sink)

// HandlerBinder is implemented by elements that register their own
// read/write handlers. The driver calls BindHandlers once per element,
// right after instantiation, passing the same HandlerSet later
// published into the handler Table under the element's path.
type HandlerBinder interface {
	BindHandlers(hs *HandlerSet)
}

// HandlerSet holds the named read and write handlers for one
// addressable element (or, at RouterGlobalPath, the router itself).
type HandlerSet struct {
	mu     sync.RWMutex
	reads  map[string]ReadHandler
	writes map[string]WriteHandler
}

// NewHandlerSet returns an empty handler set.
func NewHandlerSet() *HandlerSet {
	return &HandlerSet{reads: make(map[string]ReadHandler), writes: make(map[string]WriteHandler)}
}

// AddReadHandler registers fn under name, replacing any existing
// read handler of that name.
func (h *HandlerSet) AddReadHandler(name string, fn ReadHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads[name] = fn
}

// AddWriteHandler registers fn under name, replacing any existing
// write handler of that name.
func (h *HandlerSet) AddWriteHandler(name string, fn WriteHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes[name] = fn
}

// AddReadWriteHandler is shorthand for registering read and write
// handlers of the same name together.
func (h *HandlerSet) AddReadWriteHandler(name string, read ReadHandler, write WriteHandler) {
	h.AddReadHandler(name, read)
	h.AddWriteHandler(name, write)
}

// HandlerNames returns every registered handler name, read or write,
// without duplicates, unordered.
func (h *HandlerSet) HandlerNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]bool, len(h.reads)+len(h.writes))
	for name := range h.reads {
		seen[name] = true
	}
	for name := range h.writes {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// Read invokes the named read handler.
func (h *HandlerSet) Read(name string) (string, error) {
	h.mu.RLock()
	fn, ok := h.reads[name]
	h.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no read handler %q", name)
	}
	return fn()
}

// Write invokes the named write handler with value, reporting into
// sink. Returns an error only if no such handler is registered;
// rejection of the value itself is reported through sink.
func (h *HandlerSet) Write(name, value string, sink *errh.Sink) error {
	h.mu.RLock()
	fn, ok := h.writes[name]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no write handler %q", name)
	}
	fn(value, sink)
	return nil
}

// Table addresses every handler set in a router by element path: "/"
// crosses compound boundaries (an inner element's path is its
// enclosing instance's path joined with its own local name), and
// RouterGlobalPath addresses handlers that belong to the router as a
// whole rather than to any one element.
type Table struct {
	mu   sync.RWMutex
	sets map[string]*HandlerSet
}

// NewTable returns an empty handler table.
func NewTable() *Table {
	return &Table{sets: make(map[string]*HandlerSet)}
}

// JoinPath builds the path of a child element named name inside the
// compound instance at parent. JoinPath("", "x") is just "x".
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Set returns the handler set registered at path, creating an empty
// one if none exists yet.
func (t *Table) Set(path string) *HandlerSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	hs, ok := t.sets[path]
	if !ok {
		hs = NewHandlerSet()
		t.sets[path] = hs
	}
	return hs
}

// Put registers hs as the handler set for path, replacing any set
// already there. Used by the driver to publish each instantiated
// element's own handler set under its element path.
func (t *Table) Put(path string, hs *HandlerSet) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sets[path] = hs
}

// Lookup returns the handler set registered at path, if any.
func (t *Table) Lookup(path string) (*HandlerSet, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	hs, ok := t.sets[path]
	return hs, ok
}

// Read resolves (path, name) and invokes its read handler.
func (t *Table) Read(path, name string) (string, error) {
	hs, ok := t.Lookup(path)
	if !ok {
		return "", fmt.Errorf("no element at path %q", path)
	}
	return hs.Read(name)
}

// Write resolves (path, name) and invokes its write handler.
func (t *Table) Write(path, name, value string, sink *errh.Sink) error {
	hs, ok := t.Lookup(path)
	if !ok {
		return fmt.Errorf("no element at path %q", path)
	}
	return hs.Write(name, value, sink)
}

// SplitHandlerSpec parses the "element_path.handler_name" form used
// on the command line and in scripted handler reads, returning the
// path and handler name separately. The last '.' is the separator:
// element paths built from JoinPath never contain one, so this is
// unambiguous even when the path itself has '/'-separated segments.
func SplitHandlerSpec(spec string) (path, name string, err error) {
	i := strings.LastIndexByte(spec, '.')
	if i < 0 {
		return "", "", fmt.Errorf("malformed handler spec %q: missing '.'", spec)
	}
	path, name = spec[:i], spec[i+1:]
	if path == "" {
		path = RouterGlobalPath
	}
	if name == "" {
		return "", "", fmt.Errorf("malformed handler spec %q: empty handler name", spec)
	}
	return path, name, nil
}
