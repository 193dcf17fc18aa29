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

// Package traits loads the global traits registry (the external file
// mapping a primitive class name to its port-count code, processing
// code, flow code, driver tags, and documentation metadata) and
// resolves a parsed Router's pending class references against it.
package traits

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/structs"

	"github.com/bittoy/router/graph"
)

// Table is the global traits table. Entries are keyed by class name;
// loading a second entry under an already-known name overwrites the
// first, mirroring how a CLICKPATH search stops at the nearest
// registry that defines a class.
type Table struct {
	mu      sync.RWMutex
	entries map[string]*graph.Traits
	order   []string

	Package   string
	SourceDir string
	DocHref   string
	Drivers   string
	Provides  string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*graph.Traits)}
}

// Add installs tr, deriving its driver mask first. Re-adding a name
// already present replaces the previous entry but keeps its position
// in the load order that Dump follows.
func (t *Table) Add(tr *graph.Traits) {
	tr.ComputeDriverMask()
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[tr.Name]; !exists {
		t.order = append(t.order, tr.Name)
	}
	t.entries[tr.Name] = tr
}

// Lookup returns the traits registered under name.
func (t *Table) Lookup(name string) (*graph.Traits, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr, ok := t.entries[name]
	return tr, ok
}

// Names returns every registered class name, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := append([]string(nil), t.order...)
	sort.Strings(out)
	return out
}

// Len reports how many classes are registered.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Dump renders every entry as a generic field map, in load order, for
// diagnostic commands that print the traits table without depending
// on its concrete shape.
func (t *Table) Dump() []map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]map[string]interface{}, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, structs.Map(t.entries[name]))
	}
	return out
}

// Load parses src (in either the XML or the line-oriented format,
// sniffed from its first non-blank character) and installs every
// entry it defines into t. origin is used only in error messages.
func (t *Table) Load(src, origin string) error {
	trimmed := strings.TrimLeft(src, " \t\r\n")
	if strings.HasPrefix(trimmed, "<") {
		return t.loadXML(src, origin)
	}
	return t.loadLineFormat(src, origin)
}

// applyEntry copies e's fields into a fresh graph.Traits and installs
// it, rejecting an entry with no name (malformed input) with an error.
func (t *Table) applyEntry(e entry) error {
	if e.Name == "" {
		return fmt.Errorf("traits entry missing name")
	}
	t.Add(&graph.Traits{
		Name:           e.Name,
		CxxClass:       e.CxxClass,
		DocName:        e.DocName,
		HeaderFile:     e.HeaderFile,
		SourceFile:     e.SourceFile,
		PortCountCode:  e.PortCountCode,
		ProcessingCode: e.ProcessingCode,
		FlowCode:       e.FlowCode,
		Flags:          e.Flags,
		Requires:       e.Requires,
		Provides:       e.Provides,
		NoExport:       e.NoExport,
		Libs:           e.Libs,
	})
	return nil
}

// entry is the format-neutral shape both the XML and line-oriented
// parsers populate before handing off to applyEntry.
type entry struct {
	Name           string
	CxxClass       string
	DocName        string
	HeaderFile     string
	SourceFile     string
	PortCountCode  string
	ProcessingCode string
	FlowCode       string
	Flags          string
	Requires       string
	Provides       string
	NoExport       bool
	Libs           string
}

// entryFields maps the column/attribute names used on disk to the
// entry struct's logical fields. Unknown names are ignored by both
// parsers, satisfying the "unknown attributes/columns are ignored"
// requirement.
var entryFields = []string{
	"name", "cxxclass", "docname", "headerfile", "sourcefile",
	"portcount", "processing", "flowcode", "flags", "requires",
	"provides", "noexport", "libs",
}

func setEntryField(e *entry, field, value string) {
	switch field {
	case "name":
		e.Name = value
	case "cxxclass":
		e.CxxClass = value
	case "docname":
		e.DocName = value
	case "headerfile":
		e.HeaderFile = value
	case "sourcefile":
		e.SourceFile = value
	case "portcount":
		e.PortCountCode = value
	case "processing":
		e.ProcessingCode = value
	case "flowcode":
		e.FlowCode = value
	case "flags":
		e.Flags = value
	case "requires":
		e.Requires = value
	case "provides":
		e.Provides = value
	case "noexport":
		e.NoExport = value != "" && value != "0" && value != "false"
	case "libs":
		e.Libs = value
	}
}
