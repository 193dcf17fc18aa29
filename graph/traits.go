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

package graph

import "strings"

// Well-known driver/provision tags. The order here fixes each tag's
// bit position in a Traits' DriverMask.
const (
	DriverUserlevel = iota
	DriverLinuxmodule
	DriverBsdmodule
	DriverNS
	DriverMultithread
	driverCount
)

var driverNames = [...]string{"userlevel", "linuxmodule", "bsdmodule", "ns", "multithread"}

// DriverByName returns the driver index for name, or -1 if unknown.
func DriverByName(name string) int {
	for i, n := range driverNames {
		if n == name {
			return i
		}
	}
	return -1
}

// DriverName returns the canonical name for a driver index.
func DriverName(d int) string {
	if d >= 0 && d < driverCount {
		return driverNames[d]
	}
	return "??"
}

// Traits is per-class metadata loaded from the traits registry: port-
// count code, processing code, flow code, requirement/provision
// lists, driver mask, documentation metadata.
type Traits struct {
	Name          string
	CxxClass      string // carried through for registries that still use it as a foreign key
	DocName       string
	HeaderFile    string
	SourceFile    string
	PortCountCode string
	ProcessingCode string
	FlowCode      string
	Flags         string
	Requires      string
	Provides      string
	NoExport      bool
	Libs          string

	// DriverMask is derived from Requires/Provides by treating the
	// well-known driver tags specially.
	DriverMask int
}

// ComputeDriverMask derives DriverMask from the Provides field (a
// class that doesn't explicitly provide a driver tag is assumed
// compatible with all drivers, matching Click's elementmap default).
func (t *Traits) ComputeDriverMask() {
	mask := 0
	for _, tag := range splitWords(t.Provides) {
		if d := DriverByName(tag); d >= 0 {
			mask |= 1 << d
		}
	}
	if mask == 0 {
		mask = (1 << driverCount) - 1
	}
	t.DriverMask = mask
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ' ' || r == '\t' || r == ','
	})
}

// Requires_ reports whether the traits entry's Requires field names n.
// (Named with a trailing underscore to avoid colliding with the
// struct field Requires.)
func (t *Traits) Requires_(n string) bool {
	return containsWord(t.Requires, n)
}

// Provides_ reports whether the traits entry provides n, including
// the implicit self-provision of its own class name (mirrors
// original_source/tools/lib/etraits.cc ElementTraits::provides).
func (t *Traits) Provides_(n string) bool {
	if n == t.Name {
		return true
	}
	return containsWord(t.Provides, n)
}

func containsWord(haystack, word string) bool {
	for _, w := range splitWords(haystack) {
		if w == word {
			return true
		}
	}
	return false
}

// CompatibleWithDriver reports whether this class can be used when
// targeting driver d.
func (t *Traits) CompatibleWithDriver(d int) bool {
	if d < 0 {
		return true
	}
	return t.DriverMask&(1<<d) != 0
}
