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

// Package errh implements the positional error-reporting sink used
// throughout the lexer, parser, traits loader, processing inference
// engine, and configuration driver. It also carries Logger, the
// small logging interface the driver, scheduler, and traits loader
// accept for the informational messages that aren't diagnostics
// attached to a source position.
//
// The shape generalizes types.EngineError (a typed error carrying
// context about where it happened) from "one node, one message" to
// "one landmark, one severity, one prefix stack", and its
// accumulate-then-decide pattern mirrors builtin/aspect's
// ChainRules: callers append diagnostics to a Sink and only after
// all rules have run does the caller decide whether to abort.
package errh

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityMessage Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "message"
	}
}

// Landmark is a (file, line) pair attached to tokens, graph nodes,
// and diagnostics. The zero value means "no landmark known".
type Landmark struct {
	File string
	Line int
	// Column is best-effort and not part of the landmark identity
	// used by graph/diagnostic equality checks; it is carried through
	// for lexer-level diagnostics that want to point at a specific
	// column.
	Column int
}

func (l Landmark) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether the landmark carries no location.
func (l Landmark) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// Diagnostic is one reported message.
type Diagnostic struct {
	Landmark Landmark
	Severity Severity
	Prefix   string
	Message  string
}

func (d Diagnostic) String() string {
	loc := d.Landmark.String()
	if d.Prefix != "" {
		return fmt.Sprintf("%s: %s: %s%s", loc, d.Severity, d.Prefix, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// Sink accumulates diagnostics and tracks a prefix stack so that
// nested parse contexts (e.g. inside require(library X)) attribute
// errors correctly. Sink is not safe for concurrent use: the
// lex/parse/infer/instantiate pipeline is strictly single-threaded.
type Sink struct {
	diags    []Diagnostic
	prefixes []string
	nErrors  int
	nWarns   int
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{}
}

// PushPrefix adds a context prefix (e.g. "while loading foo.click: ")
// applied to every diagnostic reported until the matching PopPrefix.
func (s *Sink) PushPrefix(prefix string) {
	s.prefixes = append(s.prefixes, prefix)
}

// PopPrefix removes the most recently pushed prefix.
func (s *Sink) PopPrefix() {
	if len(s.prefixes) > 0 {
		s.prefixes = s.prefixes[:len(s.prefixes)-1]
	}
}

func (s *Sink) currentPrefix() string {
	if len(s.prefixes) == 0 {
		return ""
	}
	return strings.Join(s.prefixes, "")
}

func (s *Sink) report(lm Landmark, sev Severity, format string, args ...interface{}) {
	d := Diagnostic{
		Landmark: lm,
		Severity: sev,
		Prefix:   s.currentPrefix(),
		Message:  fmt.Sprintf(format, args...),
	}
	s.diags = append(s.diags, d)
	switch sev {
	case SeverityError:
		s.nErrors++
	case SeverityWarning:
		s.nWarns++
	}
}

// Error reports an error-severity diagnostic at lm.
func (s *Sink) Error(lm Landmark, format string, args ...interface{}) {
	s.report(lm, SeverityError, format, args...)
}

// Warning reports a warning-severity diagnostic at lm.
func (s *Sink) Warning(lm Landmark, format string, args ...interface{}) {
	s.report(lm, SeverityWarning, format, args...)
}

// Message reports an informational diagnostic at lm.
func (s *Sink) Message(lm Landmark, format string, args ...interface{}) {
	s.report(lm, SeverityMessage, format, args...)
}

// NErrors returns the total number of error-severity diagnostics
// reported so far.
func (s *Sink) NErrors() int {
	return s.nErrors
}

// NWarnings returns the total number of warning-severity diagnostics
// reported so far.
func (s *Sink) NWarnings() int {
	return s.nWarns
}

// HasErrors reports whether any error-severity diagnostic was
// reported.
func (s *Sink) HasErrors() bool {
	return s.nErrors > 0
}

// Diagnostics returns all diagnostics reported so far, in report
// order.
func (s *Sink) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diags...)
}

// Merge appends another sink's diagnostics into s, preserving their
// original counts. Used when a local/buffering sink (e.g. for a
// nested require(library)) forwards into the top-level sink.
func (s *Sink) Merge(other *Sink) {
	for _, d := range other.diags {
		s.diags = append(s.diags, d)
		switch d.Severity {
		case SeverityError:
			s.nErrors++
		case SeverityWarning:
			s.nWarns++
		}
	}
}

// String renders every diagnostic, one per line, suitable for
// printing to standard error by the CLI driver.
func (s *Sink) String() string {
	var b strings.Builder
	for _, d := range s.diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
