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

package errh

import (
	"log"
	"os"
)

// Logger is the single-method logging interface every subsystem that
// needs to log accepts, following the teacher's Config.Logger pattern:
// one method so any stdlib *log.Logger, a testing.T-backed adapter, or
// a structured logger wrapped to match trivially satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// stdLogger adapts the standard library's *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Printf(format string, v ...interface{}) {
	s.l.Printf(format, v...)
}

// NewStdLogger returns a Logger backed by log.New(os.Stderr, prefix,
// log.LstdFlags), the default every subsystem falls back to when no
// Logger option is supplied.
func NewStdLogger(prefix string) Logger {
	return stdLogger{l: log.New(os.Stderr, prefix, log.LstdFlags)}
}

// discardLogger silently drops everything; used where a caller
// explicitly wants no logging rather than the stderr default.
type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// DiscardLogger is a Logger that drops every message.
var DiscardLogger Logger = discardLogger{}
