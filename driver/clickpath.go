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

package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SearchPath is an ordered CLICKPATH-style list of directories
// searched for require(library) files and traits registries. An
// empty entry means "the compiled-in default directory", supplied
// separately as DefaultDir so a caller need not invent a sentinel
// path on disk.
type SearchPath struct {
	Dirs       []string
	DefaultDir string
}

// ParseCLICKPATH splits a colon-separated CLICKPATH environment value
// into a SearchPath's Dirs, preserving empty entries (each one means
// "the compiled-in default").
func ParseCLICKPATH(env string) []string {
	if env == "" {
		return nil
	}
	return strings.Split(env, ":")
}

// find resolves name relative to fromDir first, then each configured
// search directory in order, then the compiled-in default directory
// for any entry in Dirs that was the empty string. Returns the first
// existing regular file.
func (sp SearchPath) find(name, fromDir string) (string, error) {
	candidates := []string{filepath.Join(fromDir, name)}
	for _, d := range sp.Dirs {
		if d == "" {
			d = sp.DefaultDir
		}
		if d == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(d, name))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q not found in %s or search path", name, fromDir)
}

// libraryLoader adapts SearchPath to parser.LibraryLoader.
type libraryLoader struct {
	sp SearchPath
}

// NewLibraryLoader returns a parser.LibraryLoader that resolves
// require(library NAME) directives against sp exactly as
// tools/lib/lexert.cc's find_file helper does in the original
// source: current file's directory first, then each configured
// search directory in order, then the compiled-in default.
func NewLibraryLoader(sp SearchPath) *libraryLoader {
	return &libraryLoader{sp: sp}
}

func (l *libraryLoader) Load(name, fromFile string) (src, resolvedPath string, err error) {
	fromDir := filepath.Dir(fromFile)
	path, err := l.sp.find(name, fromDir)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

// FindTraitsFile resolves a traits-registry file name the same way a
// require(library) reference is resolved, for S2's package-local
// augmentation step.
func (sp SearchPath) FindTraitsFile(name, fromDir string) (string, error) {
	return sp.find(name, fromDir)
}
