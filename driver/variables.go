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
	"strings"

	"github.com/bittoy/router/graph"
)

// expandVariables replaces every "$name" reference in s with its
// value from scope (walking parent scopes), the same $identifier
// syntax the lexer recognizes for a Variable token outside of a
// configuration string. A "$[" is left untouched here: that syntax
// names a confparse computed segment, evaluated separately and later
// than plain variable substitution.
func expandVariables(s string, scope *graph.Scope) (string, error) {
	if !strings.ContainsRune(s, '$') {
		return s, nil
	}
	var out strings.Builder
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		if c != '$' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 >= n || s[i+1] == '[' {
			out.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < n && isVariableChar(s[j]) {
			j++
		}
		if j == i+1 {
			out.WriteByte(c)
			i++
			continue
		}
		name := s[i+1 : j]
		val, ok := scope.Lookup(name)
		if !ok {
			return "", fmt.Errorf("undefined variable $%s", name)
		}
		out.WriteString(val)
		i = j
	}
	return out.String(), nil
}

func isVariableChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
