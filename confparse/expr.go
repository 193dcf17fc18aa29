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

package confparse

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// ExpandComputed scans value for "$[...]" segments and replaces each
// with the string form of evaluating the bracketed expr-lang
// expression against env, once, at configure time. A value with no
// "$[" is returned unchanged without invoking expr at all, so plain
// configuration strings pay nothing for this feature.
func ExpandComputed(value string, env map[string]any) (string, error) {
	if !strings.Contains(value, "$[") {
		return value, nil
	}
	var out strings.Builder
	i := 0
	n := len(value)
	for i < n {
		start := strings.Index(value[i:], "$[")
		if start < 0 {
			out.WriteString(value[i:])
			break
		}
		start += i
		out.WriteString(value[i:start])
		depth := 1
		j := start + 2
		for j < n && depth > 0 {
			switch value[j] {
			case '[':
				depth++
			case ']':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if depth != 0 {
			return "", fmt.Errorf("unterminated $[...] computed segment in %q", value)
		}
		exprSrc := value[start+2 : j]
		program, err := expr.Compile(exprSrc, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("compiling computed segment %q: %w", exprSrc, err)
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("evaluating computed segment %q: %w", exprSrc, err)
		}
		out.WriteString(fmt.Sprint(result))
		i = j + 1
	}
	return out.String(), nil
}

// ExpandAll applies ExpandComputed to every keyword and positional
// value in a, returning a new Args so the caller's original strings
// stay available for diagnostics.
func ExpandAll(a *Args, env map[string]any) (*Args, error) {
	out := &Args{
		Keyword:    make(map[string]string, len(a.Keyword)),
		Positional: make([]string, len(a.Positional)),
		Order:      append([]string(nil), a.Order...),
	}
	for k, v := range a.Keyword {
		expanded, err := ExpandComputed(v, env)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", k, err)
		}
		out.Keyword[k] = expanded
	}
	for i, v := range a.Positional {
		expanded, err := ExpandComputed(v, env)
		if err != nil {
			return nil, fmt.Errorf("positional argument %d: %w", i, err)
		}
		out.Positional[i] = expanded
	}
	return out, nil
}
