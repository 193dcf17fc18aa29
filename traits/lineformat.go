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

package traits

import (
	"bufio"
	"fmt"
	"strings"
)

// loadLineFormat parses the `$`-directive, tab-separated traits
// registry format: `$data` fixes the column order used by every
// entry line that follows it until the next `$data`. Blank lines and
// `#`-prefixed comment lines are skipped.
func (t *Table) loadLineFormat(src, origin string) error {
	scanner := bufio.NewScanner(strings.NewReader(src))
	var columns []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "$") {
			fields := strings.Fields(trimmed)
			directive := fields[0]
			rest := fields[1:]
			switch directive {
			case "$data":
				columns = rest
			case "$sourcedir":
				if len(rest) > 0 {
					t.SourceDir = rest[0]
				}
			case "$webdoc":
				if len(rest) > 0 {
					t.DocHref = rest[0]
				}
			case "$provides":
				t.Provides = strings.Join(rest, " ")
			}
			continue
		}
		if columns == nil {
			return fmt.Errorf("%s:%d: entry line before any $data directive", origin, lineNo)
		}
		fields := strings.Split(line, "\t")
		var e entry
		for i, col := range columns {
			if i >= len(fields) {
				break
			}
			setEntryField(&e, col, strings.TrimSpace(fields[i]))
		}
		if err := t.applyEntry(e); err != nil {
			return fmt.Errorf("%s:%d: %w", origin, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", origin, err)
	}
	return nil
}
