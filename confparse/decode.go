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

import "github.com/mitchellh/mapstructure"

// Decode maps a's keyword arguments into dst, a pointer to a typed
// option struct. Field matching uses the "json" struct tag rather
// than a dedicated "mapstructure" tag, so the same Configuration
// struct can be fed by either this path or a JSON-sourced one.
// WeaklyTypedInput is enabled because every value here started life
// as a configuration-string token (a string), so numeric and boolean
// struct fields need their usual string-to-T coercion.
func Decode(dst any, a *Args) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(a.Keyword)
}
