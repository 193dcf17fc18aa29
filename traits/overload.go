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
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/processing"
)

// SelectOverload walks head's overload chain (linked through Next)
// and returns the first alternative whose port-count code admits
// nIn/nOut declared ports. A class with no declared port-count code
// (every compound class, and tunnels) is unconstrained and always
// admits.
//
// If no alternative admits, head's Fallback is used; if there is no
// fallback either, a fresh reserved error class is returned.
func SelectOverload(head *graph.ElementClass, nIn, nOut int) *graph.ElementClass {
	for alt := head; alt != nil; alt = alt.Next {
		code, err := processing.ParsePortCountCode(alt.PortCountCode())
		if err != nil {
			continue
		}
		if code.Admits(nIn, nOut) {
			return alt
		}
	}
	if head.Fallback != nil {
		return head.Fallback
	}
	return graph.NewErrorClass()
}
