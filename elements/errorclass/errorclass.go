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

// Package errorclass supplies the implementation registered under
// graph.ErrorClassName: the placeholder instantiated for an element
// whose class reference never resolved. Its Configure always fails,
// so a configuration that somehow reaches instantiation with an
// unresolved class still aborts cleanly instead of running with a
// silently absent element.
package errorclass

import (
	"fmt"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/packet"
)

func init() {
	if err := element.Default.Register(graph.ErrorClassName, func() element.Element { return &Element{} }); err != nil {
		panic(err)
	}
}

// Element is the reserved stand-in for a class that never resolved.
// It accepts any port count and processing code (graph.NewErrorClass
// gives it "-/-" and "a/a") so it never introduces a second,
// unrelated diagnostic on top of the one that named it.
type Element struct{}

// Configure implements element.Element: it always fails, reporting
// that the element's class never resolved.
func (e *Element) Configure(args []string, sink *errh.Sink) error {
	err := fmt.Errorf("unresolved element class")
	sink.Error(errh.Landmark{}, "%v", err)
	return err
}

// Initialize implements element.Element. Unreachable in practice
// since Configure always fails first, but defined for completeness.
func (e *Element) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (e *Element) Cleanup(stage element.CleanupStage) {}

// SimpleAction implements element.SimpleActioner so the error class
// satisfies whatever processing code its enclosing chain expected;
// it is never actually reached because Configure fails first.
func (e *Element) SimpleAction(pkt *packet.Packet) *packet.Packet { return pkt }
