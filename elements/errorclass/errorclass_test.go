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

package errorclass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
)

func TestConfigureAlwaysFails(t *testing.T) {
	e := &Element{}
	sink := errh.New()
	err := e.Configure(nil, sink)
	assert.Error(t, err)
	assert.True(t, sink.HasErrors())
}

func TestRegisteredUnderReservedErrorClassName(t *testing.T) {
	assert.True(t, element.Default.Has(graph.ErrorClassName))
	impl, err := element.Default.New(graph.ErrorClassName)
	assert.NoError(t, err)
	assert.IsType(t, &Element{}, impl)
}
