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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/bittoy/router/elements/standard"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/traits"
)

// standardTraits builds the minimal traits table the driver tests
// need: the handful of classes elements/standard actually registers
// implementations for, with the port-count and processing codes that
// make their connections in the test configs valid.
func standardTraits(t *testing.T) *traits.Table {
	t.Helper()
	table := traits.NewTable()
	src := "$data name portcount processing\n" +
		"InfiniteSource\t0/1\tx/a\n" +
		"Counter\t1/1\ta/a\n" +
		"Discard\t1/0\ta/h\n" +
		"Queue\t1/1\th/l\n"
	require.NoError(t, table.Load(src, "standard.click"))
	return table
}

func TestLoadRunsSinglePushChainToCompletion(t *testing.T) {
	r, err := Load(`src :: InfiniteSource(DATA hi, LIMIT 2);
src -> Counter -> Discard;`, "t.click", WithTraits(standardTraits(t)))
	require.NoError(t, err)
	require.NotNil(t, r)

	for i := 0; i < 5 && r.Scheduler.ReadyCount() > 0; i++ {
		r.Scheduler.Tick()
	}

	counter, ok := r.Graph.ElementByName("Counter@1")
	require.True(t, ok)
	inst, ok := counter.UserData.(*element.Instance)
	require.True(t, ok)
	assert.EqualValues(t, 2, inst.Impl.(interface{ Count() int64 }).Count())
}

func TestLoadReportsUnresolvedClassAsError(t *testing.T) {
	_, err := Load(`a :: NoSuchClass;`, "t.click", WithTraits(standardTraits(t)))
	assert.Error(t, err)
}

func TestLoadReportsProcessingMismatchAsError(t *testing.T) {
	// A push output wired straight to a pull input is a processing
	// mismatch: both ends are already definite (h and l, not
	// agnostic), so no amount of propagation or default resolution can
	// reconcile them.
	badTable := traits.NewTable()
	src := "$data name portcount processing\n" +
		"InfiniteSource\t0/1\th/h\n" +
		"PullSink\t1/0\tl/l\n"
	require.NoError(t, badTable.Load(src, "bad.click"))

	_, err := Load(`InfiniteSource -> PullSink;`, "t.click", WithTraits(badTable))
	assert.Error(t, err)
}

func TestLoadHonorsDriverCompatibility(t *testing.T) {
	table := traits.NewTable()
	src := "$data name portcount processing provides\n" +
		"InfiniteSource\t0/1\tx/a\tlinuxmodule\n" +
		"Discard\t1/0\ta/h\t\n"
	require.NoError(t, table.Load(src, "driveronly.click"))

	_, err := Load(`InfiniteSource -> Discard;`, "t.click",
		WithTraits(table), WithDriver(graph.DriverUserlevel))
	assert.Error(t, err)

	r, err := Load(`InfiniteSource -> Discard;`, "t.click",
		WithTraits(table), WithDriver(graph.DriverLinuxmodule))
	assert.NoError(t, err)
	assert.NotNil(t, r)
}

func TestLoadPublishesHandlersByElementPath(t *testing.T) {
	r, err := Load(`src :: InfiniteSource(DATA hi, LIMIT 1);
src -> Counter -> Discard;`, "t.click", WithTraits(standardTraits(t)))
	require.NoError(t, err)

	hs, ok := r.Handlers.Lookup("src")
	require.True(t, ok)
	_, err = hs.Read("sent")
	assert.NoError(t, err)
}

func TestLoadWithFlattenInlinesCompound(t *testing.T) {
	table := standardTraits(t)
	r, err := Load(`elementclass Pair { input -> Counter -> output }
src :: InfiniteSource(DATA hi, LIMIT 1);
src -> Pair -> Discard;`, "t.click", WithTraits(table), WithFlatten(true))
	require.NoError(t, err)

	for _, e := range r.Graph.Elements() {
		if e.Class != nil {
			assert.NotEqual(t, graph.ClassCompound, e.Class.Resolve().Kind)
		}
	}
}
