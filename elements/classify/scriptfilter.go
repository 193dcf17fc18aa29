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

package classify

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/packet"
)

func init() {
	must(element.Default.Register("ScriptFilter", func() element.Element { return &ScriptFilter{} }))
}

const scriptFilterFuncTemplate = "function filter(data, length, paint) { %s }"

// scriptFilterConfig is decoded from ScriptFilter(SCRIPT "...").
type scriptFilterConfig struct {
	Script string `json:"SCRIPT"`
}

// ScriptFilter is a push-in, two-output boolean gate: a goja-compiled
// JavaScript predicate decides, per packet, whether it goes out port
// 0 (true) or port 1 (false). Each call gets its own goja.Runtime out
// of a pool, since a goja.Runtime is not safe for concurrent use.
type ScriptFilter struct {
	element.Base

	program *goja.Program
	pool    *sync.Pool
}

// Configure implements element.Element.
func (x *ScriptFilter) Configure(args []string, sink *errh.Sink) error {
	a := confparse.Parse(args)
	cfg := scriptFilterConfig{}
	if err := confparse.Decode(&cfg, a); err != nil {
		sink.Error(errh.Landmark{}, "ScriptFilter: %v", err)
		return err
	}

	src := fmt.Sprintf(scriptFilterFuncTemplate, cfg.Script) + "\nfilter;"
	program, err := goja.Compile("scriptfilter.js", src, true)
	if err != nil {
		sink.Error(errh.Landmark{}, "ScriptFilter: compiling SCRIPT: %v", err)
		return err
	}
	x.program = program
	x.pool = &sync.Pool{
		New: func() any {
			vm := goja.New()
			if _, err := vm.RunProgram(program); err != nil {
				panic(fmt.Sprintf("scriptfilter: running program in new VM: %v", err))
			}
			return vm
		},
	}
	return nil
}

// Initialize implements element.Element.
func (x *ScriptFilter) Initialize(sink *errh.Sink) error { return nil }

// Cleanup implements element.Element.
func (x *ScriptFilter) Cleanup(stage element.CleanupStage) {}

// Push implements element.Pusher.
func (x *ScriptFilter) Push(port int, pkt *packet.Packet) {
	pass, err := x.evaluate(pkt)
	if err != nil {
		pkt.Kill()
		return
	}
	if pass {
		x.PushOutput(0, pkt)
	} else {
		x.PushOutput(1, pkt)
	}
}

func (x *ScriptFilter) evaluate(pkt *packet.Packet) (bool, error) {
	vm := x.pool.Get().(*goja.Runtime)
	defer x.pool.Put(vm)

	fnVal := vm.Get("filter")
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return false, errors.New("scriptfilter: filter is not a function")
	}

	env := packetEnv(pkt)
	res, err := fn(goja.Undefined(), vm.ToValue(env["data"]), vm.ToValue(env["length"]), vm.ToValue(env["paint"]))
	if err != nil {
		return false, err
	}
	result, ok := res.Export().(bool)
	if !ok {
		return false, errors.New("scriptfilter: SCRIPT must return a boolean")
	}
	return result, nil
}
