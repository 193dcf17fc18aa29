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

// Package driver runs a configuration string through every stage from
// lexing to a live, running scheduler: parse, load traits, resolve
// classes, optionally flatten compounds, infer processing, instantiate
// elements, configure and initialize them, and enter the scheduler
// loop. Each stage accumulates diagnostics on a shared errh.Sink and
// the whole load aborts, unwinding any partially-built elements, the
// first time a stage ends with an error recorded.
package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/bittoy/router/confparse"
	"github.com/bittoy/router/element"
	"github.com/bittoy/router/errh"
	"github.com/bittoy/router/graph"
	"github.com/bittoy/router/parser"
	"github.com/bittoy/router/processing"
	"github.com/bittoy/router/scheduler"
	"github.com/bittoy/router/traits"
)

// Options configures Load. The zero value plus whichever Option
// functions are passed in is always usable: Registry defaults to
// element.Default and Traits to a fresh empty table.
type Options struct {
	Registry   *element.Registry
	Traits     *traits.Table
	TraitsFile string
	SearchPath SearchPath
	Flatten    bool
	// Driver selects which target (graph.DriverUserlevel and so on)
	// every reachable element class must support; a negative value
	// (the default) skips the check.
	Driver int
	// Logger receives a line for each load stage and for the
	// scheduler it hands the loaded Router; defaults to
	// errh.NewStdLogger("router: ").
	Logger errh.Logger
}

// Option configures one field of Options.
type Option func(*Options)

// WithRegistry selects the element-implementation registry used at
// instantiation time. Defaults to element.Default.
func WithRegistry(r *element.Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithTraits installs a pre-populated traits table (e.g. one a caller
// already loaded standard-library entries into) instead of the empty
// default.
func WithTraits(t *traits.Table) Option {
	return func(o *Options) { o.Traits = t }
}

// WithTraitsFile loads an additional traits registry file (XML or
// line format, auto-detected) before class resolution runs.
func WithTraitsFile(path string) Option {
	return func(o *Options) { o.TraitsFile = path }
}

// WithSearchPath sets the CLICKPATH-style search path used to resolve
// require(library ...) directives and require(package ...) traits
// augmentation.
func WithSearchPath(sp SearchPath) Option {
	return func(o *Options) { o.SearchPath = sp }
}

// WithFlatten enables the optional compound-inlining pass (S4) before
// processing inference runs.
func WithFlatten(b bool) Option {
	return func(o *Options) { o.Flatten = b }
}

// WithDriver restricts the configuration to element classes
// compatible with driver (graph.DriverUserlevel and so on).
func WithDriver(d int) Option {
	return func(o *Options) { o.Driver = d }
}

// WithLogger replaces the default stderr logger used for load-stage
// and scheduler progress messages. Pass errh.DiscardLogger to silence
// them entirely.
func WithLogger(l errh.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func newOptions(opts []Option) *Options {
	o := &Options{
		Registry: element.Default,
		Traits:   traits.NewTable(),
		Driver:   -1,
		Logger:   errh.NewStdLogger("router: "),
	}
	for _, fn := range opts {
		fn(o)
	}
	if o.Logger == nil {
		o.Logger = errh.DiscardLogger
	}
	return o
}

// Router is a fully loaded, instantiated configuration: the graph,
// the scheduler its elements registered tasks and timers on, and the
// sink every stage reported diagnostics to (including any warnings
// from a load that otherwise succeeded).
type Router struct {
	Graph     *graph.Router
	Scheduler *scheduler.Scheduler
	Sink      *errh.Sink
	// Handlers addresses every instantiated element's handler set by
	// its element path (flatten's "/"-joined names already give a
	// compound-crossing path; an unflattened top-level element's path
	// is just its own name).
	Handlers *element.Table
}

// Load runs the full configuration procedure against src (attributed
// to file for diagnostics and for resolving require(library)
// directives relative to its directory): lex and parse, load traits,
// resolve element classes, optionally flatten, infer processing,
// instantiate, configure, and initialize. It stops at the first stage
// that leaves an error on the sink, unwinding whatever elements
// already completed an earlier stage, and returns an error
// summarizing every diagnostic collected.
func Load(src, file string, opts ...Option) (*Router, error) {
	o := newOptions(opts)
	sink := errh.New()
	log := o.Logger

	log.Printf("loading %s: parsing", file)
	loader := NewLibraryLoader(o.SearchPath)
	g := parser.Parse(src, file, sink, parser.WithLibraryLoader(loader))

	if o.TraitsFile != "" {
		loadTraitsFile(o.Traits, o.TraitsFile, file, sink, log)
	}
	augmentPackageTraits(g, o, sink)

	log.Printf("loading %s: resolving element classes", file)
	traits.ResolveRouter(g, o.Traits, sink)
	if sink.HasErrors() {
		configLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("configuration errors:\n%s", sink.String())
	}

	log.Printf("loading %s: validating driver compatibility", file)
	ValidateDriver(g, o.Driver, sink)
	if sink.HasErrors() {
		configLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("configuration errors:\n%s", sink.String())
	}

	if o.Flatten {
		log.Printf("loading %s: flattening compounds", file)
		Flatten(g, sink)
		if sink.HasErrors() {
			configLoadErrorsTotal.Inc()
			return nil, fmt.Errorf("configuration errors:\n%s", sink.String())
		}
	}

	log.Printf("loading %s: inferring processing", file)
	processing.SynthesizeAndInfer(g, sink)
	if sink.HasErrors() {
		configLoadErrorsTotal.Inc()
		return nil, fmt.Errorf("configuration errors:\n%s", sink.String())
	}

	g.Freeze()

	sched := scheduler.New()
	sched.SetLogger(log)
	log.Printf("loading %s: instantiating elements", file)
	handlers, err := instantiateAndRun(g, o.Registry, sched, sink)
	if err != nil {
		configLoadErrorsTotal.Inc()
		return nil, err
	}

	log.Printf("loading %s: ready, %d element(s)", file, len(g.Elements()))
	return &Router{Graph: g, Scheduler: sched, Sink: sink, Handlers: handlers}, nil
}

// Run enters the scheduler's main loop, returning when ctx is
// cancelled or the configuration runs out of ready tasks and armed
// timers.
func (r *Router) Run(ctx context.Context) {
	r.Scheduler.Run(ctx)
}

func loadTraitsFile(table *traits.Table, path, forFile string, sink *errh.Sink, log errh.Logger) {
	log.Printf("traits: reading %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		sink.Error(errh.Landmark{File: forFile}, "loading traits file %q: %v", path, err)
		return
	}
	if err := table.Load(string(data), path); err != nil {
		sink.Error(errh.Landmark{File: forFile}, "parsing traits file %q: %v", path, err)
	}
}

// augmentPackageTraits best-effort loads a traits registry file for
// every require(package NAME) directive found in g, named NAME plus a
// ".clickmap" suffix and resolved the same way a require(library)
// directive is. A package with no matching file is not an error: not
// every package contributes additional element classes.
func augmentPackageTraits(g *graph.Router, o *Options, sink *errh.Sink) {
	for _, req := range g.Requires {
		if req.Type != "package" {
			continue
		}
		path, err := o.SearchPath.FindTraitsFile(req.Value+".clickmap", "")
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		o.Logger.Printf("traits: augmenting from package %q (%s)", req.Value, path)
		if err := o.Traits.Load(string(data), path); err != nil {
			sink.Warning(errh.Landmark{}, "loading traits for package %q: %v", req.Value, err)
		}
	}
}

// instantiateAndRun performs S7-S9: instantiate a live implementation
// for every non-tunnel, non-dead element, configure each one with its
// (variable- and computed-expression-expanded) argument list, then
// bind each to the scheduler and initialize it. A failure at any
// stage unwinds the elements that completed the previous stage, in
// reverse order, with the stage-appropriate cleanup code; full success
// instead registers every element's normal-shutdown cleanup with the
// scheduler.
func instantiateAndRun(g *graph.Router, registry *element.Registry, sched *scheduler.Scheduler, sink *errh.Sink) (*element.Table, error) {
	var instances []*element.Instance
	for _, e := range g.Elements() {
		if e.Tunnel || e.Dead || e.Class == nil {
			continue
		}
		class := e.Class.Resolve()
		name := class.Name
		if class.Traits != nil {
			name = class.Traits.Name
		}
		impl, err := registry.New(name)
		if err != nil {
			sink.Error(e.Landmark, "instantiating %s: %v", e.Name, err)
			continue
		}
		inst := element.NewInstance(e, impl)
		e.UserData = inst
		if binder, ok := impl.(element.RouterBinder); ok {
			binder.BindRouter(g, e)
		}
		if binder, ok := impl.(element.HandlerBinder); ok {
			binder.BindHandlers(inst.Handlers)
		}
		instances = append(instances, inst)
	}
	if sink.HasErrors() {
		return nil, fmt.Errorf("instantiation errors:\n%s", sink.String())
	}

	var configured []*element.Instance
	for _, inst := range instances {
		args, err := configArgs(inst.Graph, g.Scope)
		if err != nil {
			sink.Error(inst.Graph.Landmark, "expanding configuration of %s: %v", inst.Graph.Name, err)
			continue
		}
		if err := inst.Impl.Configure(args, sink); err != nil {
			sink.Error(inst.Graph.Landmark, "configuring %s: %v", inst.Graph.Name, err)
			continue
		}
		configured = append(configured, inst)
	}
	if sink.HasErrors() {
		for i := len(configured) - 1; i >= 0; i-- {
			configured[i].Impl.Cleanup(element.CleanupConfigureFailed)
		}
		return nil, fmt.Errorf("configuration errors:\n%s", sink.String())
	}

	var initialized []*element.Instance
	for _, inst := range configured {
		if binder, ok := inst.Impl.(element.SchedulerBinder); ok {
			binder.BindScheduler(sched)
		}
		if err := inst.Impl.Initialize(sink); err != nil {
			sink.Error(inst.Graph.Landmark, "initializing %s: %v", inst.Graph.Name, err)
			continue
		}
		initialized = append(initialized, inst)
	}
	if sink.HasErrors() {
		for i := len(initialized) - 1; i >= 0; i-- {
			initialized[i].Impl.Cleanup(element.CleanupInitFailed)
		}
		return nil, fmt.Errorf("initialization errors:\n%s", sink.String())
	}

	handlers := element.NewTable()
	for _, inst := range initialized {
		impl := inst.Impl
		sched.ScheduleCleanup(func() { impl.Cleanup(element.CleanupShutdown) })
		handlers.Put(inst.Graph.Name, inst.Handlers)
	}
	return handlers, nil
}

// configArgs expands e's configuration string against scope ($name
// substitution, then $[...] computed segments) and splits the result
// into the argument list an element's Configure receives.
func configArgs(e *graph.Element, scope *graph.Scope) ([]string, error) {
	expanded, err := expandVariables(e.ConfigString, scope)
	if err != nil {
		return nil, err
	}
	expanded, err = confparse.ExpandComputed(expanded, scopeEnv(scope))
	if err != nil {
		return nil, err
	}
	return confparse.SplitArgs(expanded)
}

// scopeEnv flattens scope's full parent chain into a single
// name-to-value map for $[...] expression evaluation, with an inner
// scope's definitions overriding an outer scope's.
func scopeEnv(scope *graph.Scope) map[string]any {
	var chain []*graph.Scope
	for s := scope; s != nil; s = s.Parent() {
		chain = append(chain, s)
	}
	env := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		for _, name := range s.Names() {
			if v, ok := s.Lookup(name); ok {
				env[name] = v
			}
		}
	}
	return env
}
