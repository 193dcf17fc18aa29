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
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bittoy/router/graph"
)

// Version is the driver's reported version string, overridable at
// link time with -ldflags "-X ...Version=...".
var Version = "dev"

// CLIArgs holds the parsed command line for the configuration driver
// binary, mirroring the flag surface a reader of the original project
// would expect: -f/--file, -e/--expression, -o/--output,
// -C/--clickpath, -u/--userlevel, -l/--linuxmodule, -b/--bsdmodule,
// -F/--flatten, -h/--help, -v/--version.
type CLIArgs struct {
	File       string
	Expression string
	Output     string
	ClickPath  string
	Userlevel  bool
	Linuxmodule bool
	Bsdmodule  bool
	Flatten    bool
	Help       bool
	Version    bool
}

func newFlagSet(name string, out io.Writer) (*flag.FlagSet, *CLIArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	a := &CLIArgs{}
	fs.StringVar(&a.File, "file", "", "read configuration from FILE")
	fs.StringVar(&a.File, "f", "", "read configuration from FILE (shorthand)")
	fs.StringVar(&a.Expression, "expression", "", "use EXPR as configuration text")
	fs.StringVar(&a.Expression, "e", "", "use EXPR as configuration text (shorthand)")
	fs.StringVar(&a.Output, "output", "", "write output to FILE")
	fs.StringVar(&a.Output, "o", "", "write output to FILE (shorthand)")
	fs.StringVar(&a.ClickPath, "clickpath", "", "search path for libraries, traits")
	fs.StringVar(&a.ClickPath, "C", "", "search path for libraries, traits (shorthand)")
	fs.BoolVar(&a.Userlevel, "userlevel", false, "select the user-level driver")
	fs.BoolVar(&a.Userlevel, "u", false, "select the user-level driver (shorthand)")
	fs.BoolVar(&a.Linuxmodule, "linuxmodule", false, "select the Linux-module driver")
	fs.BoolVar(&a.Linuxmodule, "l", false, "select the Linux-module driver (shorthand)")
	fs.BoolVar(&a.Bsdmodule, "bsdmodule", false, "select the BSD-module driver")
	fs.BoolVar(&a.Bsdmodule, "b", false, "select the BSD-module driver (shorthand)")
	fs.BoolVar(&a.Flatten, "flatten", false, "inline all compound classes")
	fs.BoolVar(&a.Flatten, "F", false, "inline all compound classes (shorthand)")
	fs.BoolVar(&a.Help, "help", false, "print help and exit")
	fs.BoolVar(&a.Help, "h", false, "print help and exit (shorthand)")
	fs.BoolVar(&a.Version, "version", false, "print version and exit")
	fs.BoolVar(&a.Version, "v", false, "print version and exit (shorthand)")
	return fs, a
}

// ParseArgs parses argv (excluding the program name) into a CLIArgs,
// writing usage text to out on error or on -h/--help.
func ParseArgs(argv []string, out io.Writer) (*CLIArgs, error) {
	fs, a := newFlagSet("routerctl", out)
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if a.Help {
		fs.SetOutput(out)
		fs.Usage()
	}
	return a, nil
}

// driverIndex returns the single selected driver index, or -1 if none
// of -u/-l/-b was given (meaning "any driver").
func (a *CLIArgs) driverIndex() int {
	switch {
	case a.Userlevel:
		return graph.DriverUserlevel
	case a.Linuxmodule:
		return graph.DriverLinuxmodule
	case a.Bsdmodule:
		return graph.DriverBsdmodule
	default:
		return -1
	}
}

// Run executes the configuration driver CLI end to end: parse flags,
// read the configuration text from -f/--file, -e/--expression, or
// standard input, load it, and enter the scheduler loop until ctx is
// cancelled. Returns the process exit status (0 success, 1 on any
// configuration error), matching the CLI contract exactly so a thin
// main() can call os.Exit(status) directly.
func Run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	args, err := ParseArgs(argv, stderr)
	if err != nil {
		return 1
	}
	if args.Help || args.Version {
		if args.Version {
			fmt.Fprintln(stdout, Version)
		}
		return 0
	}

	src, file, err := readConfigSource(args, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	sp := SearchPath{Dirs: ParseCLICKPATH(args.ClickPath)}
	r, err := Load(src, file,
		WithSearchPath(sp),
		WithFlatten(args.Flatten),
		WithDriver(args.driverIndex()),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if args.Output != "" {
		if err := os.WriteFile(args.Output, []byte(renderConfig(r.Graph)), 0o644); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	r.Run(ctx)
	return 0
}

// renderConfig writes back the resolved (and, if -F was given,
// flattened) element and connection list, the same information -o
// would dump in the original tool: one element declaration per line
// followed by the connection list.
func renderConfig(g *graph.Router) string {
	var b strings.Builder
	for _, e := range g.Elements() {
		if e.Tunnel || e.Dead {
			continue
		}
		className := e.Name
		if e.Class != nil {
			className = e.Class.Resolve().Name
		}
		fmt.Fprintf(&b, "%s :: %s(%s);\n", e.Name, className, e.ConfigString)
	}
	for _, c := range g.Connections {
		fmt.Fprintf(&b, "%s [%d] -> [%d] %s;\n", c.From.Element.Name, c.From.Index, c.To.Index, c.To.Element.Name)
	}
	return b.String()
}

func readConfigSource(args *CLIArgs, stdin io.Reader) (src, file string, err error) {
	switch {
	case args.Expression != "":
		return args.Expression, "<expression>", nil
	case args.File != "":
		data, err := os.ReadFile(args.File)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args.File, err)
		}
		return string(data), args.File, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}
