/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command membergen registers the selectors of Go packages by site so that
// membername resolves them without reading source at run time.
//
//	membergen ./...
//	membergen --check --tests ./...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"

	"dirpx.dev/membername/internal/gen"
)

var (
	// ErrUnresolved is returned when any selector has a diagnostic.
	ErrUnresolved = errors.New("selectors could not be resolved")
	// ErrOutOfDate is returned by --check when a generated file differs.
	ErrOutOfDate = errors.New("generated files are out of date")
)

// CLI represents the command-line interface
type CLI struct {
	Dir      string   `help:"Directory to load packages from" short:"C" type:"path"`
	Tests    bool     `help:"Include test files"`
	Output   string   `help:"Generated file name" short:"o"`
	Config   string   `help:"YAML configuration file" short:"c" type:"path"`
	Check    bool     `help:"Fail if generated files are out of date instead of writing them"`
	Dump     bool     `help:"Print the expression tree of every selector"`
	Verbose  bool     `help:"Enable debug logging" short:"v"`
	Patterns []string `arg:"" optional:"" help:"Package patterns (default ./...)"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("membergen"),
		kong.Description("Generate site registrations for membername selectors."),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.FatalIfErrorf(run(ctx, &cli))
}

func run(ctx context.Context, cli *CLI) error {
	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Str("command", "membergen").Logger()

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cfg = cli.merge(cfg)

	g := gen.New(cfg, gen.WithLogger(logger))
	res, err := g.Run(ctx)
	if err != nil {
		return err
	}

	if cli.Dump {
		for _, f := range res.Files {
			for _, e := range f.Entries {
				fmt.Printf("%s %s\n", e.Site, e.Name)
				pretty.Println(e.Expression)
			}
		}
	}

	for _, d := range res.Diagnostics {
		color.Red("%s", d)
	}
	if len(res.Diagnostics) > 0 {
		return fmt.Errorf("%w: %d", ErrUnresolved, len(res.Diagnostics))
	}

	if cli.Check {
		stale, err := g.Check(res)
		if err != nil {
			return err
		}
		for _, path := range stale {
			color.Yellow("Out of date: %s", path)
		}
		if len(stale) > 0 {
			return ErrOutOfDate
		}
		return nil
	}

	written, err := g.Write(res)
	for _, path := range written {
		color.Green("Generated: %s", path)
	}
	if err != nil {
		return err
	}
	logger.Debug().Int("files", len(res.Files)).Int("written", len(written)).Msg("done")
	return nil
}

// merge overlays the flags that were set on cfg.
func (cli *CLI) merge(cfg gen.Config) gen.Config {
	if cli.Dir != "" {
		cfg.Dir = cli.Dir
	}
	if cli.Tests {
		cfg.Tests = true
	}
	if cli.Output != "" {
		cfg.Output = cli.Output
	}
	if len(cli.Patterns) > 0 {
		cfg.Patterns = cli.Patterns
	}
	return cfg
}
