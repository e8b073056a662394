// Copyright 2025 The Tight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command tight serves a demo Tight application.
//
// Usage:
//
//	tight [-config tight.yaml] [-addr :8080] [-dump-config]
//
// Configuration is layered: defaults, the optional config file, TIGHT_*
// environment variables (TIGHT_SERVER__ADDR sets server.addr) and finally
// the flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlejandroPF/tight/app"
	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/config/codec"
	"github.com/AlejandroPF/tight/modules/api"
	"github.com/AlejandroPF/tight/modules/cookie"
	"github.com/AlejandroPF/tight/modules/session"
	"github.com/AlejandroPF/tight/mvc"
	"github.com/AlejandroPF/tight/router/route"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tight:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tight", flag.ContinueOnError)
	configFile := fs.String("config", "tight.yaml", "configuration file (optional)")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	dump := fs.Bool("dump-config", false, "print the merged configuration as YAML and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	opts := []config.Option{
		config.WithOptionalFile(*configFile),
		config.WithEnv("TIGHT_"),
	}
	if *addr != "" {
		opts = append(opts, config.WithValues(map[string]any{
			"server": map[string]any{"addr": *addr},
		}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(opts...)
	if err != nil {
		return err
	}
	if err := cfg.Load(ctx); err != nil {
		return err
	}
	if *dump {
		return cfg.Dump(os.Stdout, codec.TypeYAML)
	}

	cookies := cookie.New(cfg.Settings().Cookie)
	sessions := session.NewManager(
		session.NewMemoryStore(cfg.Settings().Session.Lifetime),
		cfg.Settings().Session,
		cookies,
	)

	a, err := app.New(
		app.WithConfig(cfg),
		app.WithServiceVersion(version),
		app.WithModules(api.New(), cookies),
	)
	if err != nil {
		return err
	}
	registerRoutes(a, sessions)
	if err := a.Register(mvc.Resource{Name: "root"}); err != nil {
		return err
	}

	return a.Run(ctx)
}

func registerRoutes(a *app.App, sessions *session.Manager) {
	a.Get("/", func(*route.Context, ...string) (string, error) {
		return "Welcome to Tight", nil
	})

	a.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
		return "Hello " + args[0], nil
	})

	a.Get("/api/echo/:word", func(c *route.Context, args ...string) (string, error) {
		c.Writer.Header().Set("Content-Type", api.ContentType)
		return api.Respond(false, map[string]string{"word": args[0]})
	})

	a.Get("/visits/", func(c *route.Context, _ ...string) (string, error) {
		s, err := sessions.Start(c.Writer, c.Request)
		if err != nil {
			return "", err
		}
		n, _ := s.Get("visits").(int)
		n++
		s.Set("visits", n)
		return fmt.Sprintf("visit %d", n), nil
	})

	a.Map([]string{route.MethodGet, route.MethodPost}, "/echo/:a/:b",
		func(c *route.Context, _ ...string) (string, error) {
			return "[" + strings.ToUpper(c.Method) + "] ", nil
		},
		func(_ *route.Context, args ...string) (string, error) {
			return strings.Join(args, " "), nil
		},
	)
}
