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

package app_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/net/http2"

	"github.com/AlejandroPF/tight/app"
	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/modules/api"
	"github.com/AlejandroPF/tight/router/route"
)

// started runs a on an ephemeral port and returns its base URL and the
// channel Serve's result is delivered on.
func started(ctx context.Context, a *app.App) (string, <-chan error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	Eventually(func() error {
		resp, err := http.Get(url + "/ping")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}).WithTimeout(5 * time.Second).Should(Succeed())
	return url, done
}

func newApp(values map[string]any) *app.App {
	cfg := config.MustNew(config.WithValues(values))
	Expect(cfg.Load(context.Background())).To(Succeed())

	a := app.MustNew(
		app.WithConfig(cfg),
		app.WithLogger(slog.New(slog.DiscardHandler)),
		app.WithOutput(io.Discard),
	)
	a.Get("/ping", func(*route.Context, ...string) (string, error) { return "pong", nil })
	return a
}

var _ = Describe("App", func() {
	Describe("Serve", func() {
		It("serves routes and shuts down when the context is canceled", func() {
			a := newApp(map[string]any{"server": map[string]any{"shutdown_timeout": "2s"}})
			a.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
				return "Hello " + args[0], nil
			})

			ctx, cancel := context.WithCancel(context.Background())
			url, done := started(ctx, a)

			resp, err := http.Get(url + "/hello/world")
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(resp.Body)
			Expect(resp.Body.Close()).To(Succeed())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("Hello world"))
			Expect(resp.Header.Get(app.RequestIDHeader)).NotTo(BeEmpty())

			cancel()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		})

		It("rejects a second concurrent Serve", func() {
			a := newApp(nil)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			_, done := started(ctx, a)

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Serve(ctx, ln)).To(MatchError(app.ErrAlreadyRunning))

			cancel()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		})

		It("speaks HTTP/2 over cleartext when h2c is enabled", func() {
			a := newApp(map[string]any{"server": map[string]any{"h2c": true}})
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			url, done := started(ctx, a)

			client := &http.Client{Transport: &http2.Transport{
				AllowHTTP: true,
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					return (&net.Dialer{}).DialContext(ctx, network, addr)
				},
			}}
			resp, err := client.Get(url + "/ping")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.ProtoMajor).To(Equal(2))

			cancel()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))
		})
	})

	Describe("Lifecycle hooks", func() {
		It("runs hooks in lifecycle order with shutdown hooks reversed", func() {
			a := newApp(nil)

			var (
				mu    sync.Mutex
				order []string
			)
			record := func(name string) {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
			}
			ready := make(chan struct{})

			a.OnStart(func(context.Context) error {
				record("start")
				return nil
			})
			a.OnReady(func() { close(ready) })
			a.OnShutdown(func(context.Context) { record("shutdown-1") })
			a.OnShutdown(func(context.Context) { record("shutdown-2") })
			a.OnStop(func() { record("stop") })
			a.OnStop(func() { panic("ignored") })

			ctx, cancel := context.WithCancel(context.Background())
			_, done := started(ctx, a)
			Eventually(ready).Should(BeClosed())

			Expect(func() { a.OnStart(func(context.Context) error { return nil }) }).To(Panic())

			cancel()
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(BeNil()))

			mu.Lock()
			defer mu.Unlock()
			Expect(order).To(Equal([]string{"start", "shutdown-2", "shutdown-1", "stop"}))
		})

		It("tears down modules and runs OnStop hooks when the server fails", func() {
			a := newApp(nil)
			Expect(a.AddModule(api.New())).To(Succeed())
			stopped := false
			a.OnStop(func() { stopped = true })

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			Expect(ln.Close()).To(Succeed())

			err = a.Serve(context.Background(), ln)
			Expect(err).To(MatchError(ContainSubstring("server failed")))
			Expect(stopped).To(BeTrue())
			Expect(a.Modules().Len()).To(BeZero())
		})

		It("tears down when graceful shutdown times out", func() {
			a := newApp(map[string]any{"server": map[string]any{"shutdown_timeout": "50ms"}})
			Expect(a.AddModule(api.New())).To(Succeed())

			entered := make(chan struct{})
			release := make(chan struct{})
			defer close(release)
			a.Get("/slow", func(*route.Context, ...string) (string, error) {
				close(entered)
				<-release
				return "late", nil
			})
			stopped := make(chan struct{})
			a.OnStop(func() { close(stopped) })

			ctx, cancel := context.WithCancel(context.Background())
			url, done := started(ctx, a)
			go func() {
				if resp, err := http.Get(url + "/slow"); err == nil {
					_ = resp.Body.Close()
				}
			}()
			Eventually(entered).WithTimeout(5 * time.Second).Should(BeClosed())

			cancel()
			var err error
			Eventually(done).WithTimeout(5 * time.Second).Should(Receive(&err))
			Expect(err).To(MatchError(ContainSubstring("forced to shutdown")))
			Expect(stopped).To(BeClosed())
			Expect(a.Modules().Len()).To(BeZero())
		})

		It("aborts startup when an OnStart hook fails", func() {
			a := newApp(nil)
			boom := errors.New("migrations pending")
			a.OnStart(func(context.Context) error { return boom })

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			err = a.Serve(context.Background(), ln)
			Expect(err).To(MatchError(boom))

			_, dialErr := net.Dial("tcp", ln.Addr().String())
			Expect(dialErr).To(HaveOccurred())
		})
	})

	Describe("Run", func() {
		It("fails when the address cannot be bound", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			defer ln.Close()

			a := newApp(map[string]any{"server": map[string]any{"addr": ln.Addr().String()}})
			Expect(a.Run(context.Background())).To(HaveOccurred())
		})
	})
})
