// Copyright 2025 The Rivaas Authors
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

package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/route"
	"rivaas.dev/dispatch/router"
)

type auditLog struct {
	mu      sync.Mutex
	entries []string
}

func (a *auditLog) Terminated(ctx context.Context, req *http.Request, res *message.Response, next *router.TerminatedHandler) {
	a.mu.Lock()
	a.entries = append(a.entries, req.Method+" "+req.URL.Path)
	a.mu.Unlock()
	next.Handle(ctx, req, res)
}

func (a *auditLog) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

type requireToken struct{}

func (requireToken) RouteMatched(ctx context.Context, req *http.Request, m *route.Match, next *router.RouteMatchedHandler) (*route.Match, *message.Response, error) {
	if req.Header.Get("X-Token") != "secret" {
		return m, message.Text(http.StatusUnauthorized, "missing token"), nil
	}
	return next.Handle(ctx, req, m)
}

var _ = Describe("Router Integration", func() {
	var (
		server *httptest.Server
		audit  *auditLog
		hits   atomic.Int64
	)

	BeforeEach(func() {
		audit = &auditLog{}
		hits.Store(0)

		routes := collection.New()
		api := routes.Group("/api").SetNamePrefix("api.").Use(route.Stages{Terminated: []string{"audit"}})
		api.MustAdd(route.GET("/widgets/{id}").Name("widgets.show").WhereInt("id").Handler("widgets.Show"))
		api.MustAdd(route.DELETE("/widgets/{id}").Name("widgets.destroy").WhereInt("id").
			OnRouteMatched("auth").Handler("widgets.Destroy"))
		routes.MustAdd(route.GET("/health").Name("health").Handler("health"))
		routes.MustAdd(route.GET("/explode").Name("explode").Handler("explode"))

		c := container.New().
			Set("audit", audit).
			Set("auth", requireToken{})

		handlers := dispatch.NewRegistry().
			Handle("widgets.Show", func(_ context.Context, args dispatch.Arguments) (any, error) {
				hits.Add(1)
				id, _ := dispatch.Arg[int](args, "id")
				return message.JSON(http.StatusOK, map[string]int{"id": id}), nil
			}).
			Handle("widgets.Destroy", func(context.Context, dispatch.Arguments) (any, error) {
				return message.NoContent(), nil
			}).
			Handle("health", func(context.Context, dispatch.Arguments) (any, error) {
				return message.Text(http.StatusOK, "ok"), nil
			}).
			Handle("explode", func(context.Context, dispatch.Arguments) (any, error) {
				panic("kaboom")
			})

		r := router.MustNew(routes, router.WithDispatcher(handlers), router.WithContainer(c))
		r.OnSendingResponse(router.SendingResponseFunc(func(ctx context.Context, req *http.Request, res *message.Response, next *router.SendingResponseHandler) *message.Response {
			return next.Handle(ctx, req, res.WithHeader("X-Served-By", "dispatch"))
		}))

		server = httptest.NewServer(r)
		DeferCleanup(server.Close)
	})

	do := func(method, path string, header http.Header) (*http.Response, string) {
		req, err := http.NewRequest(method, server.URL+path, nil)
		Expect(err).NotTo(HaveOccurred())
		for k, v := range header {
			req.Header[k] = v
		}
		res, err := server.Client().Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		Expect(err).NotTo(HaveOccurred())
		return res, string(body)
	}

	DescribeTable("should answer requests",
		func(method, path string, header http.Header, wantStatus int, wantBody string) {
			res, body := do(method, path, header)
			Expect(res.StatusCode).To(Equal(wantStatus))
			Expect(res.Header.Get("X-Served-By")).To(Equal("dispatch"))
			if wantBody != "" {
				Expect(body).To(ContainSubstring(wantBody))
			}
		},
		Entry("matched route with cast parameter", http.MethodGet, "/api/widgets/42", nil, http.StatusOK, `{"id":42}`),
		Entry("static route", http.MethodGet, "/health", nil, http.StatusOK, "ok"),
		Entry("constraint failure", http.MethodGet, "/api/widgets/abc", nil, http.StatusNotFound, `"status":404`),
		Entry("wrong method", http.MethodPost, "/api/widgets/1", nil, http.StatusMethodNotAllowed, `"status":405`),
		Entry("route middleware rejects", http.MethodDelete, "/api/widgets/1", nil, http.StatusUnauthorized, "missing token"),
		Entry("route middleware accepts", http.MethodDelete, "/api/widgets/1", http.Header{"X-Token": {"secret"}}, http.StatusNoContent, ""),
		Entry("handler panic", http.MethodGet, "/explode", nil, http.StatusInternalServerError, `"status":500`),
	)

	It("should send an Allow header for 405 responses", func() {
		res, _ := do(http.MethodPut, "/api/widgets/1", nil)
		Expect(res.StatusCode).To(Equal(http.StatusMethodNotAllowed))
		Expect(res.Header.Get("Allow")).To(Equal("DELETE, GET, HEAD"))
	})

	It("should not leak panic details", func() {
		res, body := do(http.MethodGet, "/explode", nil)
		Expect(res.Header.Get("Content-Type")).To(HavePrefix("application/problem+json"))

		var problem map[string]any
		Expect(json.Unmarshal([]byte(body), &problem)).To(Succeed())
		Expect(problem["detail"]).To(Equal(http.StatusText(http.StatusInternalServerError)))
		Expect(body).NotTo(ContainSubstring("kaboom"))
	})

	It("should omit the body for HEAD requests", func() {
		res, body := do(http.MethodHead, "/api/widgets/5", nil)
		Expect(res.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(BeEmpty())
	})

	It("should run group terminated middleware only for group routes", func() {
		do(http.MethodGet, "/api/widgets/1", nil)
		do(http.MethodGet, "/health", nil)
		do(http.MethodGet, "/api/nothing", nil)

		Expect(audit.len()).To(Equal(1))
	})

	It("should handle concurrent requests", func() {
		const concurrency = 50
		var wg sync.WaitGroup
		var ok atomic.Int64

		for i := range concurrency {
			wg.Go(func() {
				defer GinkgoRecover()
				path := "/api/widgets/" + strings.Repeat("1", i%5+1)
				res, err := server.Client().Get(server.URL + path)
				Expect(err).NotTo(HaveOccurred())
				_ = res.Body.Close()
				if res.StatusCode == http.StatusOK {
					ok.Add(1)
				}
			})
		}
		wg.Wait()

		Expect(ok.Load()).To(Equal(int64(concurrency)))
		Expect(hits.Load()).To(Equal(int64(concurrency)))
		Expect(audit.len()).To(Equal(concurrency))
	})
})
