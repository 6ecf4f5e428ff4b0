package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
)

type pong struct{}

type pongOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (pong) RegisterPing(api huma.API) {
	huma.Get(api, "/ping", func(context.Context, *struct{}) (*pongOutput, error) {
		out := &pongOutput{}
		out.Body.Message = "pong"
		return out, nil
	})
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(method, target, nil))
	return resp
}

func TestNew(t *testing.T) {
	var calls []string
	h := New("Test API", "1.0.0",
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "up 1\n") },
		OptUseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			calls = append(calls, ctx.Operation().Path)
			next(ctx)
		}),
		OptGroup("/api", OptGroup("/v1", OptAutoRegister(pong{}))),
	)

	if resp := serve(t, h, http.MethodGet, "/liveness"); resp.Code != http.StatusOK {
		t.Fatalf("liveness status = %d", resp.Code)
	}
	if resp := serve(t, h, http.MethodGet, "/readiness"); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness status = %d", resp.Code)
	}
	if resp := serve(t, h, http.MethodGet, "/metrics"); resp.Body.String() != "up 1\n" {
		t.Fatalf("metrics body = %q", resp.Body.String())
	}

	resp := serve(t, h, http.MethodGet, "/api/v1/ping")
	if resp.Code != http.StatusOK {
		t.Fatalf("ping status = %d, body %s", resp.Code, resp.Body.String())
	}
	if len(calls) != 1 || calls[0] != "/api/v1/ping" {
		t.Fatalf("middleware calls = %v", calls)
	}

	if resp := serve(t, h, http.MethodGet, "/ping"); resp.Code != http.StatusNotFound {
		t.Fatalf("unprefixed ping status = %d, want 404", resp.Code)
	}
	if resp := serve(t, h, http.MethodGet, "/openapi.json"); resp.Code != http.StatusOK {
		t.Fatalf("openapi status = %d", resp.Code)
	}
}
