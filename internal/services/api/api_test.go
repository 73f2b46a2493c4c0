package api

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"enricher/internal/modkit/module"
	"enricher/internal/platform/config"
	phttp "enricher/internal/platform/net/http"
	"enricher/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func newAPI(t *testing.T, opt Options) stdhttp.Handler {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), opt)
	return mux
}

func call(h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMount_WithoutBackends(t *testing.T) {
	testkit.Serial(t)
	h := newAPI(t, Options{Config: config.New().Prefix("EAPI_")})

	if names := module.Names(); !slices.Equal(names, []string{"enrich", "meta"}) {
		t.Fatalf("modules = %v", names)
	}

	rr := call(h, stdhttp.MethodPost, "/api/v1/transactions/enrich",
		`[{"description":"Viaje en Uber Santiago","amount":-4500,"date":"2025-04-28"}]`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("enrich status = %d body=%s", rr.Code, rr.Body.String())
	}
	testkit.MustContain(t, rr.Body.String(), `"enriched_category"`)
	testkit.MustNotContain(t, rr.Body.String(), `"error"`)

	if rr := call(h, stdhttp.MethodGet, "/api/v1/catalog/categories", ""); rr.Code != stdhttp.StatusNotFound {
		t.Fatalf("catalog must not mount without postgres, got %d", rr.Code)
	}

	rr = call(h, stdhttp.MethodGet, "/api/v1/meta/ready", "")
	var ready struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &ready); err != nil || ready.Data.Status != "ok" {
		t.Fatalf("ready = %s, %v", rr.Body.String(), err)
	}
	testkit.MustContain(t, rr.Body.String(), `{"name":"knowledge","status":"ok"`)
}

func TestMount_SwaggerToggle(t *testing.T) {
	testkit.Serial(t)
	on := newAPI(t, Options{Config: config.New().Prefix("EAPI_"), EnableSwagger: true})
	if rr := call(on, stdhttp.MethodGet, "/api/docs/doc.json", ""); rr.Code != stdhttp.StatusOK {
		t.Fatalf("doc.json status = %d", rr.Code)
	}

	off := newAPI(t, Options{Config: config.New().Prefix("EAPI_")})
	if rr := call(off, stdhttp.MethodGet, "/api/docs/doc.json", ""); rr.Code != stdhttp.StatusNotFound {
		t.Fatalf("doc.json must be absent, got %d", rr.Code)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	testkit.Serial(t)
	t.Setenv("EAPI_CORE_API_SWAGGER", "false")
	t.Setenv("EAPI_CORE_API_PROFILER", "true")

	o := OptionsFromConfig(config.New().Prefix("EAPI_"), nil)
	if o.EnableSwagger || !o.EnableProfiler {
		t.Fatalf("options = %+v", o)
	}
}
