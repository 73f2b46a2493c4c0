package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "enricher/internal/platform/net/http"
	"enricher/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func getSpec(t *testing.T) (int, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &spec)
	return rr.Code, spec
}

func TestDocJSON_RegisteredSpec(t *testing.T) {
	testkit.Serial(t)

	code, spec := getSpec(t)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	paths := spec["paths"].(map[string]any)
	enrich, ok := paths["/transactions/enrich"].(map[string]any)
	if !ok {
		t.Fatalf("enrich path missing, have %v", paths)
	}
	resps := enrich["post"].(map[string]any)["responses"].(map[string]any)
	for _, s := range []string{"200", "400", "500"} {
		if _, ok := resps[s]; !ok {
			t.Fatalf("response %s missing", s)
		}
	}
}

func TestDocJSON_Swagger2Lifted(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string {
		return `{"swagger":"2.0","info":{"title":"x"},"paths":{"/a":{"get":{}}}}`
	})

	_, spec := getSpec(t)
	if _, ok := spec["swagger"]; ok || spec["openapi"] != "3.0.3" {
		t.Fatalf("spec not lifted: %v", spec)
	}
	if spec["servers"] == nil {
		t.Fatalf("servers missing")
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("error schema missing")
	}
}

func TestDocJSON_BadSpec(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docReader, func() string { return "{" })

	code, _ := getSpec(t)
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d", code)
	}
}

func TestMount_DisabledAndRedirect(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), false)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs status = %d", rr.Code)
	}

	mux = chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect status = %d", rr.Code)
	}
}

func TestRegister_Mutator(t *testing.T) {
	testkit.Serial(t)
	mu.Lock()
	saved := mutators
	mu.Unlock()
	t.Cleanup(func() { mu.Lock(); mutators = saved; mu.Unlock() })

	Register(nil)
	Register(func(spec map[string]any) { spec["x-mutated"] = true })

	_, spec := getSpec(t)
	if spec["x-mutated"] != true {
		t.Fatalf("mutator not applied")
	}
}
