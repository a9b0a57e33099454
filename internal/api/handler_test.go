package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/pipetree/internal/api"
	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/engine"
	"github.com/gyaneshwarpardhi/pipetree/internal/graph"
	"github.com/gyaneshwarpardhi/pipetree/internal/hook"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

const pipelineYAML = `
version: v1
browser:
  delete_icon: trash
sources:
  - key: wavelet
    name: Wavelet1
  - key: contour
    name: Contour1
    inputs: [wavelet]
`

type wireState struct {
	Sources []map[string]interface{} `json:"pipeline_sources"`
	Actives []string                 `json:"pipeline_actives"`
	Actions map[string]string        `json:"pipeline_actions"`
}

type fixture struct {
	srv  *httptest.Server
	ids  map[string]int64
	path string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	cfg := loader.Config()
	svc, ids, err := graph.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hooks := hook.NewRegistry(nil)
	br := pipeline.NewBrowser(pipeline.NewSession(svc, nil), hooks,
		pipeline.WithActionIcon(pipeline.ActionDelete, cfg.Browser.DeleteIcon))
	hook.RegisterDefaults(hooks, svc, br, nil)

	ctx, cancel := context.WithCancel(context.Background())
	eng := engine.New(ctx, br, cfg.Server)
	if _, err := eng.Update(ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}
	srv := httptest.NewServer(api.New(eng, svc, loader))
	t.Cleanup(func() {
		srv.Close()
		eng.Shutdown()
		cancel()
	})
	return &fixture{srv: srv, ids: ids, path: path}
}

func (f *fixture) id(key string) string {
	return strconv.FormatInt(f.ids[key], 10)
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, wireState) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var st wireState
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode, st
}

func TestGetState(t *testing.T) {
	f := newFixture(t)
	code, st := f.do(t, http.MethodGet, "/v1/pipeline", "")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(st.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(st.Sources))
	}
	if st.Actions["delete"] != "trash" {
		t.Errorf("action map = %v", st.Actions)
	}
	if st.Actives == nil || len(st.Actives) != 0 {
		t.Errorf("actives = %v, want []", st.Actives)
	}
	contour := st.Sources[1]
	if contour["parent"] != f.id("wavelet") || contour["actions"] == nil {
		t.Errorf("unexpected contour record %v", contour)
	}
}

func TestSetActive(t *testing.T) {
	f := newFixture(t)
	code, st := f.do(t, http.MethodPost, "/v1/pipeline/active", `{"ids":["`+f.id("contour")+`","999"]}`)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(st.Actives) != 1 || st.Actives[0] != f.id("contour") {
		t.Errorf("actives = %v", st.Actives)
	}

	_, st = f.do(t, http.MethodPost, "/v1/pipeline/active", `{"ids":[]}`)
	if len(st.Actives) != 0 {
		t.Errorf("empty selection should clear, got %v", st.Actives)
	}
}

func TestSetVisibility(t *testing.T) {
	f := newFixture(t)
	_, st := f.do(t, http.MethodPost, "/v1/pipeline/visibility", `{"id":"`+f.id("wavelet")+`","visible":false}`)
	if st.Sources[0]["visible"] != float64(0) {
		t.Errorf("wavelet visible = %v, want 0", st.Sources[0]["visible"])
	}

	code, _ := f.do(t, http.MethodPost, "/v1/pipeline/visibility", `{"id":"5000","visible":true}`)
	if code != http.StatusOK {
		t.Errorf("unknown id must be a silent no-op, got status %d", code)
	}
}

func TestDeleteAction(t *testing.T) {
	f := newFixture(t)

	_, st := f.do(t, http.MethodPost, "/v1/pipeline/action", `{"id":"`+f.id("wavelet")+`","action":"delete"}`)
	if len(st.Sources) != 2 {
		t.Errorf("non-leaf delete must be refused, got %d sources", len(st.Sources))
	}
	_, st = f.do(t, http.MethodPost, "/v1/pipeline/action", `{"id":"`+f.id("contour")+`","action":"rename"}`)
	if len(st.Sources) != 2 {
		t.Errorf("unknown action must be ignored, got %d sources", len(st.Sources))
	}
	_, st = f.do(t, http.MethodPost, "/v1/pipeline/action", `{"id":"`+f.id("contour")+`","action":"delete"}`)
	if len(st.Sources) != 1 || st.Sources[0]["id"] != f.id("wavelet") {
		t.Errorf("expected only wavelet left, got %v", st.Sources)
	}
}

func TestBadJSON(t *testing.T) {
	f := newFixture(t)
	if code, _ := f.do(t, http.MethodPost, "/v1/pipeline/active", `{`); code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", code)
	}
}

func TestReloadConfig(t *testing.T) {
	f := newFixture(t)
	doc := "version: v1\nsources:\n  - key: sphere\n    name: Sphere1\n"
	if err := os.WriteFile(f.path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	code, st := f.do(t, http.MethodPost, "/v1/config/reload", "")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(st.Sources) != 1 || st.Sources[0]["name"] != "Sphere1" {
		t.Errorf("unexpected sources after reload: %v", st.Sources)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(f.srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status %d", path, resp.StatusCode)
		}
	}
}
