package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artpar/modeladmin/adapters/metrics"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/registry"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// value returns the gathered value of a gauge or counter series whose
// labels match the given name/value pairs.
func value(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	series:
		for _, m := range f.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for i := 0; i+1 < len(labels); i += 2 {
				if got[labels[i]] != labels[i+1] {
					continue series
				}
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue()
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestNewWithRegistry(t *testing.T) {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m.RegisteredModels == nil || m.RegistryLookups == nil {
		t.Error("registry metrics are nil")
	}
	if m.RequestsTotal == nil || m.RequestDuration == nil || m.RequestsInFlight == nil {
		t.Error("request metrics are nil")
	}
	if m.ConfigReloads == nil || m.ConfigReloadErrors == nil || m.ConfigLastReload == nil {
		t.Error("config metrics are nil")
	}

	// A second collector on another registry must not collide.
	metrics.NewWithRegistry(prometheus.NewRegistry())
}

func TestCollector_RegistryMetrics(t *testing.T) {
	preg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(preg)
	reg := registry.New(registry.WithMetrics(m))

	reg.Register(&descriptor.Static{
		Name: "Article",
		List: []string{"title"},
		Edit: []schema.Field{schema.Text("title", "Title")},
	})
	reg.Register(&descriptor.Static{
		Name: "Medium",
		Path: "media",
		List: []string{"title"},
		Edit: []schema.Field{schema.Text("title", "Title")},
	})

	if got := value(t, preg, "modeladmin_registered_models"); got != 2 {
		t.Errorf("registered_models = %v, want 2", got)
	}

	reg.Lookup("articles")
	reg.Lookup("articles")
	reg.Lookup("missing")

	if got := value(t, preg, "modeladmin_registry_lookups_total", "result", "hit"); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := value(t, preg, "modeladmin_registry_lookups_total", "result", "miss"); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}

	reg.Reset()
	if got := value(t, preg, "modeladmin_registered_models"); got != 0 {
		t.Errorf("registered_models after reset = %v, want 0", got)
	}
}

func TestCollector_RecordOpsAndReloads(t *testing.T) {
	preg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(preg)

	m.ObserveRecordOp("articles", "create", nil)
	m.ObserveRecordOp("articles", "delete", errors.New("boom"))
	if got := value(t, preg, "modeladmin_record_operations_total", "model", "articles", "op", "create", "result", "ok"); got != 1 {
		t.Errorf("create ok = %v", got)
	}
	if got := value(t, preg, "modeladmin_record_operations_total", "model", "articles", "op", "delete", "result", "error"); got != 1 {
		t.Errorf("delete error = %v", got)
	}

	m.ObserveReload(nil)
	m.ObserveReload(errors.New("bad yaml"))
	if got := value(t, preg, "modeladmin_config_reloads_total"); got != 1 {
		t.Errorf("reloads = %v", got)
	}
	if got := value(t, preg, "modeladmin_config_reload_errors_total"); got != 1 {
		t.Errorf("reload errors = %v", got)
	}
	if value(t, preg, "modeladmin_config_last_reload_timestamp") == 0 {
		t.Error("last reload timestamp not set")
	}
}

func TestCollector_Middleware(t *testing.T) {
	preg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(preg)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/", "/", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := value(t, preg, "modeladmin_http_requests_total", "method", "GET", "status", "2xx"); got != 2 {
		t.Errorf("2xx = %v, want 2", got)
	}
	if got := value(t, preg, "modeladmin_http_requests_total", "method", "GET", "status", "4xx"); got != 1 {
		t.Errorf("4xx = %v, want 1", got)
	}
	if got := value(t, preg, "modeladmin_http_requests_in_flight"); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	preg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(preg)
	m.SetRegisteredModels(3)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "modeladmin_registered_models 3") {
		t.Errorf("body missing gauge:\n%s", rr.Body.String())
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		302: "3xx",
		422: "4xx",
		503: "5xx",
		0:   "unknown",
		700: "unknown",
	}
	for code, want := range tests {
		if got := metrics.StatusClass(code); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
