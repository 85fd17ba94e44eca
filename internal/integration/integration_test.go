package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/auth"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/config"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/directory"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/engine"
	httpapi "github.com/fairyhunter13/inventory-dashboard-simulator/internal/http"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/obs"
)

// wire assembles the full stack the way main does, with a deterministic
// directory (no latency, no injected failures).
func wire(t *testing.T) http.Handler {
	t.Helper()
	obs.InitLogger()
	sim := directory.New(directory.Config{Seed: 7, Policy: directory.NeverFail{}})
	notices := engine.NewRing(64)
	eng := engine.New(sim, notices, engine.Config{})
	t.Cleanup(eng.Close)
	app := httpapi.NewApp(config.Config{}, eng, auth.NewDirectory(), notices)
	return httpapi.NewRouter(app)
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("X-Actor", "staff1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestIntegration_LoginAdjustAndHistory(t *testing.T) {
	h := wire(t)

	w := call(t, h, http.MethodPost, "/login", `{"username":"staff1","password":"staff123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}

	if w = call(t, h, http.MethodPost, "/reload", ""); w.Code != http.StatusOK {
		t.Fatalf("reload: expected 200, got %d", w.Code)
	}

	w = call(t, h, http.MethodPost, "/products/1/stock", `{"change":-3,"note":"damaged units"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("stock: expected 200, got %d", w.Code)
	}

	w = call(t, h, http.MethodGet, "/products/1/history?limit=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var res struct {
		Entries []struct {
			Change int64  `json:"change"`
			Note   string `json:"note"`
			User   string `json:"user"`
		} `json:"entries"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Total != 21 {
		t.Fatalf("expected 21 history entries, got %d", res.Total)
	}
	if len(res.Entries) != 1 || res.Entries[0].Change != -3 || res.Entries[0].Note != "damaged units" {
		t.Fatalf("unexpected newest entry: %+v", res.Entries)
	}
	if res.Entries[0].User != "staff1" {
		t.Fatalf("expected actor staff1, got %q", res.Entries[0].User)
	}
}

func TestIntegration_OfflineReplayRoundTrip(t *testing.T) {
	h := wire(t)
	call(t, h, http.MethodPost, "/reload", "")

	if w := call(t, h, http.MethodPost, "/connectivity", `{"online":false}`); w.Code != http.StatusOK {
		t.Fatalf("offline: expected 200, got %d", w.Code)
	}
	if w := call(t, h, http.MethodPost, "/products/2/stock", `{"change":4}`); w.Code != http.StatusAccepted {
		t.Fatalf("queued stock: expected 202, got %d", w.Code)
	}
	if w := call(t, h, http.MethodPost, "/products/2/stock", `{"change":1}`); w.Code != http.StatusAccepted {
		t.Fatalf("queued stock: expected 202, got %d", w.Code)
	}

	w := call(t, h, http.MethodPost, "/connectivity", `{"online":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("reconnect: expected 200, got %d", w.Code)
	}
	var v engine.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.QueueLength != 0 {
		t.Fatalf("expected drained queue, got %d", v.QueueLength)
	}
	for _, p := range v.Items {
		if p.ID == "2" && p.Stock != 23+4+1 {
			t.Fatalf("expected stock 28 after replay, got %d", p.Stock)
		}
	}

	w = call(t, h, http.MethodGet, "/notices", "")
	if !bytes.Contains(w.Body.Bytes(), []byte("Synced 2 of 2 changes")) {
		t.Fatalf("expected replay summary notice, got %s", w.Body.String())
	}
}
