package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMiddleware_RecordsAndServes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/login", nil))

	scrape := httptest.NewRecorder()
	Handler(reg).ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if scrape.Code != http.StatusOK {
		t.Fatalf("scrape status = %d; want 200", scrape.Code)
	}
	body, _ := io.ReadAll(scrape.Result().Body)
	if !strings.Contains(string(body), "reelplan_http_requests_total") {
		t.Error("scrape output missing reelplan_http_requests_total")
	}
}
