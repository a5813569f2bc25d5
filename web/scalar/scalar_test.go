package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/pulse/pkg/routes"
	"github.com/JaimeStill/pulse/web/scalar"
)

func TestRoutesServesReference(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, scalar.Routes("/docs", "Pulse API", "/api"))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/docs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-url="/api"`) {
		t.Errorf("spec url missing from page: %s", body)
	}
	if !strings.Contains(body, "<title>Pulse API Reference</title>") {
		t.Errorf("title missing from page")
	}
}
