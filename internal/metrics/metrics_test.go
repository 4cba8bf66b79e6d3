package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordMutation(t *testing.T) {
	s := NewSet()

	s.RecordMutation("INSERT")
	s.RecordMutation("INSERT")
	s.RecordMutation("DELETE")

	if got := testutil.ToFloat64(s.granjaMutations.WithLabelValues("INSERT")); got != 2 {
		t.Fatalf("expected 2 inserts, got %v", got)
	}
	if got := testutil.ToFloat64(s.granjaMutations.WithLabelValues("DELETE")); got != 1 {
		t.Fatalf("expected 1 delete, got %v", got)
	}
}

func TestNilSetIsNoop(t *testing.T) {
	var s *Set
	s.RecordMutation("INSERT")
	s.RecordLogin("ok")
	s.RecordHTTPRequest(http.MethodGet, "200")
}

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewSet()

	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := testutil.ToFloat64(s.httpRequests.WithLabelValues(http.MethodGet, "204")); got != 2 {
		t.Fatalf("expected 2 requests counted for 204, got %v", got)
	}
	if got := testutil.ToFloat64(s.httpRequests.WithLabelValues(http.MethodGet, "404")); got != 1 {
		t.Fatalf("expected 1 request counted for 404, got %v", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	s := NewSet()
	s.RecordLogin("throttled")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `login_attempts_total{result="throttled"} 1`) {
		t.Fatalf("exposition missing counter:\n%s", rec.Body.String())
	}
}
