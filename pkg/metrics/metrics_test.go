package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveVendorCall(t *testing.T) {
	before := testutil.ToFloat64(VendorCallsTotal.WithLabelValues("paymongo", "test_op", "200"))
	noResp := testutil.ToFloat64(VendorCallsTotal.WithLabelValues("paymongo", "test_op", "none"))

	ObserveVendorCall("paymongo", "test_op", http.StatusOK, time.Now())
	ObserveVendorCall("paymongo", "test_op", 0, time.Now())

	assert.Equal(t, before+1, testutil.ToFloat64(VendorCallsTotal.WithLabelValues("paymongo", "test_op", "200")))
	assert.Equal(t, noResp+1, testutil.ToFloat64(VendorCallsTotal.WithLabelValues("paymongo", "test_op", "none")))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	counter := HTTPRequestsTotal.WithLabelValues("/things/:id", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestGinMiddleware_RouteLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/health/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	unmatched := HTTPRequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404")
	probe := HTTPRequestsTotal.WithLabelValues("/health/live", http.MethodGet, "200")
	beforeUnmatched, beforeProbe := testutil.ToFloat64(unmatched), testutil.ToFloat64(probe)

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, beforeProbe, testutil.ToFloat64(probe))
	assert.Equal(t, float64(0), testutil.ToFloat64(HTTPRequestsInFlight))
}
