package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/pools/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/pools/:id", "404"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pools/abc", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/pools/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordChainRead(t *testing.T) {
	before := testutil.ToFloat64(chainReads.WithLabelValues("balance", "error"))
	RecordChainRead("balance", errors.New("rpc down"))
	assert.Equal(t, before+1, testutil.ToFloat64(chainReads.WithLabelValues("balance", "error")))
}
