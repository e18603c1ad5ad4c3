package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests and error responses into counters owned
// by the caller, so the /metrics endpoint can report them without a
// dependency on this package's state.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
}

func NewMetricsCollector(requestCount, errorCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
	}
}

// Middleware counts every request and every 4xx/5xx response.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= http.StatusBadRequest {
			mc.errorCount.Add(1)
		}
	})
}
