package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/commerce-analytics-api/pkg/metrics"
)

// Instrument registra contagem e latência da rota. path é o padrão da rota, não a URL recebida,
// para manter a cardinalidade dos labels sob controle.
func Instrument(m *metrics.Metrics, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			lrw := newLoggingResponseWriter(w)
			start := time.Now()

			next.ServeHTTP(lrw, r)

			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(lrw.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
