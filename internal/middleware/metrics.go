package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/homebase/internal/observability"
)

// Instrument records request count and latency for route. route is the
// registered pattern, never the raw path, to keep label cardinality bounded.
func Instrument(m *observability.Metrics, route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
