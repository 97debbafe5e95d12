package middleware

import (
	"net/http"
	"time"

	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
)

// Metrics records duration and status for every handled request.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			reg.ObserveRequest(r.Method, rec.status, time.Since(start))
		})
	}
}
