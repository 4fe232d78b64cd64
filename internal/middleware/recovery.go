package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500. The response carries the request id
// set by LogRequest, so a failed workout or meal log can be found in the logs.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				requestID := w.Header().Get(RequestIDHeader)
				log.WithFields(log.Fields{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
				}).Errorf("panic: %v\n%s", rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				msg := "error, fitcoach failed to handle the request"
				if requestID != "" {
					msg = fmt.Sprintf("%s [request id: %s]", msg, requestID)
				}
				http.Error(w, msg, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
