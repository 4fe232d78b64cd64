package middleware

import (
	"io"
	"net/http"
)

const DefaultMaxDrain = 256 << 10

// DrainAndCloseRequest reads up to maxDrain unread body bytes after the handler returns,
// then closes the body. A rejected meal photo is not read to the end.
func DrainAndCloseRequest(maxDrain int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrain)
			_ = r.Body.Close()
		})
	}
}
